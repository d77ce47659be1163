package dto

// ReportRangeQuery optionally bounds the attendance report.
type ReportRangeQuery struct {
	StartDate string `form:"startDate" json:"startDate" validate:"omitempty,date"`
	EndDate   string `form:"endDate" json:"endDate" validate:"omitempty,date"`
}

// ExportQuery selects the attendance export format.
type ExportQuery struct {
	StartDate string `form:"startDate" json:"startDate" validate:"omitempty,date"`
	EndDate   string `form:"endDate" json:"endDate" validate:"omitempty,date"`
	Format    string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}
