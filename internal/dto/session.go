package dto

// CreateSessionRequest schedules one session, or a weekly series when IsRecurring is set.
type CreateSessionRequest struct {
	ClassID           string  `json:"classId" validate:"required,uuid"`
	Date              string  `json:"date" validate:"required,date"`
	StartTime         string  `json:"startTime" validate:"required,clock"`
	EndTime           string  `json:"endTime" validate:"required,clock"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
	IsRecurring       bool    `json:"isRecurring"`
	DaysOfWeek        []int   `json:"daysOfWeek" validate:"required_if=IsRecurring true,omitempty,max=7,dive,min=0,max=6"`
	RecurrenceEndDate *string `json:"recurrenceEndDate" validate:"required_if=IsRecurring true,omitempty,date"`
}

// UpdateSessionRequest changes the provided session fields only.
type UpdateSessionRequest struct {
	ClassID   *string `json:"classId" validate:"omitempty,uuid"`
	Date      *string `json:"date" validate:"omitempty,date"`
	StartTime *string `json:"startTime" validate:"omitempty,clock"`
	EndTime   *string `json:"endTime" validate:"omitempty,clock"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
	Version   *int    `json:"version" validate:"omitempty,min=1"`
}

// SessionRangeQuery selects sessions between two dates inclusive.
type SessionRangeQuery struct {
	StartDate string `form:"startDate" json:"startDate" validate:"required,date"`
	EndDate   string `form:"endDate" json:"endDate" validate:"required,date"`
}
