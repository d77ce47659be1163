package dto

// CreateProgressRequest opens the belt record of a student.
type CreateProgressRequest struct {
	StudentID         string  `json:"studentId" validate:"required,uuid"`
	BeltRank          string  `json:"beltRank" validate:"required,oneof=white blue purple brown black"`
	Stripes           *int    `json:"stripes" validate:"omitempty,min=0,max=4"`
	LastPromotionDate *string `json:"lastPromotionDate" validate:"omitempty,date"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateProgressRequest changes the provided progress fields only.
type UpdateProgressRequest struct {
	BeltRank          *string `json:"beltRank" validate:"omitempty,oneof=white blue purple brown black"`
	Stripes           *int    `json:"stripes" validate:"omitempty,min=0,max=4"`
	LastPromotionDate *string `json:"lastPromotionDate" validate:"omitempty,date"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
	Version           *int    `json:"version" validate:"omitempty,min=1"`
}

// CreateProgressNoteRequest adds an instructor note to a member.
type CreateProgressNoteRequest struct {
	MemberID    string  `json:"memberId" validate:"required,uuid"`
	Date        string  `json:"date" validate:"required,date"`
	NoteType    string  `json:"noteType" validate:"required,oneof=technique promotion general"`
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Content     string  `json:"content" validate:"required,min=5,max=5000"`
	TechniqueID *string `json:"techniqueId" validate:"omitempty,uuid"`
}

// UpdateProgressNoteRequest changes the provided note fields only.
type UpdateProgressNoteRequest struct {
	Date        *string `json:"date" validate:"omitempty,date"`
	NoteType    *string `json:"noteType" validate:"omitempty,oneof=technique promotion general"`
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Content     *string `json:"content" validate:"omitempty,min=5,max=5000"`
	TechniqueID *string `json:"techniqueId" validate:"omitempty,uuid"`
	Version     *int    `json:"version" validate:"omitempty,min=1"`
}
