package dto

// CreateClassRequest captures a new class template.
type CreateClassRequest struct {
	Title        string  `json:"title" validate:"required,min=2,max=120"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	InstructorID string  `json:"instructorId" validate:"required,uuid"`
	Level        string  `json:"level" validate:"required,oneof=beginner intermediate advanced all-levels"`
	Type         string  `json:"type" validate:"required,oneof=gi no-gi open-mat"`
	MaxCapacity  *int    `json:"maxCapacity" validate:"omitempty,min=1,max=500"`
}

// UpdateClassRequest changes the provided class fields only.
type UpdateClassRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=120"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	InstructorID *string `json:"instructorId" validate:"omitempty,uuid"`
	Level        *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced all-levels"`
	Type         *string `json:"type" validate:"omitempty,oneof=gi no-gi open-mat"`
	MaxCapacity  *int    `json:"maxCapacity" validate:"omitempty,min=1,max=500"`
	Version      *int    `json:"version" validate:"omitempty,min=1"`
}
