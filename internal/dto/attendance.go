package dto

// CreateAttendanceRequest records a student's presence at a session.
type CreateAttendanceRequest struct {
	SessionID string  `json:"sessionId" validate:"required,uuid"`
	StudentID string  `json:"studentId" validate:"required,uuid"`
	Status    string  `json:"status" validate:"required,oneof=present absent late"`
	Notes     *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateAttendanceRequest changes the provided attendance fields only.
type UpdateAttendanceRequest struct {
	Status  *string `json:"status" validate:"omitempty,oneof=present absent late"`
	Notes   *string `json:"notes" validate:"omitempty,max=1000"`
	Version *int    `json:"version" validate:"omitempty,min=1"`
}
