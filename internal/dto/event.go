package dto

// CreateEventRequest publishes an academy event.
type CreateEventRequest struct {
	Title                string  `json:"title" validate:"required,min=3,max=200"`
	Description          string  `json:"description" validate:"required,min=10,max=5000"`
	EventType            string  `json:"eventType" validate:"required,max=60"`
	Date                 string  `json:"date" validate:"required,date"`
	StartTime            string  `json:"startTime" validate:"required,clock"`
	EndTime              string  `json:"endTime" validate:"required,clock"`
	Location             string  `json:"location" validate:"required,min=3,max=200"`
	MaxAttendees         *int    `json:"maxAttendees" validate:"omitempty,min=1"`
	RegistrationRequired bool    `json:"registrationRequired"`
	InstructorID         *string `json:"instructorId" validate:"omitempty,uuid"`
	ExternalLink         *string `json:"externalLink" validate:"omitempty,url"`
	Cost                 *string `json:"cost" validate:"omitempty,max=60"`
}

// UpdateEventRequest changes the provided event fields only.
type UpdateEventRequest struct {
	Title                *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description          *string `json:"description" validate:"omitempty,min=10,max=5000"`
	EventType            *string `json:"eventType" validate:"omitempty,min=1,max=60"`
	Date                 *string `json:"date" validate:"omitempty,date"`
	StartTime            *string `json:"startTime" validate:"omitempty,clock"`
	EndTime              *string `json:"endTime" validate:"omitempty,clock"`
	Location             *string `json:"location" validate:"omitempty,min=3,max=200"`
	MaxAttendees         *int    `json:"maxAttendees" validate:"omitempty,min=1"`
	RegistrationRequired *bool   `json:"registrationRequired"`
	InstructorID         *string `json:"instructorId" validate:"omitempty,uuid"`
	ExternalLink         *string `json:"externalLink" validate:"omitempty,url"`
	Cost                 *string `json:"cost" validate:"omitempty,max=60"`
	Version              *int    `json:"version" validate:"omitempty,min=1"`
}
