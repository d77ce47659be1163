package dto

// CreateTechniqueRequest catalogues a technique.
type CreateTechniqueRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Category    string  `json:"category" validate:"required,max=60"`
	BeltLevel   *string `json:"beltLevel" validate:"omitempty,oneof=white blue purple brown black"`
}

// UpdateTechniqueRequest changes the provided technique fields only.
type UpdateTechniqueRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=60"`
	BeltLevel   *string `json:"beltLevel" validate:"omitempty,oneof=white blue purple brown black"`
	Version     *int    `json:"version" validate:"omitempty,min=1"`
}
