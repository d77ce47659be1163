package dto

// CreateMemberRequest adds a member to the roster. Password falls back to the
// configured default when omitted.
type CreateMemberRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=64"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=128"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=120"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Role        string  `json:"role" validate:"required,oneof=student instructor admin"`
	JoinDate    *string `json:"joinDate" validate:"omitempty,date"`
}

// UpdateMemberRequest changes the provided member fields only.
type UpdateMemberRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=64"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=128"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=120"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Role        *string `json:"role" validate:"omitempty,oneof=student instructor admin"`
	JoinDate    *string `json:"joinDate" validate:"omitempty,date"`
	Version     *int    `json:"version" validate:"omitempty,min=1"`
}
