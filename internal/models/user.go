package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// IsStaff reports whether the role passes the instructor gate.
func (r UserRole) IsStaff() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// User represents an academy member stored in the users table.
type User struct {
	ID               string    `db:"id" json:"id"`
	Username         string    `db:"username" json:"username"`
	PasswordHash     string    `db:"password" json:"-"`
	DisplayName      *string   `db:"display_name" json:"displayName,omitempty"`
	Email            *string   `db:"email" json:"email,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	Role             UserRole  `db:"role" json:"role"`
	JoinDate         string    `db:"join_date" json:"joinDate"`
	StripeCustomerID *string   `db:"stripe_customer_id" json:"-"`
	Version          int       `db:"version" json:"version"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
