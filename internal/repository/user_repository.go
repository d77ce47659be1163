package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dojo-api/internal/models"
)

const userColumns = `id, username, password, display_name, email, phone, role, to_char(join_date, 'YYYY-MM-DD') AS join_date, stripe_customer_id, version, created_at, updated_at`

// UserRepository provides database access for members and accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername returns a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// List returns every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username ASC`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.JoinDate == "" {
		user.JoinDate = now.Format("2006-01-02")
	}
	user.Version = 1

	const query = `INSERT INTO users (id, username, password, display_name, email, phone, role, join_date, version, created_at, updated_at)
VALUES (:id, :username, :password, :display_name, :email, :phone, :role, :join_date, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update overwrites the mutable user fields. When expectedVersion is set the write only
// applies to that version; sql.ErrNoRows means the row is gone or was modified.
func (r *UserRepository) Update(ctx context.Context, user *models.User, expectedVersion *int) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET username = $2, password = $3, display_name = $4, email = $5, phone = $6, role = $7, join_date = $8, version = version + 1, updated_at = $9
WHERE id = $1 AND ($10::int IS NULL OR version = $10) RETURNING version`
	err := r.db.GetContext(ctx, &user.Version, query,
		user.ID, user.Username, user.PasswordHash, user.DisplayName, user.Email, user.Phone, user.Role, user.JoinDate, user.UpdatedAt, expectedVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetStripeCustomerID stores the payment gateway customer of a user.
func (r *UserRepository) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	const query = `UPDATE users SET stripe_customer_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, customerID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set stripe customer: %w", err)
	}
	return nil
}

// Delete removes a user. Rows referencing the user make Postgres reject the delete.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted user rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateAuditLog inserts a new audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, new_values, ip_address, user_agent, created_at)
VALUES (:id, :user_id, :action, :resource, :resource_id, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
