package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User mirrors the 'users' table. PasswordHash never leaves the repository
// layer except for verification in the auth handler.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a generated uuid and returns the stored record.
// The password must already be hashed by the caller. Duplicate email or
// username surfaces as ErrEmailExists / ErrUsernameExists via the database's
// unique keys (MySQL error 1062), which is also what resolves concurrent
// registrations racing on the same email.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	u := User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		IsActive: true,
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?,?,?,?)",
		u.ID, username, email, passwordHash)
	if err != nil {
		if msg := strings.ToLower(err.Error()); strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return User{}, ErrUsernameExists
			}
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	// follow-up SELECT to populate defaults (is_active, created_at)
	return r.GetByID(ctx, u.ID)
}

// GetByEmail fetches a user by normalized email. ErrUserNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,is_active,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id. ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,is_active,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// Delete removes a user. Role assignments and refresh tokens go with it via
// the ON DELETE CASCADE constraints. Returns false when the id had no row.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
