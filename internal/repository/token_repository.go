package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TokenRepo persists and validates refresh tokens. Only SHA-256 digests are
// stored ('token_hash' column); the raw value exists solely on the wire.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token digest row. Every login inserts a new
// row without touching earlier ones, so concurrent sessions stay valid.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES (?,?,?,?)",
		uuid.NewString(), userID, tokenHash, exp)
	return err
}

// FindActive returns the owning user id when a non-revoked, non-expired token
// matches the digest. ErrTokenNotFound otherwise. Expiry is a wall-clock
// comparison at lookup time; expired rows are never swept, they just stop
// matching.
func (r *TokenRepo) FindActive(ctx context.Context, tokenHash string) (string, error) {
	var (
		userID    string
		expiresAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash=? AND revoked=0 LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().UTC().After(expiresAt) {
		return "", ErrTokenNotFound
	}
	return userID, nil
}

// RevokeByHash marks the matching token as revoked. Returns false when no
// live row matched, i.e. the token is unknown or already revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0", tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
