package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode failure modes. Callers on the HTTP path collapse both into a uniform
// 401, but the distinction stays available for diagnostics.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken is a signed HS256 JWT together with its expiry. Access tokens
// are short-lived and travel in the Authorization header.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// AccessClaims is the decoded claim set of a valid access token. Roles is the
// snapshot embedded at issuance time; authorization decisions must re-resolve
// roles from the store instead of trusting it.
type AccessClaims struct {
	UserID string
	Roles  []string
}

// RefreshToken is a long-lived opaque credential used to mint new access
// tokens. Raw is returned to the client exactly once; the database only ever
// sees its SHA-256 digest.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claim set is
// sub (user id), roles (names at issuance), iat and exp = now + ttlMin.
func NewAccessToken(secret, userID string, roles []string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"roles": roles,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// DecodeAccessToken parses and verifies an access token. The signing method
// is pinned to HMAC; tokens using any other algorithm fail with
// ErrTokenInvalid. Expired tokens fail with ErrTokenExpired regardless of
// signature validity.
func DecodeAccessToken(secret, raw string) (AccessClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, ErrTokenExpired
		}
		return AccessClaims{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return AccessClaims{}, ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	var roles []string
	if vs, ok := claims["roles"].([]interface{}); ok {
		for _, v := range vs {
			if s, ok := v.(string); ok {
				roles = append(roles, s)
			}
		}
	}
	return AccessClaims{UserID: sub, Roles: roles}, nil
}

// NewRefreshToken returns a cryptographically random opaque token and its
// expiration. 32 bytes of entropy (256 bits) encoded as 64 hex characters.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 digest of a raw refresh token as a hex
// string. Storing only the digest keeps stolen database rows from being
// replayed as sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
