package utils

import "golang.org/x/crypto/bcrypt"

// The hashing scheme is pinned to bcrypt. The "$2a$"/"$2b$" prefix baked into
// every hash doubles as the format version tag, so a future scheme change can
// dispatch on prefix without a side channel.

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password. It
// returns false for mismatches and for malformed hash strings alike.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
