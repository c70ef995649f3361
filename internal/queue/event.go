// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when registration succeeds. It carries
// enough for downstream consumers (audit trail, welcome mail, analytics)
// without touching the primary database. No credential material is included.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}
