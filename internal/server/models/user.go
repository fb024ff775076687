// Package models holds the records persisted by the server.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt digest and must never
// leave the server; the HTTP layer renders users through its own DTO.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	FirstName    *string
	LastName     *string
	JobTitle     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
