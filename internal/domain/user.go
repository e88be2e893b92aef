// Package domain contains the core data types for the Travenion API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (sequence, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the repo/service layers; handlers expose only the public fields.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Nickname     string
	Avatar       string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
