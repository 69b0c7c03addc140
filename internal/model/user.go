package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the hosted store
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
