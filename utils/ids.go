package utils

import (
	"github.com/google/uuid"
)

// NewID returns a random UUID string for users, notes and tags.
func NewID() string {
	return uuid.NewString()
}
