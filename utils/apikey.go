package utils

import (
	"github.com/google/uuid"
)

// NewAPIKey mints an opaque per-user API key for non-browser clients.
func NewAPIKey() string {
	return uuid.NewString()
}
