package entities

import (
	"strings"
	"time"
)

// Admin is an entry of the admin directory.
type Admin struct {
	Email     string
	CreatedAt time.Time
}

// NormalizeEmail is the directory key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
