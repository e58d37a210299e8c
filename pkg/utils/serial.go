package utils

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateSerialNumber generates a unique invoice serial number.
// ULIDs are lexicographically sortable by creation time and use crypto/rand
// entropy, so concurrent callers cannot collide.
func GenerateSerialNumber() string {
	return "INV-" + ulid.MustNew(ulid.Now(), rand.Reader).String()
}
