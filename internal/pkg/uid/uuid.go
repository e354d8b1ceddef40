package uid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings, used for correlation IDs
// and export object keys.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string, falling back to v4 if the v7
// clock source fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
