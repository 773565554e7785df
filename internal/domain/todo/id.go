package todo

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 string. It falls back to a random
// UUIDv4 if the v7 generator cannot read the clock sequence.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
