package repository

import "github.com/google/uuid"

// newID returns a UUIDv7. Ids made by one process increase monotonically,
// so "created_at, id" ordering keeps insertion order when timestamps tie.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
