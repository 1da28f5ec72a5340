package model

import "github.com/google/uuid"

// ValidID reports whether id can address a row. Every primary key is a UUID,
// so anything else cannot match and is treated as not found.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
