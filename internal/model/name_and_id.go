package model

import (
	"strings"

	"github.com/google/uuid"
)

// NameAndID pairs a player's canonical display name with their permanent
// identity, as returned by the player directory
type NameAndID struct {
	Name string
	ID   uuid.UUID
}

// Key returns the case-insensitive lookup key for the name
func (n NameAndID) Key() string {
	return strings.ToLower(n.Name)
}

// NotFound returns the sentinel used for names the directory has no record of.
// Its identity is the all-zero UUID.
func NotFound(tag string) NameAndID {
	return NameAndID{Name: tag, ID: uuid.Nil}
}
