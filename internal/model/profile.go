package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Profile is a reference to an entity permitted on a protection.
// The set of implementations is closed: PlayerProfile, GroupProfile and
// EveryoneProfile. Profiles are immutable values.
type Profile interface {
	// DisplayName is the text shown on the sign for this profile
	DisplayName() string

	sealedProfile()
}

// PlayerProfile references a single player, by name and optionally by
// unique identity
type PlayerProfile struct {
	name string
	id   uuid.NullUUID
}

// NewNameOnlyProfile creates a player profile that still lacks an identity
func NewNameOnlyProfile(name string) PlayerProfile {
	return PlayerProfile{name: name}
}

// NewPlayerProfile creates an identity-bearing player profile
func NewPlayerProfile(n NameAndID) PlayerProfile {
	return PlayerProfile{name: n.Name, id: uuid.NullUUID{UUID: n.ID, Valid: true}}
}

func (p PlayerProfile) DisplayName() string { return p.name }

// UniqueID returns the player identity, if known
func (p PlayerProfile) UniqueID() (uuid.UUID, bool) {
	return p.id.UUID, p.id.Valid
}

// HasID reports whether the profile carries an identity
func (p PlayerProfile) HasID() bool { return p.id.Valid }

func (p PlayerProfile) String() string {
	if p.id.Valid {
		return fmt.Sprintf("%s (%s)", p.name, p.id.UUID)
	}
	return p.name
}

func (PlayerProfile) sealedProfile() {}

// GroupProfile references every member of a named group
type GroupProfile struct {
	group string
}

// NewGroupProfile creates a group profile
func NewGroupProfile(group string) GroupProfile {
	return GroupProfile{group: group}
}

func (g GroupProfile) DisplayName() string { return "[" + g.group + "]" }

// Group returns the raw group name
func (g GroupProfile) Group() string { return g.group }

func (GroupProfile) sealedProfile() {}

// EveryoneProfile allows access to anyone
type EveryoneProfile struct{}

func (EveryoneProfile) DisplayName() string { return "[Everyone]" }

func (EveryoneProfile) sealedProfile() {}

// MissingName returns the lower-cased name of a player profile that has no
// identity yet. ok is false for every other profile.
func MissingName(p Profile) (name string, ok bool) {
	switch v := p.(type) {
	case PlayerProfile:
		if v.HasID() {
			return "", false
		}
		return strings.ToLower(v.name), true
	case GroupProfile, EveryoneProfile:
		return "", false
	default:
		panic(fmt.Sprintf("model: unhandled profile type %T", p))
	}
}
