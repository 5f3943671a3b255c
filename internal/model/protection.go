package model

import (
	"fmt"
	"slices"
)

// ProtectionID identifies a protected block. It is derived from the block's
// location and never changes, so it is safe to use as a dedupe key.
type ProtectionID string

// Location is a block position in a world
type Location struct {
	World string `json:"world"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d,%d,%d", l.World, l.X, l.Y, l.Z)
}

// ProtectionIDFor returns the protection ID for a protected block location
func ProtectionIDFor(l Location) ProtectionID {
	return ProtectionID(l.String())
}

// SignType is the header line of a protection sign
type SignType string

const (
	SignTypePrivate   SignType = "private"
	SignTypeMoreUsers SignType = "more_users"
)

// Valid reports whether t is a known sign type
func (t SignType) Valid() bool {
	return t == SignTypePrivate || t == SignTypeMoreUsers
}

// SignEntry is one sign attached to a protection. It is an immutable value:
// use WithProfiles to get an updated copy.
type SignEntry struct {
	Location Location
	Type     SignType
	profiles []Profile
}

// NewSignEntry creates a sign entry. The profile slice is copied.
func NewSignEntry(loc Location, signType SignType, profiles []Profile) SignEntry {
	return SignEntry{Location: loc, Type: signType, profiles: slices.Clone(profiles)}
}

// Profiles returns a copy of the sign's profiles in sign order
func (s SignEntry) Profiles() []Profile {
	return slices.Clone(s.profiles)
}

// WithProfiles returns a copy of the sign with the same location and type but
// a replaced profile list
func (s SignEntry) WithProfiles(profiles []Profile) SignEntry {
	return NewSignEntry(s.Location, s.Type, profiles)
}

// MissingNames returns the lower-cased names of player profiles on the sign
// that have no identity, in sign order
func (s SignEntry) MissingNames() []string {
	var names []string
	for _, p := range s.profiles {
		if name, ok := MissingName(p); ok {
			names = append(names, name)
		}
	}
	return names
}

// Protection is a protected block together with its signs, in the order the
// signs were attached
type Protection struct {
	ID    ProtectionID
	Signs []SignEntry
}

// NewProtection creates a protection for the block at loc
func NewProtection(loc Location, signs ...SignEntry) *Protection {
	return &Protection{ID: ProtectionIDFor(loc), Signs: slices.Clone(signs)}
}

// HasMissingIDs reports whether any sign still has a name-only player profile
func (p *Protection) HasMissingIDs() bool {
	for _, sign := range p.Signs {
		if len(sign.MissingNames()) > 0 {
			return true
		}
	}
	return false
}

// Owner returns the first profile on the first private sign, if any
func (p *Protection) Owner() (Profile, bool) {
	for _, sign := range p.Signs {
		if sign.Type == SignTypePrivate && len(sign.profiles) > 0 {
			return sign.profiles[0], true
		}
	}
	return nil, false
}
