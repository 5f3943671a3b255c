package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingName(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

	tests := []struct {
		name     string
		profile  Profile
		wantName string
		wantOK   bool
	}{
		{"name only is lower-cased", NewNameOnlyProfile("Notch"), "notch", true},
		{"player with id", NewPlayerProfile(NameAndID{Name: "Notch", ID: id}), "", false},
		{"not found sentinel carries an id", NewPlayerProfile(NotFound("[?]")), "", false},
		{"group", NewGroupProfile("builders"), "", false},
		{"everyone", EveryoneProfile{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := MissingName(tt.profile)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestUpgradingProfileLeavesOriginalUntouched(t *testing.T) {
	original := NewNameOnlyProfile("alice")
	upgraded := NewPlayerProfile(NameAndID{Name: "Alice", ID: uuid.New()})

	assert.False(t, original.HasID())
	assert.Equal(t, "alice", original.DisplayName())
	assert.True(t, upgraded.HasID())
	assert.Equal(t, "Alice", upgraded.DisplayName())
}

func TestSignEntryWithProfilesKeepsLocation(t *testing.T) {
	loc := Location{World: "world", X: 1, Y: 64, Z: -3}
	sign := NewSignEntry(loc, SignTypePrivate, []Profile{NewNameOnlyProfile("Alice")})

	updated := sign.WithProfiles([]Profile{EveryoneProfile{}})

	assert.Equal(t, loc, updated.Location)
	assert.Equal(t, SignTypePrivate, updated.Type)
	assert.Equal(t, []Profile{EveryoneProfile{}}, updated.Profiles())
	// The original value is not affected
	assert.Equal(t, []Profile{NewNameOnlyProfile("Alice")}, sign.Profiles())
}

func TestSignEntryProfilesReturnsCopy(t *testing.T) {
	sign := NewSignEntry(Location{}, SignTypePrivate, []Profile{NewNameOnlyProfile("Alice")})

	profiles := sign.Profiles()
	profiles[0] = EveryoneProfile{}

	assert.Equal(t, NewNameOnlyProfile("Alice"), sign.Profiles()[0])
}

func TestProtectionHasMissingIDs(t *testing.T) {
	loc := Location{World: "world"}
	resolved := NewSignEntry(loc, SignTypePrivate, []Profile{NewPlayerProfile(NameAndID{Name: "Bob", ID: uuid.New()})})
	pending := NewSignEntry(loc, SignTypeMoreUsers, []Profile{NewGroupProfile("staff"), NewNameOnlyProfile("Carol")})

	assert.False(t, NewProtection(loc, resolved).HasMissingIDs())
	assert.True(t, NewProtection(loc, resolved, pending).HasMissingIDs())
	assert.Equal(t, []string{"carol"}, pending.MissingNames())
}

func TestProtectionOwner(t *testing.T) {
	loc := Location{World: "world"}
	more := NewSignEntry(loc, SignTypeMoreUsers, []Profile{NewNameOnlyProfile("Bob")})
	private := NewSignEntry(loc, SignTypePrivate, []Profile{NewNameOnlyProfile("Alice"), NewNameOnlyProfile("Bob")})

	owner, ok := NewProtection(loc, more, private).Owner()
	require.True(t, ok)
	assert.Equal(t, "Alice", owner.DisplayName())

	_, ok = NewProtection(loc, more).Owner()
	assert.False(t, ok)
}

func TestSignEntryJSON(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	sign := NewSignEntry(Location{World: "nether", X: 10, Y: 70, Z: 20}, SignTypeMoreUsers, []Profile{
		NewNameOnlyProfile("alice"),
		NewPlayerProfile(NameAndID{Name: "Notch", ID: id}),
		NewGroupProfile("staff"),
		EveryoneProfile{},
	})

	data, err := json.Marshal(sign)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"location": {"world": "nether", "x": 10, "y": 70, "z": 20},
		"type": "more_users",
		"profiles": [
			{"n": "alice"},
			{"n": "Notch", "u": "069a79f4-44e9-4726-a5be-fca90e38aaf5"},
			{"g": "staff"},
			{"e": true}
		]
	}`, string(data))

	var decoded SignEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sign, decoded)
}

func TestDecodeProfilesRejectsUnknownObjects(t *testing.T) {
	_, err := DecodeProfiles([]byte(`[{"n": "alice"}, {"x": 1}]`))
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = DecodeProfiles([]byte(`[{"n": "alice", "u": "not-a-uuid"}]`))
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestSignEntryUnmarshalRejectsUnknownType(t *testing.T) {
	var sign SignEntry
	err := json.Unmarshal([]byte(`{"location": {"world": "w"}, "type": "lift", "profiles": []}`), &sign)
	assert.ErrorIs(t, err, ErrInvalidSignType)
}
