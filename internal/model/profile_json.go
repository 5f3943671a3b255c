package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// profileJSON is the persisted form of a single profile. Exactly one of the
// name, group or everyone keys is set.
type profileJSON struct {
	Name     *string `json:"n,omitempty"`
	ID       string  `json:"u,omitempty"`
	Group    *string `json:"g,omitempty"`
	Everyone bool    `json:"e,omitempty"`
}

func profileToJSON(p Profile) profileJSON {
	switch v := p.(type) {
	case PlayerProfile:
		name := v.name
		out := profileJSON{Name: &name}
		if v.id.Valid {
			out.ID = v.id.UUID.String()
		}
		return out
	case GroupProfile:
		group := v.group
		return profileJSON{Group: &group}
	case EveryoneProfile:
		return profileJSON{Everyone: true}
	default:
		panic(fmt.Sprintf("model: unhandled profile type %T", p))
	}
}

func profileFromJSON(in profileJSON) (Profile, error) {
	switch {
	case in.Name != nil:
		if in.ID == "" {
			return NewNameOnlyProfile(*in.Name), nil
		}
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad unique id %q: %w", ErrInvalidProfile, in.ID, err)
		}
		return NewPlayerProfile(NameAndID{Name: *in.Name, ID: id}), nil
	case in.Group != nil:
		return NewGroupProfile(*in.Group), nil
	case in.Everyone:
		return EveryoneProfile{}, nil
	default:
		return nil, fmt.Errorf("%w: no recognised key", ErrInvalidProfile)
	}
}

// EncodeProfiles serialises profiles to the JSON array stored with a sign
func EncodeProfiles(profiles []Profile) ([]byte, error) {
	out := make([]profileJSON, len(profiles))
	for i, p := range profiles {
		out[i] = profileToJSON(p)
	}
	return json.Marshal(out)
}

// DecodeProfiles parses a JSON array produced by EncodeProfiles
func DecodeProfiles(data []byte) ([]Profile, error) {
	var raw []profileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	profiles := make([]Profile, 0, len(raw))
	for _, r := range raw {
		p, err := profileFromJSON(r)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

type signEntryJSON struct {
	Location Location        `json:"location"`
	Type     SignType        `json:"type"`
	Profiles json.RawMessage `json:"profiles"`
}

// MarshalJSON implements json.Marshaler
func (s SignEntry) MarshalJSON() ([]byte, error) {
	profiles, err := EncodeProfiles(s.profiles)
	if err != nil {
		return nil, err
	}
	return json.Marshal(signEntryJSON{Location: s.Location, Type: s.Type, Profiles: profiles})
}

// UnmarshalJSON implements json.Unmarshaler
func (s *SignEntry) UnmarshalJSON(data []byte) error {
	var raw signEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSignType, raw.Type)
	}
	var profiles []Profile
	if len(raw.Profiles) > 0 {
		var err error
		profiles, err = DecodeProfiles(raw.Profiles)
		if err != nil {
			return err
		}
	}
	*s = NewSignEntry(raw.Location, raw.Type, profiles)
	return nil
}
