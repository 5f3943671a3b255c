package request

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// Profile kinds
const (
	ProfilePlayer   = "player"
	ProfileGroup    = "group"
	ProfileEveryone = "everyone"
)

// Profile is one line of a sign
type Profile struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	ID    string `json:"id,omitempty"`
	Group string `json:"group,omitempty"`
}

// Sign is a sign attached to a protection
type Sign struct {
	Location model.Location `json:"location"`
	Type     string         `json:"type"`
	Profiles []Profile      `json:"profiles"`
}

// PutProtectionRequest is the request body for creating or replacing a protection
type PutProtectionRequest struct {
	Signs []Sign `json:"signs"`
}

// ToModel converts the request profile to a model profile
func (p Profile) ToModel() (model.Profile, error) {
	switch p.Kind {
	case ProfilePlayer:
		if p.Name == "" {
			return nil, fmt.Errorf("%w: player without name", model.ErrInvalidProfile)
		}
		if p.ID == "" {
			return model.NewNameOnlyProfile(p.Name), nil
		}
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %q: %w", model.ErrInvalidProfile, p.ID, err)
		}
		return model.NewPlayerProfile(model.NameAndID{Name: p.Name, ID: id}), nil
	case ProfileGroup:
		if p.Group == "" {
			return nil, fmt.Errorf("%w: group without name", model.ErrInvalidProfile)
		}
		return model.NewGroupProfile(p.Group), nil
	case ProfileEveryone:
		return model.EveryoneProfile{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", model.ErrInvalidProfile, p.Kind)
	}
}

// ToModel converts the request to a protection with the given ID
func (r PutProtectionRequest) ToModel(id model.ProtectionID) (*model.Protection, error) {
	protection := &model.Protection{ID: id, Signs: make([]model.SignEntry, 0, len(r.Signs))}
	for _, s := range r.Signs {
		signType := model.SignType(s.Type)
		if !signType.Valid() {
			return nil, model.ErrInvalidSignType
		}
		profiles := make([]model.Profile, 0, len(s.Profiles))
		for _, p := range s.Profiles {
			profile, err := p.ToModel()
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, profile)
		}
		protection.Signs = append(protection.Signs, model.NewSignEntry(s.Location, signType, profiles))
	}
	return protection, nil
}
