package response

import (
	"time"

	"github.com/Kimen6931/BlockLocker/internal/api/request"
	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/services/resolver"
)

// Profile represents one sign line in API responses
type Profile struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	ID          string `json:"id,omitempty"`
	Resolved    bool   `json:"resolved"`
}

// ProfileFromModel converts a model.Profile
func ProfileFromModel(p model.Profile) Profile {
	switch p := p.(type) {
	case model.PlayerProfile:
		resp := Profile{Kind: request.ProfilePlayer, DisplayName: p.DisplayName()}
		if id, ok := p.UniqueID(); ok {
			resp.ID = id.String()
			resp.Resolved = true
		}
		return resp
	case model.GroupProfile:
		return Profile{Kind: request.ProfileGroup, DisplayName: p.DisplayName(), Resolved: true}
	case model.EveryoneProfile:
		return Profile{Kind: request.ProfileEveryone, DisplayName: p.DisplayName(), Resolved: true}
	default:
		panic("response: unhandled profile type")
	}
}

// Sign represents a protection sign
type Sign struct {
	Location model.Location `json:"location"`
	Type     string         `json:"type"`
	Profiles []Profile      `json:"profiles"`
}

// Protection represents a protection in API responses
type Protection struct {
	ID            string  `json:"id"`
	Owner         *string `json:"owner"`
	PendingLookup bool    `json:"pending_lookup"`
	Signs         []Sign  `json:"signs"`
}

// ProtectionFromModel converts a model.Protection
func ProtectionFromModel(p *model.Protection) Protection {
	signs := make([]Sign, len(p.Signs))
	for i, s := range p.Signs {
		profiles := s.Profiles()
		signs[i] = Sign{
			Location: s.Location,
			Type:     string(s.Type),
			Profiles: make([]Profile, len(profiles)),
		}
		for j, profile := range profiles {
			signs[i].Profiles[j] = ProfileFromModel(profile)
		}
	}

	var owner *string
	if o, ok := p.Owner(); ok {
		name := o.DisplayName()
		owner = &name
	}

	return Protection{
		ID:            string(p.ID),
		Owner:         owner,
		PendingLookup: p.HasMissingIDs(),
		Signs:         signs,
	}
}

// ResolverStats represents resolver statistics
type ResolverStats struct {
	Queued        int        `json:"queued"`
	Batches       int64      `json:"batches"`
	FailedBatches int64      `json:"failed_batches"`
	LastDrain     *time.Time `json:"last_drain"`
}

// ResolverStatsFromModel converts resolver.Stats
func ResolverStatsFromModel(s resolver.Stats) ResolverStats {
	var lastDrain *time.Time
	if !s.LastDrain.IsZero() {
		t := s.LastDrain
		lastDrain = &t
	}
	return ResolverStats{
		Queued:        s.Queued,
		Batches:       s.Batches,
		FailedBatches: s.FailedBatches,
		LastDrain:     lastDrain,
	}
}

// FlushResponse is the response after a manual resolver drain
type FlushResponse struct {
	Protections int `json:"protections"`
	Names       int `json:"names"`
	Resolved    int `json:"resolved"`
}

// FlushResponseFromModel converts resolver.BatchResult
func FlushResponseFromModel(r resolver.BatchResult) FlushResponse {
	return FlushResponse{
		Protections: r.Protections,
		Names:       r.Names,
		Resolved:    r.Resolved,
	}
}

// Health is the health check response
type Health struct {
	Status      string `json:"status"`
	MainPending int    `json:"main_pending"`
}
