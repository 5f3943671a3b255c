package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kimen6931/BlockLocker/internal/dependencies/clock"
	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/observe"
	"github.com/Kimen6931/BlockLocker/internal/storage"
)

// DefaultNotFoundTag is shown on signs for names the directory does not know
const DefaultNotFoundTag = "[Player not found]"

// Publisher receives an event for every protection the updater changed
type Publisher interface {
	Publish(event model.Event)
}

// Updater rewrites name-only player profiles on signs with resolved
// identities. Apply must run on the main loop.
type Updater struct {
	storage     storage.Storage
	notFoundTag string
	clock       clock.Clock
	metrics     *observe.Metrics
	logger      *slog.Logger
	publisher   Publisher
}

// New creates an Updater. An empty notFoundTag falls back to DefaultNotFoundTag.
func New(store storage.Storage, notFoundTag string, clk clock.Clock, metrics *observe.Metrics, logger *slog.Logger) *Updater {
	if notFoundTag == "" {
		notFoundTag = DefaultNotFoundTag
	}
	return &Updater{
		storage:     store,
		notFoundTag: notFoundTag,
		clock:       clk,
		metrics:     metrics,
		logger:      logger.With(slog.String("component", "sign-updater")),
	}
}

// PublishTo sends a signs-resolved event to p whenever a protection changes
func (u *Updater) PublishTo(p Publisher) {
	u.publisher = p
}

// Apply upgrades every name-only profile on the given protections using
// resolved, keyed by lower-cased name. Names missing from resolved become the
// not-found sentinel. Only signs that change and still exist are saved, in
// protection order and then sign order.
func (u *Updater) Apply(ctx context.Context, protections []*model.Protection, resolved map[string]model.NameAndID) {
	saved := 0
	for _, protection := range protections {
		payload := model.SignsResolvedPayload{}
		for _, sign := range protection.Signs {
			updated, changed := u.replaceProfiles(sign, resolved)
			if !changed {
				continue
			}
			// The sign may have been removed while the lookup was in flight
			if _, err := u.storage.GetSign(ctx, protection.ID, sign.Location); err != nil {
				if !errors.Is(err, model.ErrSignNotFound) {
					u.logger.Error("failed to load sign",
						slog.String("protection_id", string(protection.ID)),
						slog.String("sign", sign.Location.String()),
						slog.String("error", err.Error()),
					)
				}
				continue
			}
			// updated comes from the submit-time snapshot; profile edits made
			// since then are overwritten (accepted lost update)
			if err := u.storage.SaveSign(ctx, protection.ID, updated); err != nil {
				u.logger.Error("failed to save sign",
					slog.String("protection_id", string(protection.ID)),
					slog.String("sign", sign.Location.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			saved++
			payload.SignsSaved++
			collectNames(&payload, sign, resolved)
		}
		if payload.SignsSaved > 0 && u.publisher != nil {
			u.publisher.Publish(model.Event{
				Type:         model.EventSignsResolved,
				Timestamp:    u.clock.Now(),
				ProtectionID: protection.ID,
				Payload:      payload,
			})
		}
	}

	if saved > 0 {
		u.metrics.SignsSaved.Add(ctx, int64(saved))
	}
	u.logger.Debug("signs updated",
		slog.Int("protections", len(protections)),
		slog.Int("signs_saved", saved),
	)
}

func (u *Updater) replaceProfiles(sign model.SignEntry, resolved map[string]model.NameAndID) (model.SignEntry, bool) {
	profiles := sign.Profiles()
	changed := false
	for i, profile := range profiles {
		replacement, ok := u.replaceProfile(profile, resolved)
		if ok {
			profiles[i] = replacement
			changed = true
		}
	}
	if !changed {
		return sign, false
	}
	return sign.WithProfiles(profiles), true
}

// collectNames records which names on sign were resolved and which were not
func collectNames(payload *model.SignsResolvedPayload, sign model.SignEntry, resolved map[string]model.NameAndID) {
	for _, name := range sign.MissingNames() {
		if n, ok := resolved[name]; ok {
			payload.Resolved = append(payload.Resolved, n.Name)
		} else {
			payload.NotFound = append(payload.NotFound, name)
		}
	}
}

// replaceProfile returns the resolved profile for a name-only player profile
func (u *Updater) replaceProfile(profile model.Profile, resolved map[string]model.NameAndID) (model.Profile, bool) {
	switch p := profile.(type) {
	case model.PlayerProfile:
		if p.HasID() {
			return nil, false
		}
		if n, ok := resolved[strings.ToLower(p.DisplayName())]; ok {
			return model.NewPlayerProfile(n), true
		}
		return model.NewPlayerProfile(model.NotFound(u.notFoundTag)), true
	case model.GroupProfile, model.EveryoneProfile:
		return nil, false
	default:
		panic(fmt.Sprintf("updater: unhandled profile type %T", profile))
	}
}
