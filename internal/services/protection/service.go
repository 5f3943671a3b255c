package protection

import (
	"context"
	"log/slog"

	"github.com/Kimen6931/BlockLocker/internal/model"
	"github.com/Kimen6931/BlockLocker/internal/storage"
)

// MainContext runs a task on the main loop and waits for its result
type MainContext interface {
	Do(ctx context.Context, task func(ctx context.Context) error) error
}

// Submitter accepts protections whose name-only profiles need resolving
type Submitter interface {
	Submit(ctx context.Context, p *model.Protection)
}

// Service owns protections. Every storage access goes through the main
// loop; protections that still carry name-only profiles are handed to the
// resolver whenever they are saved or read.
type Service struct {
	storage  storage.Storage
	main     MainContext
	resolver Submitter
	logger   *slog.Logger
}

// New creates a new protection Service
func New(store storage.Storage, main MainContext, resolver Submitter, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		main:     main,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "protection")),
	}
}

// Get loads a protection and re-submits it for resolution if it still has
// name-only profiles
func (s *Service) Get(ctx context.Context, id model.ProtectionID) (*model.Protection, error) {
	var protection *model.Protection
	err := s.main.Do(ctx, func(ctx context.Context) error {
		var err error
		protection, err = s.storage.GetProtection(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.submitIfMissing(ctx, protection)
	return protection, nil
}

// Save replaces the protection's signs and submits it for resolution
func (s *Service) Save(ctx context.Context, protection *model.Protection) error {
	if err := validate(protection); err != nil {
		return err
	}

	err := s.main.Do(ctx, func(ctx context.Context) error {
		return s.storage.SaveProtection(ctx, protection)
	})
	if err != nil {
		return err
	}

	s.logger.Info("protection saved",
		slog.String("protection_id", string(protection.ID)),
		slog.Int("signs", len(protection.Signs)),
	)
	s.submitIfMissing(ctx, protection)
	return nil
}

// Delete removes a protection. A resolution already queued for it finds no
// signs left to update.
func (s *Service) Delete(ctx context.Context, id model.ProtectionID) error {
	err := s.main.Do(ctx, func(ctx context.Context) error {
		if _, err := s.storage.GetProtection(ctx, id); err != nil {
			return err
		}
		return s.storage.DeleteProtection(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("protection deleted", slog.String("protection_id", string(id)))
	return nil
}

func (s *Service) submitIfMissing(ctx context.Context, protection *model.Protection) {
	if protection.HasMissingIDs() {
		s.resolver.Submit(ctx, protection)
	}
}

func validate(protection *model.Protection) error {
	if len(protection.Signs) == 0 {
		return model.ErrNoSigns
	}
	seen := make(map[model.Location]struct{}, len(protection.Signs))
	for _, sign := range protection.Signs {
		if !sign.Type.Valid() {
			return model.ErrInvalidSignType
		}
		if _, ok := seen[sign.Location]; ok {
			return model.ErrDuplicateSign
		}
		seen[sign.Location] = struct{}{}
	}
	return nil
}
