package storage

import (
	"context"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// Storage defines the interface for protection persistence.
// Callers must only use it from the main loop; implementations are still
// safe for concurrent use.
type Storage interface {
	// Protection operations
	SaveProtection(ctx context.Context, protection *model.Protection) error
	GetProtection(ctx context.Context, id model.ProtectionID) (*model.Protection, error)
	DeleteProtection(ctx context.Context, id model.ProtectionID) error

	// Sign operations. SaveSign replaces the sign at the same location
	// within the protection, or appends it if the protection has none there.
	SaveSign(ctx context.Context, id model.ProtectionID, sign model.SignEntry) error
	GetSign(ctx context.Context, id model.ProtectionID, loc model.Location) (model.SignEntry, error)
}
