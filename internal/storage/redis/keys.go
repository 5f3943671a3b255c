package redis

import (
	"fmt"

	"github.com/Kimen6931/BlockLocker/internal/model"
)

// Key prefix for all protection data
const keyPrefix = "blocklocker"

// protectionKey returns the Redis key for the HASH of location -> sign JSON
func protectionKey(id model.ProtectionID) string {
	return fmt.Sprintf("%s:protection:%s", keyPrefix, id)
}

// signOrderKey returns the Redis key for the LIST of sign locations in attachment order
func signOrderKey(id model.ProtectionID) string {
	return fmt.Sprintf("%s:idx:sign_order:%s", keyPrefix, id)
}

// signField returns the hash field for a sign at loc
func signField(loc model.Location) string {
	return loc.String()
}
