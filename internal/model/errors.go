package model

import "errors"

// Common errors used across the application
var (
	// Protection errors
	ErrProtectionNotFound = errors.New("protection not found")
	ErrSignNotFound       = errors.New("sign not found")
	ErrInvalidSignType    = errors.New("invalid sign type")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrNoSigns            = errors.New("protection has no signs")
	ErrDuplicateSign      = errors.New("duplicate sign location")

	// Name resolution errors
	ErrLookupFailed = errors.New("name lookup failed")

	// Main loop errors
	ErrLoopStopped = errors.New("main loop stopped")
)
