package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// EventSignsResolved is published when resolved identities were written to a protection
	EventSignsResolved EventType = "signs-resolved"
	// EventBatchFailed is published when a whole name batch could not be looked up
	EventBatchFailed EventType = "batch-failed"
)

// Event is the base structure for all events
type Event struct {
	Type         EventType    `json:"type"`
	Timestamp    time.Time    `json:"timestamp"`
	ProtectionID ProtectionID `json:"protection_id,omitempty"` // Empty for batch events
	Payload      any          `json:"payload,omitempty"`
}

// SignsResolvedPayload contains data for signs resolved events
type SignsResolvedPayload struct {
	SignsSaved int      `json:"signs_saved"`
	Resolved   []string `json:"resolved"`
	NotFound   []string `json:"not_found"`
}

// BatchFailedPayload contains data for batch failed events
type BatchFailedPayload struct {
	Protections int    `json:"protections"`
	Names       int    `json:"names"`
	Reason      string `json:"reason"`
}
