// Package queue defines message payloads exchanged over the message broker.
package queue

// CatalogChangedEvent is published after a catalog mutation commits.
// It carries enough information for downstream consumers to log or
// trigger analytics without querying the primary database.
type CatalogChangedEvent struct {
	Entity     string `json:"entity"`
	EntityID   uint64 `json:"entity_id"`
	Action     string `json:"action"`
	Version    uint32 `json:"version,omitempty"`
	ActorID    uint64 `json:"actor_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// Actions recorded in CatalogChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
