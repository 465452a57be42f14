package shared

import "github.com/google/uuid"

// Event topic constants.
const (
	EventBooted     = "datafactory.booted"
	EventReset      = "datafactory.reset"
	EventFabricated = "datafactory.entity.fabricated"
)

// SuiteEventData is the payload for suite lifecycle events.
type SuiteEventData struct {
	Dialect     string   `json:"dialect"`
	EntityTypes []string `json:"entityTypes,omitempty"`
}

// FabricatedEventData is the payload for fabrication events.
type FabricatedEventData struct {
	EntityType string    `json:"entityType"`
	Count      int       `json:"count"`
	Persisted  bool      `json:"persisted"`
	ActorID    uuid.UUID `json:"actorId"`
}
