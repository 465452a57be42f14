package datafactory

import (
	"fmt"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Config holds the plugin options a suite author sets.
type Config struct {
	// Cleanup wipes persisted suite state after a suite. Only the legacy
	// engine dialect resets anything; current engines rely on the
	// test-transaction rollback plugin.
	Cleanup bool
	// Factories lists the blueprints available to suites, in precedence
	// order: when two blueprints claim the same entity type, the first
	// one listed wins.
	Factories []shared.Blueprint
}

// Validate rejects malformed blueprint lists before any suite runs.
func (c Config) Validate() error {
	for i, b := range c.Factories {
		if b == nil {
			return fmt.Errorf("factories[%d]: blueprint is nil", i)
		}
		if b.EntityType() == "" {
			return fmt.Errorf("factories[%d]: %T has an empty entity type", i, b)
		}
	}
	return nil
}
