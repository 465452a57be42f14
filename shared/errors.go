package shared

import "errors"

// Datafactory errors.
var (
	ErrORMModuleRequired  = errors.New(`datafactory: requires an ORM-capable plugin; enable one and register its service under "orm.service" before enabling datafactory`)
	ErrUnsupportedEngine  = errors.New("datafactory: registered engine implements neither the current nor the legacy fabrication API")
	ErrNotBooted          = errors.New("datafactory: engine not booted; run the before-suite hook first")
	ErrBlueprintNotFound  = errors.New("datafactory: no blueprint for entity type")
	ErrDuplicateBlueprint = errors.New("datafactory: entity type already has a blueprint")
	ErrNotPersistable     = errors.New("datafactory: blueprint cannot persist entities")
	ErrInvalidCount       = errors.New("datafactory: count must not be negative")
)
