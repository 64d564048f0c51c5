package world

import "errors"

// Sentinel errors for the world core.
var (
	ErrMapNotFound     = errors.New("map not found")
	ErrOutOfRange      = errors.New("coordinates out of range")
	ErrDuplicateEntity = errors.New("entity already indexed on map")
	ErrNotIndexed      = errors.New("entity not indexed")
	ErrMapMismatch     = errors.New("entity belongs to another map")
	ErrCapacity        = errors.New("map capacity exceeded")
	ErrNotDynamic      = errors.New("not a dynamic cell flag")
	ErrQueueFull       = errors.New("work queue full")
)
