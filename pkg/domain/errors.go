package domain

import "errors"

// ErrInvalidConfiguration is returned by Start when the run configuration is rejected.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrEmptyFrontier is returned when removal is attempted on an empty frontier.
// The state machine never does this; seeing it indicates a defect.
var ErrEmptyFrontier = errors.New("frontier is empty")

// ErrAlreadyTerminated is returned by Step after the run reached DONE.
var ErrAlreadyTerminated = errors.New("run already terminated")

// ErrNotStarted is returned when a run is stepped before Start.
var ErrNotStarted = errors.New("run not started")

// ErrRunNotFound is returned when a run ID cannot be found in a manager or store.
var ErrRunNotFound = errors.New("run not found")

// ErrRunExists is returned when a run is created under an ID that is already live.
var ErrRunExists = errors.New("run already exists")

// ErrGraphNotFound is returned when a graph name is unknown to a catalog.
var ErrGraphNotFound = errors.New("graph not found")
