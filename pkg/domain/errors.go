package domain

import "errors"

// ErrInvalidArgument is returned when a delegation request is missing required input.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrSessionCreate is returned when the host does not hand back a usable session id.
var ErrSessionCreate = errors.New("failed to create delegated session")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoHost is returned when a delegation is requested but no session host is wired.
var ErrNoHost = errors.New("no session host configured")

// ErrInvalidConfig is returned when a policy configuration fails validation.
var ErrInvalidConfig = errors.New("invalid policy config")
