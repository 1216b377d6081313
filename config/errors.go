package config

import "errors"

// Plan loading errors.
var (
	// ErrInvalidPlan is returned when a plan fails validation.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrNoPlans is returned when no plan file matches the requested patterns.
	ErrNoPlans = errors.New("no plan files found")
)
