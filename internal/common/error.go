// Package common defines shared sentinel errors used across the Amora client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// API lookup errors.
	ErrNotFound = errors.New("not found")

	// Auth lifecycle errors.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAccountInactive = errors.New("account inactive")
	ErrInvalidToken    = errors.New("invalid token")

	// ErrNoProfile signals that the authenticated user has not completed
	// onboarding yet. This is an expected state, not a failure to surface.
	ErrNoProfile = errors.New("profile not created yet")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")
)
