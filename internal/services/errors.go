// Package services implements the conversation controller that ties the
// identifier extractor, record store, renderer, message registry, refresh
// gate and chat gateway together. This file centralizes service-level
// error values so they can be consistently returned and checked.
package services

import "errors"

var (
	// ErrStoreUnavailable wraps a failed or timed-out record store lookup.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrGatewayFailure wraps a send or edit rejected by the chat platform.
	ErrGatewayFailure = errors.New("chat gateway failure")
)
