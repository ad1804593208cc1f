package domain

import "errors"

var (
	// Common domain errors
	ErrAuth     = errors.New("commerce credential exchange failed")
	ErrUpstream = errors.New("commerce backend request failed")
	ErrNotFound = errors.New("entity not found")
	ErrStore    = errors.New("session store unavailable")
	ErrProtocol = errors.New("malformed callback payload")
	ErrLocked   = errors.New("session is busy")
)
