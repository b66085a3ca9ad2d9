package repository

import "errors"

// Sentinel kinds for snapshot cache errors.
var (
	ErrNotFound      = errors.New("snapshot not found")
	ErrNoFingerprint = errors.New("snapshot fingerprint is empty")
	ErrStoreClosed   = errors.New("snapshot store closed")
)
