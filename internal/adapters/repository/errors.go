package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStorage  = errors.New("talker storage failed")
	ErrNotFound = errors.New("talker not found")
)
