package config

import (
	"errors"
)

// Sentinel error kinds returned by Load.
var (
	// ErrInvalidConfig wraps a talker setting that fails its struct-tag rule,
	// such as an empty store_path or a write_queue_size below 1.
	ErrInvalidConfig = errors.New("invalid talker config")
	// ErrLoadConfig wraps failures reading .env, the TALKER_CONFIG file or
	// TALKER_ environment variables.
	ErrLoadConfig = errors.New("load talker config failed")
)
