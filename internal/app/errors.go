package service

import (
	"errors"

	"github.com/okian/talker/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotFound     = repository.ErrNotFound
	ErrStorage      = repository.ErrStorage
	ErrBackpressure = errors.New("write queue full")
	ErrNotStarted   = errors.New("service not running")
)
