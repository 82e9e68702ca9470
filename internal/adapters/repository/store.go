// Package repository defines the talker store interface and its implementations.
package repository

import (
	"context"

	"github.com/okian/talker/internal/domain/model"
)

// Store reads and writes the whole talker collection at once.
type Store interface {
	// Load returns every talker in insertion order. The slice is owned by
	// the caller. Failures wrap ErrStorage.
	Load(ctx context.Context) ([]model.Talker, error)

	// Save replaces the whole collection. Failures wrap ErrStorage.
	Save(ctx context.Context, talkers []model.Talker) error
}

// Find returns the talker with id from talkers.
func Find(talkers []model.Talker, id int) (model.Talker, error) {
	for _, t := range talkers {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Talker{}, ErrNotFound
}
