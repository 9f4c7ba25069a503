// Package storage persists gag records outside the in-memory store.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/cutaway/internal/models"
)

// ErrGagNotFound is returned when a title has no stored row.
var ErrGagNotFound = errors.New("gag not found")

// Storage defines gag record persistence operations.
type Storage interface {
	// ReplaceGags swaps the full contents for gags in one transaction.
	ReplaceGags(ctx context.Context, gags []models.Gag) error
	GetGag(ctx context.Context, title string) (models.Gag, error)
	// ListGags returns gags ordered by title. A limit of 0 returns everything after offset.
	ListGags(ctx context.Context, offset, limit int) ([]models.Gag, error)
	CountGags(ctx context.Context) (int64, error)

	Close() error
}
