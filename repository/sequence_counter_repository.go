// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository
type SequenceCounterRepositoryImpl struct {
	db *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{db: db}
}

// Next atomically increments the counter for the given series and returns the
// new value. The first call for a series returns 1. The whole read-modify-write
// runs as one statement, so N concurrent callers starting at value v receive
// exactly {v+1 .. v+N} with no duplicates.
//
// Next deliberately ignores any transaction in ctx: consumed values are never
// rolled back, and routing increments through a caller's transaction would
// serialize concurrent creates on the counter row lock. A value consumed for a
// create that later fails is permanently lost (gaps are tolerable, duplicate
// codes are not).
func (r *SequenceCounterRepositoryImpl) Next(ctx context.Context, series string) (int64, error) {
	if series == "" {
		return 0, fmt.Errorf("series name must not be empty")
	}

	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (name, last_value, created_at, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP AT TIME ZONE 'UTC', CURRENT_TIMESTAMP AT TIME ZONE 'UTC')
		ON CONFLICT (name) DO UPDATE
		SET last_value = sequence_counters.last_value + 1,
		    updated_at = CURRENT_TIMESTAMP AT TIME ZONE 'UTC'
		RETURNING last_value`, series).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence counter %q: %w", series, err)
	}

	return value, nil
}
