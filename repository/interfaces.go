// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/fieldops/prtrack/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// PurchaseRequestRepository defines operations for purchase requests
type PurchaseRequestRepository interface {
	Repository[models.PurchaseRequest, models.PurchaseRequestFilter]
	ByCode(ctx context.Context, code string) (*models.PurchaseRequest, error)
	ListNewestFirst(ctx context.Context, filter models.PurchaseRequestFilter) ([]*models.PurchaseRequest, error)
	UpdateMutableFields(ctx context.Context, pr *models.PurchaseRequest) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// SequenceCounterRepository issues values from named monotonic counters.
// There is deliberately no way to read a counter without incrementing it.
type SequenceCounterRepository interface {
	Next(ctx context.Context, series string) (int64, error)
}
