// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/utils"
	"gorm.io/gorm"
)

// PurchaseRequestRepositoryImpl implements PurchaseRequestRepository interface
type PurchaseRequestRepositoryImpl struct {
	*BaseRepository[models.PurchaseRequest, models.PurchaseRequestFilter]
}

// NewPurchaseRequestRepository creates a new purchase request repository
func NewPurchaseRequestRepository(db *gorm.DB) PurchaseRequestRepository {
	return &PurchaseRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PurchaseRequest, models.PurchaseRequestFilter](db),
	}
}

// ByFilter retrieves purchase requests based on filter criteria
func (r *PurchaseRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.PurchaseRequestFilter, orderBy string, limit, offset int) ([]*models.PurchaseRequest, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PurchaseRequest{}), filter)

	// Apply ordering (default to id DESC)
	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var requests []*models.PurchaseRequest
	err := query.Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase requests by filter: %w", err)
	}

	return requests, nil
}

// Count returns the number of purchase requests matching the filter
func (r *PurchaseRequestRepositoryImpl) Count(ctx context.Context, filter models.PurchaseRequestFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PurchaseRequest{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count purchase requests: %w", err)
	}

	return count, nil
}

// Exists checks if any purchase request matching the filter exists
func (r *PurchaseRequestRepositoryImpl) Exists(ctx context.Context, filter models.PurchaseRequestFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ByCode retrieves a purchase request by its generated code
func (r *PurchaseRequestRepositoryImpl) ByCode(ctx context.Context, code string) (*models.PurchaseRequest, error) {
	filter := models.PurchaseRequestFilter{Code: &code}
	requests, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase request by code: %w", err)
	}

	if len(requests) == 0 {
		return nil, nil
	}

	return requests[0], nil
}

// ListNewestFirst retrieves purchase requests ordered by request date, newest first
func (r *PurchaseRequestRepositoryImpl) ListNewestFirst(ctx context.Context, filter models.PurchaseRequestFilter) ([]*models.PurchaseRequest, error) {
	return r.ByFilter(ctx, filter, "date_requested DESC, id DESC", 0, 0)
}

// UpdateMutableFields persists changes to the mutable columns of a purchase
// request. Code and sequence_number are assigned once on create and are
// deliberately excluded from the column list.
func (r *PurchaseRequestRepositoryImpl) UpdateMutableFields(ctx context.Context, pr *models.PurchaseRequest) error {
	db := r.getDB(ctx)

	err := db.Model(&models.PurchaseRequest{}).
		Where("id = ?", pr.ID).
		Select("location", "department", "property_reference", "estimated_amount", "requester", "status", "date_requested", "updated_at").
		Updates(map[string]any{
			"location":           pr.Location,
			"department":         pr.Department,
			"property_reference": pr.PropertyReference,
			"estimated_amount":   pr.EstimatedAmount,
			"requester":          pr.Requester,
			"status":             pr.Status,
			"date_requested":     pr.DateRequested,
			"updated_at":         utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update purchase request %d: %w", pr.ID, err)
	}

	return nil
}

// Delete removes a purchase request by ID. Returns false when no row matched.
func (r *PurchaseRequestRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	result := db.Delete(&models.PurchaseRequest{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete purchase request %d: %w", id, result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *PurchaseRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.PurchaseRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}

	if filter.Location != nil {
		query = query.Where("location = ?", *filter.Location)
	}

	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Requester != nil {
		query = query.Where("requester = ?", *filter.Requester)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}
