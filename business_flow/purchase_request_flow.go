// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fieldops/prtrack/app/dto"
	"github.com/fieldops/prtrack/config"
	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/repository"
	"github.com/fieldops/prtrack/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// prListCacheKey is the cache key suffix for the unfiltered newest-first list.
const prListCacheKey = "pr:list"

// PurchaseRequestFlow handles purchase request lifecycle operations
type PurchaseRequestFlow interface {
	Create(ctx context.Context, request *dto.CreatePurchaseRequestRequest, metadata *ClientMetadata) (*dto.PurchaseRequestDTO, error)
	List(ctx context.Context, query *dto.ListPurchaseRequestsQuery) ([]dto.PurchaseRequestDTO, error)
	Get(ctx context.Context, id uint) (*dto.PurchaseRequestDTO, error)
	Update(ctx context.Context, id uint, request *dto.UpdatePurchaseRequestRequest, metadata *ClientMetadata) (*dto.PurchaseRequestDTO, error)
	Delete(ctx context.Context, id uint, metadata *ClientMetadata) error
	ExportExcel(ctx context.Context) (string, []byte, error)
	ExportCSV(ctx context.Context) (string, []byte, error)
}

// PurchaseRequestFlowImpl implements the purchase request business flow
type PurchaseRequestFlowImpl struct {
	prRepo      repository.PurchaseRequestRepository
	seqRepo     repository.SequenceCounterRepository
	db          *gorm.DB
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

// NewPurchaseRequestFlow creates a new purchase request flow instance
func NewPurchaseRequestFlow(
	prRepo repository.PurchaseRequestRepository,
	seqRepo repository.SequenceCounterRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) PurchaseRequestFlow {
	return &PurchaseRequestFlowImpl{
		prRepo:      prRepo,
		seqRepo:     seqRepo,
		db:          db,
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

// Create assigns a sequence number and code, then persists the record.
// Ordering matters: both code-table lookups happen before the counter is
// touched, so a rejected request never consumes a sequence value. If
// persistence fails after the counter was bumped, that value is lost for
// good; gaps are tolerable, duplicate codes are not.
func (f *PurchaseRequestFlowImpl) Create(ctx context.Context, request *dto.CreatePurchaseRequestRequest, metadata *ClientMetadata) (*dto.PurchaseRequestDTO, error) {
	if err := ValidatePRCodes(request.Location, request.Department); err != nil {
		return nil, NewBusinessError("UNKNOWN_CODE", "Unknown location or department", err)
	}

	if request.EstimatedAmount == nil || *request.EstimatedAmount < 0 {
		return nil, NewBusinessError("VALIDATION_ERROR", "Estimated amount must not be negative", ErrNegativeAmount)
	}

	dateRequested := utils.UTCNow()
	if request.DateRequested != nil && *request.DateRequested != "" {
		parsed, err := time.Parse(time.RFC3339, *request.DateRequested)
		if err != nil {
			return nil, NewBusinessError("VALIDATION_ERROR", "date_requested must be RFC3339", fmt.Errorf("%w: %v", ErrInvalidDate, err))
		}
		dateRequested = parsed.UTC()
	}

	seq, err := f.seqRepo.Next(ctx, models.SeriesPurchaseRequest)
	if err != nil {
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to obtain sequence number", err)
	}

	code, err := FormatPRCode(request.Location, request.Department, seq)
	if err != nil {
		// Unreachable after ValidatePRCodes; kept as a guard.
		return nil, NewBusinessError("UNKNOWN_CODE", "Unknown location or department", err)
	}

	pr := &models.PurchaseRequest{
		UUID:              uuid.New(),
		SequenceNumber:    seq,
		Code:              code,
		Location:          request.Location,
		Department:        request.Department,
		PropertyReference: request.PropertyReference,
		EstimatedAmount:   *request.EstimatedAmount,
		Requester:         request.Requester,
		Status:            models.PRStatusPending,
		DateRequested:     dateRequested,
	}

	if err := f.prRepo.Save(ctx, pr); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewBusinessError("DUPLICATE_CODE", "Purchase request code already exists", ErrDuplicateCode)
		}
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to persist purchase request", err)
	}

	f.invalidateListCache(ctx)

	result := ToPurchaseRequestDTO(*pr)
	return &result, nil
}

// List returns purchase requests newest first. The unfiltered listing is
// served from Redis when available; filtered queries always hit the database.
func (f *PurchaseRequestFlowImpl) List(ctx context.Context, query *dto.ListPurchaseRequestsQuery) ([]dto.PurchaseRequestDTO, error) {
	filter := models.PurchaseRequestFilter{}
	unfiltered := true
	if query != nil {
		if query.Location != "" {
			filter.Location = &query.Location
			unfiltered = false
		}
		if query.Department != "" {
			filter.Department = &query.Department
			unfiltered = false
		}
		if query.Status != "" {
			filter.Status = &query.Status
			unfiltered = false
		}
	}

	if unfiltered {
		if cached, ok := f.readListCache(ctx); ok {
			return cached, nil
		}
	}

	requests, err := f.prRepo.ListNewestFirst(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to list purchase requests", err)
	}

	result := make([]dto.PurchaseRequestDTO, 0, len(requests))
	for _, pr := range requests {
		result = append(result, ToPurchaseRequestDTO(*pr))
	}

	if unfiltered {
		f.writeListCache(ctx, result)
	}

	return result, nil
}

// Get retrieves a purchase request by ID
func (f *PurchaseRequestFlowImpl) Get(ctx context.Context, id uint) (*dto.PurchaseRequestDTO, error) {
	pr, err := f.prRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to load purchase request", err)
	}
	if pr == nil {
		return nil, NewBusinessError("NOT_FOUND", "Purchase request not found", ErrPurchaseRequestNotFound)
	}

	result := ToPurchaseRequestDTO(*pr)
	return &result, nil
}

// Update applies changes to mutable fields only. Code and sequence number
// stay as assigned at creation even when location or department change.
func (f *PurchaseRequestFlowImpl) Update(ctx context.Context, id uint, request *dto.UpdatePurchaseRequestRequest, metadata *ClientMetadata) (*dto.PurchaseRequestDTO, error) {
	if request.Location != nil {
		if _, ok := models.LocationCode(*request.Location); !ok {
			return nil, NewBusinessError("UNKNOWN_CODE", "Unknown location", fmt.Errorf("%w: %q", ErrUnknownLocation, *request.Location))
		}
	}
	if request.Department != nil {
		if _, ok := models.DepartmentCode(*request.Department); !ok {
			return nil, NewBusinessError("UNKNOWN_CODE", "Unknown department", fmt.Errorf("%w: %q", ErrUnknownDepartment, *request.Department))
		}
	}
	if request.Status != nil {
		switch *request.Status {
		case models.PRStatusPending, models.PRStatusApproved, models.PRStatusRejected:
		default:
			return nil, NewBusinessError("VALIDATION_ERROR", "Invalid status", ErrInvalidStatus)
		}
	}
	if request.EstimatedAmount != nil && *request.EstimatedAmount < 0 {
		return nil, NewBusinessError("VALIDATION_ERROR", "Estimated amount must not be negative", ErrNegativeAmount)
	}

	var updated *models.PurchaseRequest

	err := repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		pr, err := f.prRepo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return ErrPurchaseRequestNotFound
		}

		if request.Location != nil {
			pr.Location = *request.Location
		}
		if request.Department != nil {
			pr.Department = *request.Department
		}
		if request.PropertyReference != nil {
			pr.PropertyReference = *request.PropertyReference
		}
		if request.EstimatedAmount != nil {
			pr.EstimatedAmount = *request.EstimatedAmount
		}
		if request.Requester != nil {
			pr.Requester = *request.Requester
		}
		if request.Status != nil {
			pr.Status = *request.Status
		}
		if request.DateRequested != nil && *request.DateRequested != "" {
			parsed, err := time.Parse(time.RFC3339, *request.DateRequested)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidDate, err)
			}
			pr.DateRequested = parsed.UTC()
		}

		if err := f.prRepo.UpdateMutableFields(ctx, pr); err != nil {
			return err
		}

		// Reload so the returned DTO carries the stored timestamps.
		fresh, err := f.prRepo.ByID(ctx, id)
		if err != nil {
			return err
		}

		updated = fresh
		return nil
	})
	if err != nil {
		if IsPurchaseRequestNotFound(err) {
			return nil, NewBusinessError("NOT_FOUND", "Purchase request not found", err)
		}
		if IsInvalidDate(err) {
			return nil, NewBusinessError("VALIDATION_ERROR", "date_requested must be RFC3339", err)
		}
		return nil, NewBusinessError("UPDATE_FAILED", "Failed to update purchase request", err)
	}

	f.invalidateListCache(ctx)

	result := ToPurchaseRequestDTO(*updated)
	return &result, nil
}

// Delete removes a purchase request by ID
func (f *PurchaseRequestFlowImpl) Delete(ctx context.Context, id uint, metadata *ClientMetadata) error {
	deleted, err := f.prRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("STORAGE_UNAVAILABLE", "Failed to delete purchase request", err)
	}
	if !deleted {
		return NewBusinessError("NOT_FOUND", "Purchase request not found", ErrPurchaseRequestNotFound)
	}

	f.invalidateListCache(ctx)
	return nil
}

// Cache helpers. Failures are logged and ignored; the database stays
// authoritative.

func (f *PurchaseRequestFlowImpl) readListCache(ctx context.Context) ([]dto.PurchaseRequestDTO, bool) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return nil, false
	}

	raw, err := f.rc.Get(ctx, redisKey(*f.cacheConfig, prListCacheKey)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("purchase request list cache read failed: %v", err)
		}
		return nil, false
	}

	var cached []dto.PurchaseRequestDTO
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Printf("purchase request list cache decode failed: %v", err)
		return nil, false
	}

	return cached, true
}

func (f *PurchaseRequestFlowImpl) writeListCache(ctx context.Context, list []dto.PurchaseRequestDTO) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return
	}

	ttl := f.cacheConfig.DefaultTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	if err := f.rc.Set(ctx, redisKey(*f.cacheConfig, prListCacheKey), raw, ttl).Err(); err != nil {
		log.Printf("purchase request list cache write failed: %v", err)
	}
}

func (f *PurchaseRequestFlowImpl) invalidateListCache(ctx context.Context) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return
	}

	if err := f.rc.Del(ctx, redisKey(*f.cacheConfig, prListCacheKey)).Err(); err != nil {
		log.Printf("purchase request list cache invalidation failed: %v", err)
	}
}
