// Package models contains domain entities and business models for the purchase request tracker
package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase request status values
const (
	PRStatusPending  = "pending"
	PRStatusApproved = "approved"
	PRStatusRejected = "rejected"
)

// SeriesPurchaseRequest is the counter series consumed by the PR create path.
const SeriesPurchaseRequest = "PurchaseRequest"

type PurchaseRequest struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_purchase_requests_uuid" json:"uuid"`

	// SequenceNumber and Code are assigned once on create and never updated.
	SequenceNumber int64  `gorm:"not null" json:"sequence_number"`
	Code           string `gorm:"size:32;not null;uniqueIndex:uk_purchase_requests_code" json:"code"`

	Location          string  `gorm:"size:64;not null;index:idx_purchase_requests_location" json:"location"`
	Department        string  `gorm:"size:64;not null;index:idx_purchase_requests_department" json:"department"`
	PropertyReference string  `gorm:"size:255;not null" json:"property_reference"`
	EstimatedAmount   float64 `gorm:"not null" json:"estimated_amount"`
	Requester         string  `gorm:"size:255;not null" json:"requester"`

	Status        string    `gorm:"size:16;not null;default:pending;index:idx_purchase_requests_status" json:"status"`
	DateRequested time.Time `gorm:"not null;index:idx_purchase_requests_date_requested" json:"date_requested"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// PurchaseRequestFilter represents filter criteria for purchase request queries
type PurchaseRequestFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Code          *string
	Location      *string
	Department    *string
	Status        *string
	Requester     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
