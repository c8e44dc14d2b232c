// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreatePurchaseRequestRequest represents the request payload for creating a purchase request
type CreatePurchaseRequestRequest struct {
	Location          string   `json:"location" validate:"required,known_location" example:"Raqqa"`
	Department        string   `json:"department" validate:"required,known_department" example:"Health"`
	PropertyReference string   `json:"property_reference" validate:"required,min=1,max=255" example:"UPRN-0042"`
	EstimatedAmount   *float64 `json:"estimated_amount" validate:"required,gte=0" example:"1500.50"`
	Requester         string   `json:"requester" validate:"required,min=1,max=255" example:"Jane Field"`
	DateRequested     *string  `json:"date_requested,omitempty" validate:"omitempty" example:"2026-08-30T10:00:00Z"`
}

// UpdatePurchaseRequestRequest represents the request payload for updating a purchase request.
// Code and sequence number are immutable and therefore not accepted here.
type UpdatePurchaseRequestRequest struct {
	Location          *string  `json:"location,omitempty" validate:"omitempty,known_location"`
	Department        *string  `json:"department,omitempty" validate:"omitempty,known_department"`
	PropertyReference *string  `json:"property_reference,omitempty" validate:"omitempty,min=1,max=255"`
	EstimatedAmount   *float64 `json:"estimated_amount,omitempty" validate:"omitempty,gte=0"`
	Requester         *string  `json:"requester,omitempty" validate:"omitempty,min=1,max=255"`
	Status            *string  `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	DateRequested     *string  `json:"date_requested,omitempty" validate:"omitempty"`
}

// PurchaseRequestDTO represents a purchase request in API responses
type PurchaseRequestDTO struct {
	ID                uint    `json:"id" example:"17"`
	UUID              string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	SequenceNumber    int64   `json:"sequence_number" example:"7"`
	Code              string  `json:"code" example:"RAQ-HEA-0007"`
	Location          string  `json:"location" example:"Raqqa"`
	Department        string  `json:"department" example:"Health"`
	PropertyReference string  `json:"property_reference" example:"UPRN-0042"`
	EstimatedAmount   float64 `json:"estimated_amount" example:"1500.50"`
	Requester         string  `json:"requester" example:"Jane Field"`
	Status            string  `json:"status" example:"pending"`
	DateRequested     string  `json:"date_requested" example:"2026-08-30T10:00:00Z"`
	CreatedAt         string  `json:"created_at" example:"2026-08-30T10:00:01Z"`
	UpdatedAt         string  `json:"updated_at" example:"2026-08-30T10:00:01Z"`
}

// ListPurchaseRequestsQuery represents optional list filters
type ListPurchaseRequestsQuery struct {
	Location   string `query:"location" validate:"omitempty,known_location"`
	Department string `query:"department" validate:"omitempty,known_department"`
	Status     string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}
