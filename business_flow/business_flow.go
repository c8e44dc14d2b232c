// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/fieldops/prtrack/app/dto"
	"github.com/fieldops/prtrack/config"
	"github.com/fieldops/prtrack/models"
)

// ClientMetadata holds client-related information for request tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// redisKey prefixes a cache key with the configured namespace.
func redisKey(cfg config.CacheConfig, suffix string) string {
	return cfg.RedisPrefix + suffix
}

// ToUserDTO converts a user model to UserDTO for authentication responses
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// ToPurchaseRequestDTO converts a purchase request model to its API shape
func ToPurchaseRequestDTO(pr models.PurchaseRequest) dto.PurchaseRequestDTO {
	return dto.PurchaseRequestDTO{
		ID:                pr.ID,
		UUID:              pr.UUID.String(),
		SequenceNumber:    pr.SequenceNumber,
		Code:              pr.Code,
		Location:          pr.Location,
		Department:        pr.Department,
		PropertyReference: pr.PropertyReference,
		EstimatedAmount:   pr.EstimatedAmount,
		Requester:         pr.Requester,
		Status:            pr.Status,
		DateRequested:     pr.DateRequested.Format(time.RFC3339),
		CreatedAt:         pr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         pr.UpdatedAt.Format(time.RFC3339),
	}
}
