// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fieldops/prtrack/app/dto"
	"github.com/fieldops/prtrack/config"
	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/repository"
	"github.com/fieldops/prtrack/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationFlow handles the user registration business logic
type RegistrationFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error)
}

// RegistrationFlowImpl implements the registration business flow
type RegistrationFlowImpl struct {
	userRepo repository.UserRepository
	db       *gorm.DB
	security *config.SecurityConfig
}

// NewRegistrationFlow creates a new registration flow instance
func NewRegistrationFlow(userRepo repository.UserRepository, db *gorm.DB, security *config.SecurityConfig) RegistrationFlow {
	return &RegistrationFlowImpl{
		userRepo: userRepo,
		db:       db,
		security: security,
	}
}

// passwordMinLength returns the configured minimum, falling back to 6.
func (f *RegistrationFlowImpl) passwordMinLength() int {
	if f.security != nil && f.security.PasswordMinLength > 0 {
		return f.security.PasswordMinLength
	}
	return 6
}

// bcryptCost returns the configured hashing cost, falling back to the
// library default.
func (f *RegistrationFlowImpl) bcryptCost() int {
	if f.security != nil && f.security.BcryptCost > 0 {
		return f.security.BcryptCost
	}
	return bcrypt.DefaultCost
}

// Register creates a new user account. Accounts start inactive and must be
// activated out of band before they can log in.
func (f *RegistrationFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if minLength := f.passwordMinLength(); len(req.Password) < minLength {
		return nil, NewBusinessError("VALIDATION_ERROR", fmt.Sprintf("Password must be at least %d characters", minLength), ErrPasswordTooShort)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	var created *models.User

	err := repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		existing, err := f.userRepo.ByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), f.bcryptCost())
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			UUID:         uuid.New(),
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			IsActive:     utils.ToPtr(false),
		}

		if err := f.userRepo.Save(ctx, user); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		created = user
		return nil
	})
	if err != nil {
		if IsEmailAlreadyExists(err) {
			return nil, NewBusinessError("DUPLICATE_EMAIL", "Email address is already registered", err)
		}
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to register user", err)
	}

	return &dto.RegisterResponse{User: ToUserDTO(*created)}, nil
}
