// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/fieldops/prtrack/app/dto"
	"github.com/fieldops/prtrack/app/services"
	"github.com/fieldops/prtrack/repository"
	"github.com/fieldops/prtrack/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(userRepo repository.UserRepository, tokenService services.TokenService, db *gorm.DB) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user and issues JWT tokens. The active check comes
// before password verification: an inactive account reports ACCOUNT_INACTIVE
// whether or not the supplied password is correct.
func (f *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Failed to look up user", err)
	}
	if user == nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is not active", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := f.tokenService.GenerateTokens(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	// Login should not fail because the timestamp write did.
	if err := f.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("failed to record last login for user %d: %v", user.ID, err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds,
		User:         ToUserDTO(*user),
	}, nil
}
