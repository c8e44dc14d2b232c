// Package services provides technical concerns like token generation and validation
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name            string
		accessTokenTTL  time.Duration
		refreshTokenTTL time.Duration
		issuer          string
		audience        string
		useRSAKeys      bool
		privateKeyPEM   string
		publicKeyPEM    string
		secretKey       string
		expectError     bool
	}{
		{
			name:            "valid symmetric key configuration",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      false,
			secretKey:       "test-secret-key-for-jwt-signing-32-chars",
			expectError:     false,
		},
		{
			name:            "missing secret key",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      false,
			secretKey:       "",
			expectError:     true,
		},
		{
			name:            "missing RSA keys",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      true,
			expectError:     true,
		},
		{
			name:            "empty issuer and audience",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "",
			audience:        "",
			useRSAKeys:      false,
			secretKey:       "test-secret-key-for-jwt-signing-32-chars",
			expectError:     false, // Should not error, just use empty strings
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				tt.accessTokenTTL,
				tt.refreshTokenTTL,
				tt.issuer,
				tt.audience,
				tt.useRSAKeys,
				tt.privateKeyPEM,
				tt.publicKeyPEM,
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID uint
		email  string
		role   string
	}{
		{
			name:   "regular user",
			userID: 123,
			email:  "jane@example.com",
			role:   "user",
		},
		{
			name:   "manager",
			userID: 456,
			email:  "manny@example.com",
			role:   "manager",
		},
		{
			name:   "zero user ID",
			userID: 0,
			email:  "zero@example.com",
			role:   "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessToken, refreshToken, err := service.GenerateTokens(tt.userID, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, accessToken)
			assert.NotEmpty(t, refreshToken)
			assert.NotEqual(t, accessToken, refreshToken)

			claims, err := service.ValidateToken(accessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, "access", claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)
		})
	}
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123, "jane@example.com", "user")
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("valid refresh token", func(t *testing.T) {
		claims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := service.ValidateToken("")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("token signed with different key", func(t *testing.T) {
		otherService, err := NewTokenService(
			15*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience",
			false, "", "", "another-secret-key-for-jwt-signing-32",
		)
		require.NoError(t, err)

		foreignToken, _, err := otherService.GenerateTokens(123, "jane@example.com", "user")
		require.NoError(t, err)

		_, err = service.ValidateToken(foreignToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123, "jane@example.com", "user")
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123, "jane@example.com", "user")
	require.NoError(t, err)

	t.Run("revoked token fails validation", func(t *testing.T) {
		assert.False(t, service.IsTokenRevoked(accessToken))

		err := service.RevokeToken(accessToken)
		require.NoError(t, err)

		assert.True(t, service.IsTokenRevoked(accessToken))

		_, err = service.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("other tokens unaffected", func(t *testing.T) {
		assert.False(t, service.IsTokenRevoked(refreshToken))

		claims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("revoking malformed token fails", func(t *testing.T) {
		err := service.RevokeToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("unparseable token treated as revoked", func(t *testing.T) {
		assert.True(t, service.IsTokenRevoked("not-a-jwt"))
	})
}

func TestTokenExpiration(t *testing.T) {
	service, err := NewTokenService(
		1*time.Millisecond, // accessTokenTTL
		1*time.Millisecond, // refreshTokenTTL
		"test-issuer",
		"test-audience",
		false, "", "",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123, "jane@example.com", "user")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	t.Run("expired access token", func(t *testing.T) {
		_, err := service.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		_, _, err := service.RefreshToken(refreshToken)
		assert.Error(t, err)
	})
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	const workers = 20

	tokens := make(chan string, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			accessToken, _, err := service.GenerateTokens(id, "jane@example.com", "user")
			assert.NoError(t, err)
			tokens <- accessToken
		}(uint(i + 1))
	}
	wg.Wait()
	close(tokens)

	// Every token carries a unique ID even under concurrent generation.
	seen := make(map[string]bool)
	for token := range tokens {
		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.False(t, seen[claims.TokenID])
		seen[claims.TokenID] = true
	}
	assert.Len(t, seen, workers)
}
