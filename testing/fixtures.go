// Package testing provides test utilities and database setup for testing the purchase request tracker
package testing

import (
	"fmt"
	"math/rand"

	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password behind every fixture user hash
const TestPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates a test user with a unique email
func (tf *TestFixtures) CreateTestUser(active bool) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		UUID:         uuid.New(),
		Name:         "Jane Field",
		Email:        fmt.Sprintf("jane.field.%s@example.com", randomDigits),
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		IsActive:     utils.ToPtr(active),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestPurchaseRequest creates a purchase request with a pre-assigned
// sequence number and code. It bypasses the sequence counter so tests can
// control the numbering directly.
func (tf *TestFixtures) CreateTestPurchaseRequest(location, department string, seq int64) (*models.PurchaseRequest, error) {
	loc, ok := models.LocationCode(location)
	if !ok {
		return nil, fmt.Errorf("unknown location %q", location)
	}
	dept, ok := models.DepartmentCode(department)
	if !ok {
		return nil, fmt.Errorf("unknown department %q", department)
	}

	pr := &models.PurchaseRequest{
		UUID:              uuid.New(),
		SequenceNumber:    seq,
		Code:              fmt.Sprintf("%s-%s-%04d", loc, dept, seq),
		Location:          location,
		Department:        department,
		PropertyReference: fmt.Sprintf("UPRN-%04d", rand.Intn(10000)),
		EstimatedAmount:   float64(rand.Intn(100000)) / 100,
		Requester:         "Jane Field",
		Status:            models.PRStatusPending,
		DateRequested:     utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(pr).Error; err != nil {
		return nil, fmt.Errorf("failed to create test purchase request: %w", err)
	}

	return pr, nil
}
