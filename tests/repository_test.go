package tests

import (
	"context"
	"testing"

	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/repository"
	testingutil "github.com/fieldops/prtrack/testing"
	"github.com/fieldops/prtrack/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRequestRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		prRepo := repository.NewPurchaseRequestRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		seeded, err := fixtures.CreateTestPurchaseRequest("Raqqa", "Health", 42)
		require.NoError(t, err)

		t.Run("ByCode", func(t *testing.T) {
			pr, err := prRepo.ByCode(ctx, "RAQ-HEA-0042")
			require.NoError(t, err)
			require.NotNil(t, pr)
			assert.Equal(t, seeded.ID, pr.ID)
			assert.Equal(t, int64(42), pr.SequenceNumber)
		})

		t.Run("ByCodeAbsent", func(t *testing.T) {
			pr, err := prRepo.ByCode(ctx, "RAQ-HEA-9999")
			require.NoError(t, err)
			assert.Nil(t, pr)
		})

		t.Run("ByIDAbsentReturnsNil", func(t *testing.T) {
			pr, err := prRepo.ByID(ctx, seeded.ID+1000)
			require.NoError(t, err)
			assert.Nil(t, pr)
		})

		t.Run("UpdateMutableFieldsPreservesCode", func(t *testing.T) {
			pr, err := prRepo.ByID(ctx, seeded.ID)
			require.NoError(t, err)
			require.NotNil(t, pr)

			pr.Location = "Hassaka"
			pr.Status = models.PRStatusApproved
			require.NoError(t, prRepo.UpdateMutableFields(ctx, pr))

			reloaded, err := prRepo.ByID(ctx, seeded.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, "Hassaka", reloaded.Location)
			assert.Equal(t, models.PRStatusApproved, reloaded.Status)
			assert.Equal(t, seeded.Code, reloaded.Code)
			assert.Equal(t, seeded.SequenceNumber, reloaded.SequenceNumber)
		})

		t.Run("CountAndExists", func(t *testing.T) {
			count, err := prRepo.Count(ctx, models.PurchaseRequestFilter{
				Status: utils.ToPtr(models.PRStatusApproved),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			exists, err := prRepo.Exists(ctx, models.PurchaseRequestFilter{
				Status: utils.ToPtr(models.PRStatusRejected),
			})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("Delete", func(t *testing.T) {
			deleted, err := prRepo.Delete(ctx, seeded.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = prRepo.Delete(ctx, seeded.ID)
			require.NoError(t, err)
			assert.False(t, deleted)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollback(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		prRepo := repository.NewPurchaseRequestRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ErrorRollsBackWrites", func(t *testing.T) {
			seeded, err := fixtures.CreateTestPurchaseRequest("Hassaka", "WASH", 7)
			require.NoError(t, err)

			txErr := repository.WithTransaction(ctx, testDB.DB, func(ctx context.Context) error {
				pr, err := prRepo.ByID(ctx, seeded.ID)
				if err != nil {
					return err
				}
				pr.Status = models.PRStatusRejected
				if err := prRepo.UpdateMutableFields(ctx, pr); err != nil {
					return err
				}
				return assert.AnError
			})
			require.Error(t, txErr)

			reloaded, err := prRepo.ByID(ctx, seeded.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, models.PRStatusPending, reloaded.Status)
		})

		return nil
	})
	require.NoError(t, err)
}
