package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"sync"
	"testing"

	"github.com/fieldops/prtrack/app/dto"
	businessflow "github.com/fieldops/prtrack/business_flow"
	"github.com/fieldops/prtrack/repository"
	testingutil "github.com/fieldops/prtrack/testing"
	"github.com/fieldops/prtrack/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseRequestFlow(testDB *testingutil.TestDB) businessflow.PurchaseRequestFlow {
	prRepo := repository.NewPurchaseRequestRepository(testDB.DB)
	seqRepo := repository.NewSequenceCounterRepository(testDB.DB)
	return businessflow.NewPurchaseRequestFlow(prRepo, seqRepo, testDB.DB, nil, nil)
}

func createRequest(location, department string) *dto.CreatePurchaseRequestRequest {
	return &dto.CreatePurchaseRequestRequest{
		Location:          location,
		Department:        department,
		PropertyReference: "UPRN-0042",
		EstimatedAmount:   utils.ToPtr(1500.50),
		Requester:         "Jane Field",
	}
}

func TestCreatePurchaseRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		t.Run("FirstCreateGetsSequenceOne", func(t *testing.T) {
			result, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, int64(1), result.SequenceNumber)
			assert.Equal(t, "RAQ-HEA-0001", result.Code)
			assert.Equal(t, "Raqqa", result.Location)
			assert.Equal(t, "Health", result.Department)
			assert.Equal(t, "pending", result.Status)
			assert.NotEmpty(t, result.UUID)
			assert.NotEmpty(t, result.DateRequested)
		})

		t.Run("SequenceAdvancesAcrossCreates", func(t *testing.T) {
			// Five more creates on top of the first one above.
			var last *dto.PurchaseRequestDTO
			for i := 0; i < 5; i++ {
				result, err := prFlow.Create(ctx, createRequest("Hassaka", "Education"), nil)
				require.NoError(t, err)
				last = result
			}
			assert.Equal(t, int64(6), last.SequenceNumber)
			assert.Equal(t, "HSK-EDU-0006", last.Code)

			result, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
			require.NoError(t, err)
			assert.Equal(t, "RAQ-HEA-0007", result.Code)
		})

		t.Run("UnknownLocationConsumesNoSequence", func(t *testing.T) {
			_, err := prFlow.Create(ctx, createRequest("Atlantis", "Health"), nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownCode(err))

			// The rejected request must not have bumped the counter: the
			// next successful create continues where the last one left off.
			result, err := prFlow.Create(ctx, createRequest("Deir Ezole", "WASH"), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(8), result.SequenceNumber)
			assert.Equal(t, "DRZ-WSH-0008", result.Code)
		})

		t.Run("UnknownDepartmentRejected", func(t *testing.T) {
			_, err := prFlow.Create(ctx, createRequest("Raqqa", "Alchemy"), nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownCode(err))
		})

		t.Run("NegativeAmountRejected", func(t *testing.T) {
			req := createRequest("Raqqa", "Health")
			req.EstimatedAmount = utils.ToPtr(-1.0)

			_, err := prFlow.Create(ctx, req, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsNegativeAmount(err))
		})

		t.Run("ExplicitDateRequested", func(t *testing.T) {
			req := createRequest("Raqqa", "WASH")
			req.DateRequested = utils.ToPtr("2026-08-01T09:30:00Z")

			result, err := prFlow.Create(ctx, req, nil)
			require.NoError(t, err)
			assert.Equal(t, "2026-08-01T09:30:00Z", result.DateRequested)
		})

		t.Run("MalformedDateRequested", func(t *testing.T) {
			req := createRequest("Raqqa", "WASH")
			req.DateRequested = utils.ToPtr("01/08/2026")

			_, err := prFlow.Create(ctx, req, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDate(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConcurrentCreates(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)

		t.Run("DistinctCodes", func(t *testing.T) {
			const workers = 20

			codes := make(chan string, workers)
			errs := make(chan error, workers)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					result, err := prFlow.Create(context.Background(), createRequest("Raqqa", "Health"), nil)
					if err != nil {
						errs <- err
						return
					}
					codes <- result.Code
				}()
			}
			wg.Wait()
			close(codes)
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			seen := make(map[string]bool)
			for code := range codes {
				assert.False(t, seen[code], "duplicate code %s", code)
				seen[code] = true
			}
			assert.Len(t, seen, workers)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGetPurchaseRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		created, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
		require.NoError(t, err)

		t.Run("RoundTrip", func(t *testing.T) {
			got, err := prFlow.Get(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.UUID, got.UUID)
			assert.Equal(t, created.Code, got.Code)
			assert.Equal(t, created.SequenceNumber, got.SequenceNumber)
			assert.Equal(t, created.PropertyReference, got.PropertyReference)
			assert.Equal(t, created.EstimatedAmount, got.EstimatedAmount)
			assert.Equal(t, created.Requester, got.Requester)
		})

		t.Run("AbsentID", func(t *testing.T) {
			_, err := prFlow.Get(ctx, created.ID+1000)
			require.Error(t, err)
			assert.True(t, businessflow.IsPurchaseRequestNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdatePurchaseRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		created, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
		require.NoError(t, err)

		t.Run("CodeSurvivesLocationChange", func(t *testing.T) {
			updated, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				Location:   utils.ToPtr("Hassaka"),
				Department: utils.ToPtr("WASH"),
			}, nil)
			require.NoError(t, err)

			assert.Equal(t, "Hassaka", updated.Location)
			assert.Equal(t, "WASH", updated.Department)
			// Code and sequence number keep their creation-time values.
			assert.Equal(t, created.Code, updated.Code)
			assert.Equal(t, created.SequenceNumber, updated.SequenceNumber)
		})

		t.Run("StatusTransition", func(t *testing.T) {
			updated, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				Status: utils.ToPtr("approved"),
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, "approved", updated.Status)

			got, err := prFlow.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "approved", got.Status)
			// The returned DTO reflects the stored row, timestamps included.
			assert.Equal(t, got.UpdatedAt, updated.UpdatedAt)
		})

		t.Run("MalformedDateRejected", func(t *testing.T) {
			_, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				DateRequested: utils.ToPtr("01/08/2026"),
			}, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDate(err))
		})

		t.Run("InvalidStatusRejected", func(t *testing.T) {
			_, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				Status: utils.ToPtr("cancelled"),
			}, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidStatus(err))
		})

		t.Run("UnknownLocationRejected", func(t *testing.T) {
			_, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				Location: utils.ToPtr("Atlantis"),
			}, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownCode(err))
		})

		t.Run("NegativeAmountRejected", func(t *testing.T) {
			_, err := prFlow.Update(ctx, created.ID, &dto.UpdatePurchaseRequestRequest{
				EstimatedAmount: utils.ToPtr(-50.0),
			}, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsNegativeAmount(err))
		})

		t.Run("AbsentID", func(t *testing.T) {
			_, err := prFlow.Update(ctx, created.ID+1000, &dto.UpdatePurchaseRequestRequest{
				Requester: utils.ToPtr("Nobody"),
			}, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsPurchaseRequestNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeletePurchaseRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		created, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
		require.NoError(t, err)

		t.Run("DeleteThenGet", func(t *testing.T) {
			err := prFlow.Delete(ctx, created.ID, nil)
			require.NoError(t, err)

			_, err = prFlow.Get(ctx, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsPurchaseRequestNotFound(err))
		})

		t.Run("DeleteAbsent", func(t *testing.T) {
			err := prFlow.Delete(ctx, created.ID, nil)
			require.Error(t, err)
			assert.True(t, businessflow.IsPurchaseRequestNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListPurchaseRequests(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		first, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
		require.NoError(t, err)
		second, err := prFlow.Create(ctx, createRequest("Hassaka", "Education"), nil)
		require.NoError(t, err)
		third, err := prFlow.Create(ctx, createRequest("Raqqa", "WASH"), nil)
		require.NoError(t, err)

		t.Run("NewestFirst", func(t *testing.T) {
			list, err := prFlow.List(ctx, nil)
			require.NoError(t, err)
			require.Len(t, list, 3)

			assert.Equal(t, third.ID, list[0].ID)
			assert.Equal(t, second.ID, list[1].ID)
			assert.Equal(t, first.ID, list[2].ID)
		})

		t.Run("FilterByLocation", func(t *testing.T) {
			list, err := prFlow.List(ctx, &dto.ListPurchaseRequestsQuery{Location: "Raqqa"})
			require.NoError(t, err)
			require.Len(t, list, 2)
			for _, pr := range list {
				assert.Equal(t, "Raqqa", pr.Location)
			}
		})

		t.Run("FilterByDepartment", func(t *testing.T) {
			list, err := prFlow.List(ctx, &dto.ListPurchaseRequestsQuery{Department: "Education"})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, second.ID, list[0].ID)
		})

		t.Run("FilterWithNoMatches", func(t *testing.T) {
			list, err := prFlow.List(ctx, &dto.ListPurchaseRequestsQuery{Status: "approved"})
			require.NoError(t, err)
			assert.Empty(t, list)
		})

		t.Run("EmptyAfterClear", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			list, err := prFlow.List(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, list)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExportPurchaseRequests(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		prFlow := newPurchaseRequestFlow(testDB)
		ctx := context.Background()

		first, err := prFlow.Create(ctx, createRequest("Raqqa", "Health"), nil)
		require.NoError(t, err)
		second, err := prFlow.Create(ctx, createRequest("Deir Ezole", "WASH"), nil)
		require.NoError(t, err)

		t.Run("CSV", func(t *testing.T) {
			filename, data, err := prFlow.ExportCSV(ctx)
			require.NoError(t, err)
			assert.Equal(t, "purchase_requests.csv", filename)
			require.NotEmpty(t, data)

			records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 3)

			assert.Equal(t, []string{
				"PR ID", "Code", "Location", "Department", "Property Reference",
				"Estimated Amount", "Requester", "Status", "Date Requested",
			}, records[0])

			// Rows come newest first, carrying the sequence number and code.
			assert.Equal(t, strconv.FormatInt(second.SequenceNumber, 10), records[1][0])
			assert.Equal(t, second.Code, records[1][1])
			assert.Equal(t, strconv.FormatInt(first.SequenceNumber, 10), records[2][0])
			assert.Equal(t, "1500.50", records[2][5])
		})

		t.Run("Excel", func(t *testing.T) {
			filename, data, err := prFlow.ExportExcel(ctx)
			require.NoError(t, err)
			assert.Equal(t, "purchase_requests.xlsx", filename)
			require.NotEmpty(t, data)

			// XLSX files are zip containers.
			assert.Equal(t, []byte{'P', 'K'}, data[:2])
		})

		return nil
	})
	require.NoError(t, err)
}
