package tests

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/fieldops/prtrack/models"
	"github.com/fieldops/prtrack/repository"
	testingutil "github.com/fieldops/prtrack/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceCounterNext(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		seqRepo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("FirstCallReturnsOne", func(t *testing.T) {
			value, err := seqRepo.Next(ctx, "fresh-series")
			require.NoError(t, err)
			assert.Equal(t, int64(1), value)
		})

		t.Run("ConsecutiveCallsIncrement", func(t *testing.T) {
			for expected := int64(1); expected <= 5; expected++ {
				value, err := seqRepo.Next(ctx, "consecutive-series")
				require.NoError(t, err)
				assert.Equal(t, expected, value)
			}
		})

		t.Run("SeriesAreIndependent", func(t *testing.T) {
			first, err := seqRepo.Next(ctx, "series-a")
			require.NoError(t, err)
			assert.Equal(t, int64(1), first)

			second, err := seqRepo.Next(ctx, "series-b")
			require.NoError(t, err)
			assert.Equal(t, int64(1), second)
		})

		t.Run("EmptySeriesRejected", func(t *testing.T) {
			_, err := seqRepo.Next(ctx, "")
			assert.Error(t, err)
		})

		t.Run("PurchaseRequestSeries", func(t *testing.T) {
			value, err := seqRepo.Next(ctx, models.SeriesPurchaseRequest)
			require.NoError(t, err)
			assert.Equal(t, int64(1), value)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterConcurrency(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		seqRepo := repository.NewSequenceCounterRepository(testDB.DB)

		t.Run("NoDuplicatesNoGaps", func(t *testing.T) {
			const workers = 50

			values := make(chan int64, workers)
			errs := make(chan error, workers)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					value, err := seqRepo.Next(context.Background(), "concurrent-series")
					if err != nil {
						errs <- err
						return
					}
					values <- value
				}()
			}
			wg.Wait()
			close(values)
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			var got []int64
			for value := range values {
				got = append(got, value)
			}
			require.Len(t, got, workers)

			// The result set must be exactly {1..workers}: no value issued
			// twice, no value skipped.
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			for i, value := range got {
				assert.Equal(t, int64(i+1), value)
			}
		})

		return nil
	})
	require.NoError(t, err)
}
