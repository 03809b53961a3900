package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
	"github.com/iho/sharefund/internal/usecase"
	"github.com/iho/sharefund/internal/usecase/mocks"
)

func TestShareLedger_Reserve(t *testing.T) {
	tests := []struct {
		name          string
		available     int64
		sold          int64
		requested     int64
		wantErr       error
		wantSold      int64
		wantAvailable int64
	}{
		{name: "reserve into empty pool", available: 100, sold: 0, requested: 5, wantSold: 5},
		{name: "fill the pool exactly", available: 10, sold: 8, requested: 2, wantSold: 10},
		{name: "exceed remaining", available: 10, sold: 8, requested: 3, wantErr: domain.ErrSharesUnavailable, wantSold: 8, wantAvailable: 2},
		{name: "funded project", available: 10, sold: 10, requested: 1, wantErr: domain.ErrSharesUnavailable, wantSold: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockProjectRepository()
			seedProject(repo, "p1", "1000", tt.available, tt.sold)
			ledger := usecase.NewShareLedger(repo, nil)

			reservation, err := ledger.Reserve(context.Background(), "p1", tt.requested)

			stored, _ := repo.Snapshot("p1")
			if stored.SoldShares != tt.wantSold {
				t.Fatalf("expected sold %d, got %d", tt.wantSold, stored.SoldShares)
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				var unavailable *domain.SharesUnavailableError
				if errors.As(err, &unavailable) && unavailable.Available != tt.wantAvailable {
					t.Fatalf("expected available %d, got %d", tt.wantAvailable, unavailable.Available)
				}
				if stored.Version != 1 {
					t.Fatalf("expected version untouched, got %d", stored.Version)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reservation.SoldShares != tt.wantSold || reservation.Requested != tt.requested {
				t.Fatalf("unexpected reservation %+v", reservation)
			}
			if stored.Version != 2 || reservation.Version != 2 {
				t.Fatalf("expected version bumped to 2, got stored %d reservation %d", stored.Version, reservation.Version)
			}
		})
	}
}

func TestShareLedger_RejectsNonPositiveWithoutStoreAccess(t *testing.T) {
	repo := mocks.NewMockProjectRepository()
	seedProject(repo, "p1", "1000", 10, 0)
	ledger := usecase.NewShareLedger(repo, nil)

	for _, n := range []int64{0, -1, -100} {
		_, err := ledger.Reserve(context.Background(), "p1", n)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %d, got %v", n, err)
		}
	}

	if repo.GetCalls != 0 || repo.CASCalls != 0 {
		t.Fatalf("expected no store access, got %d reads and %d writes", repo.GetCalls, repo.CASCalls)
	}
}

func TestShareLedger_ProjectNotFound(t *testing.T) {
	ledger := usecase.NewShareLedger(mocks.NewMockProjectRepository(), nil)

	_, err := ledger.Reserve(context.Background(), "missing", 1)
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestShareLedger_LostCompareAndSwap(t *testing.T) {
	repo := mocks.NewMockProjectRepository()
	seedProject(repo, "p1", "1000", 10, 0)
	repo.CompareAndSwapSoldSharesFunc = func(context.Context, string, int64, int64, time.Time) (bool, error) {
		return false, nil
	}
	m := metrics.New(prometheus.NewRegistry())
	ledger := usecase.NewShareLedger(repo, m)

	_, err := ledger.Reserve(context.Background(), "p1", 1)
	if !errors.Is(err, domain.ErrTransientConflict) {
		t.Fatalf("expected ErrTransientConflict, got %v", err)
	}
	if got := testutil.ToFloat64(m.Reservations.WithLabelValues(metrics.OutcomeConflict)); got != 1 {
		t.Fatalf("expected one conflict counted, got %v", got)
	}
}

func TestShareLedger_StoreErrorPropagates(t *testing.T) {
	repo := mocks.NewMockProjectRepository()
	seedProject(repo, "p1", "1000", 10, 0)
	storeErr := errors.New("connection reset")
	repo.CompareAndSwapSoldSharesFunc = func(context.Context, string, int64, int64, time.Time) (bool, error) {
		return false, storeErr
	}
	ledger := usecase.NewShareLedger(repo, nil)

	if _, err := ledger.Reserve(context.Background(), "p1", 1); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// Concurrent reservations never oversell, and the sold count equals the sum of successes.
func TestShareLedger_ConcurrentReserveKeepsInvariant(t *testing.T) {
	f := newPurchaseFixture(t, nil)
	seedProject(f.projects, "p1", "100", 200, 0)

	const workers = 100
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int64
		start     = make(chan struct{})
	)

	for i := 0; i < workers; i++ {
		n := int64(rand.Intn(5) + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			var reservation *domain.Reservation
			err := f.retrier.Retry(context.Background(), func() error {
				r, err := f.ledger.Reserve(context.Background(), "p1", n)
				reservation = r
				return err
			})

			switch {
			case err == nil:
				mu.Lock()
				succeeded += reservation.Requested
				mu.Unlock()
			case errors.Is(err, domain.ErrSharesUnavailable):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	stored, _ := f.projects.Snapshot("p1")
	if stored.SoldShares != succeeded {
		t.Fatalf("expected sold %d to equal sum of successes %d", stored.SoldShares, succeeded)
	}
	if stored.SoldShares < 0 || stored.SoldShares > stored.AvailableShares {
		t.Fatalf("invariant violated: sold %d of %d", stored.SoldShares, stored.AvailableShares)
	}
}

// With 2 of 10 left, concurrent requests for 2 and 3 can never both succeed.
func TestShareLedger_RaceForLastShares(t *testing.T) {
	for round := 0; round < 50; round++ {
		f := newPurchaseFixture(t, nil)
		seedProject(f.projects, "p1", "100", 10, 8)

		var wg sync.WaitGroup
		results := make([]error, 2)
		start := make(chan struct{})

		for i, n := range []int64{2, 3} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				results[i] = f.retrier.Retry(context.Background(), func() error {
					_, err := f.ledger.Reserve(context.Background(), "p1", n)
					return err
				})
			}()
		}
		close(start)
		wg.Wait()

		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
			} else if !errors.Is(err, domain.ErrSharesUnavailable) {
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		if successes > 1 {
			t.Fatalf("round %d: both reservations succeeded", round)
		}

		stored, _ := f.projects.Snapshot("p1")
		if stored.SoldShares != 10 && stored.SoldShares != 8 {
			t.Fatalf("round %d: unexpected sold count %d", round, stored.SoldShares)
		}
		if results[1] == nil {
			t.Fatalf("round %d: request for 3 must never fit", round)
		}
	}
}
