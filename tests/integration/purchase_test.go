package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
	"github.com/iho/sharefund/tests/testutil"
)

func TestPurchase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	svc := testDB.NewServices(5)

	t.Run("records investment at the project price", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		project := testDB.CreateTestProject(ctx, "School", 10, decimal.RequireFromString("125.50"))

		inv, err := svc.Purchases.Purchase(ctx, usecase.PurchaseInput{
			ProjectID: project.ID,
			BuyerID:   "buyer-1",
			Shares:    4,
		})
		if err != nil {
			t.Fatalf("purchase failed: %v", err)
		}

		if !inv.AmountInvested.Equal(decimal.RequireFromString("502")) {
			t.Errorf("expected amount 502, got %s", inv.AmountInvested)
		}
		if inv.PaymentStatus != domain.PaymentStatusCompleted {
			t.Errorf("expected completed payment, got %s", inv.PaymentStatus)
		}

		stored, err := svc.Investments.GetByID(ctx, inv.ID)
		if err != nil {
			t.Fatalf("investment not stored: %v", err)
		}
		if stored.SharesPurchased != 4 {
			t.Errorf("expected 4 shares stored, got %d", stored.SharesPurchased)
		}

		got, _ := svc.Projects.GetByID(ctx, project.ID)
		if got.SoldShares != 4 {
			t.Errorf("expected 4 sold shares, got %d", got.SoldShares)
		}
	})

	t.Run("rejects more shares than remain", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		project := testDB.CreateTestProject(ctx, "Farm", 5, decimal.NewFromInt(100))

		_, err := svc.Purchases.Purchase(ctx, usecase.PurchaseInput{
			ProjectID: project.ID,
			BuyerID:   "buyer-1",
			Shares:    6,
		})

		var unavailable *domain.SharesUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("expected shares unavailable, got %v", err)
		}
		if unavailable.Available != 5 {
			t.Errorf("expected 5 available, got %d", unavailable.Available)
		}

		got, _ := svc.Projects.GetByID(ctx, project.ID)
		if got.SoldShares != 0 {
			t.Errorf("rejected purchase changed sold shares to %d", got.SoldShares)
		}
	})

	t.Run("rejects inactive project", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		project := testDB.CreateInactiveProject(ctx, "Paused", 5, decimal.NewFromInt(100))

		_, err := svc.Purchases.Purchase(ctx, usecase.PurchaseInput{
			ProjectID: project.ID,
			BuyerID:   "buyer-1",
			Shares:    1,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		_, err := svc.Purchases.Purchase(ctx, usecase.PurchaseInput{
			ProjectID: testutil.GenerateID(),
			BuyerID:   "buyer-1",
			Shares:    1,
		})
		if !errors.Is(err, domain.ErrProjectNotFound) {
			t.Fatalf("expected project not found, got %v", err)
		}
	})

	t.Run("reconciliation flags unrecorded shares", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		project := testDB.CreateTestProject(ctx, "Depot", 10, decimal.NewFromInt(100))

		// Reserve directly, as if the investment insert had failed afterwards.
		if _, err := svc.Ledger.Reserve(ctx, project.ID, 3); err != nil {
			t.Fatalf("reserve failed: %v", err)
		}

		result, err := svc.Reconciliation.ReconcileProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		if result.IsReconciled || result.Difference != 3 {
			t.Errorf("expected 3 unrecorded shares, got difference %d", result.Difference)
		}
	})
}
