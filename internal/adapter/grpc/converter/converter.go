package converter

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/iho/sharefund/internal/adapter/grpc/api"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// ProjectToAPI converts domain.Project to its wire form.
func ProjectToAPI(p *domain.Project) *api.Project {
	if p == nil {
		return nil
	}
	return &api.Project{
		ID:              p.ID,
		Title:           p.Title,
		Location:        p.Location,
		CapacityKW:      p.CapacityKW.String(),
		PricePerShare:   p.PricePerShare.String(),
		AvailableShares: p.AvailableShares,
		SoldShares:      p.SoldShares,
		RemainingShares: p.RemainingShares(),
		ExpectedROI:     p.ExpectedROI.String(),
		Status:          string(p.EffectiveStatus()),
		CreatedAt:       timestamp(p.CreatedAt),
		UpdatedAt:       timestamp(p.UpdatedAt),
	}
}

// InvestmentToAPI converts domain.Investment to its wire form.
func InvestmentToAPI(i *domain.Investment) *api.Investment {
	if i == nil {
		return nil
	}
	return &api.Investment{
		ID:                   i.ID,
		ProjectID:            i.ProjectID,
		BuyerID:              i.BuyerID,
		SharesPurchased:      i.SharesPurchased,
		PricePerShare:        i.PricePerShare.String(),
		AmountInvested:       i.AmountInvested.String(),
		ExpectedAnnualReturn: i.ExpectedAnnualReturn.String(),
		PaymentStatus:        string(i.PaymentStatus),
		CreatedAt:            timestamp(i.CreatedAt),
	}
}

// ReconciliationToAPI converts a reconciliation result to its wire form.
func ReconciliationToAPI(r *usecase.ReconciliationResult) *api.ReconcileProjectResponse {
	return &api.ReconcileProjectResponse{
		ProjectID:        r.ProjectID,
		LedgerSoldShares: r.LedgerSoldShares,
		RecordedShares:   r.RecordedShares,
		Difference:       r.Difference,
		IsReconciled:     r.IsReconciled,
		LastChecked:      timestamp(r.LastChecked),
	}
}

// PurchaseInput converts a purchase request to use case input.
func PurchaseInput(req *api.PurchaseRequest) usecase.PurchaseInput {
	return usecase.PurchaseInput{
		BuyerID:   req.BuyerID,
		ProjectID: req.ProjectID,
		Shares:    req.Shares,
	}
}

// ParseTimestamp converts protobuf timestamp to time.Time
func ParseTimestamp(ts *timestamppb.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.AsTime()
	return &t
}

func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}
