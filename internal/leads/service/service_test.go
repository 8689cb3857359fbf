package service

import (
	"context"
	"testing"
	"time"

	"junkportal_backend/internal/estimator"
	"junkportal_backend/internal/leads/repository"
	"junkportal_backend/internal/leads/transport"
	"junkportal_backend/platform/logger"
)

func newTestService() *Service {
	return New(nil, nil, nil, logger.New("test"))
}

func recalcFixture() transport.RecalculateRequest {
	return transport.RecalculateRequest{
		Items: []estimator.DetectedItem{
			{ID: "item_1", CanonicalKey: "sofa_3_seat", DisplayName: "Sofa (3-seat)", Quantity: 1, MinQty: 0, MaxQty: 3, YardsPerUnit: 2.0, Confidence: 0.9, Included: true},
			{ID: "item_2", CanonicalKey: "refrigerator", DisplayName: "Refrigerator", Quantity: 1, MinQty: 0, MaxQty: 2, YardsPerUnit: 1.5, Confidence: 0.9, Included: true},
		},
		Original: estimator.EstimateResult{
			MinPrice:           200,
			MaxPrice:           280,
			CubicYardsAdjusted: 3.5,
		},
		AITotalVolume: 3.5,
	}
}

func TestRecalculateToggle(t *testing.T) {
	svc := newTestService()

	req := recalcFixture()
	req.Action = transport.SessionActionToggle
	req.ItemIndex = 0

	resp, err := svc.Recalculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}

	if resp.Items[0].Included {
		t.Fatalf("expected item 0 to be excluded after toggle")
	}
	if resp.Result.MinPrice >= req.Original.MinPrice {
		t.Fatalf("expected price to drop after removing an item, got min %d", resp.Result.MinPrice)
	}
	if resp.Result.MaxPrice < resp.Result.MinPrice+20 {
		t.Fatalf("expected at least $20 spread, got [%d, %d]", resp.Result.MinPrice, resp.Result.MaxPrice)
	}
}

func TestRecalculateIncrementRaisesPrice(t *testing.T) {
	svc := newTestService()

	req := recalcFixture()
	req.Action = transport.SessionActionIncrement
	req.ItemIndex = 1

	resp, err := svc.Recalculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}

	if resp.Items[1].Quantity != 2 {
		t.Fatalf("expected quantity 2 after increment, got %d", resp.Items[1].Quantity)
	}
	if resp.Result.MinPrice < req.Original.MinPrice {
		t.Fatalf("expected price to not drop after adding an item, got min %d", resp.Result.MinPrice)
	}
}

func TestRecalculateIndexOutOfRange(t *testing.T) {
	svc := newTestService()

	req := recalcFixture()
	req.Action = transport.SessionActionToggle
	req.ItemIndex = 5

	if _, err := svc.Recalculate(context.Background(), req); err == nil {
		t.Fatalf("expected error for out-of-range item index")
	}
}

func TestRecalculateUnknownAction(t *testing.T) {
	svc := newTestService()

	req := recalcFixture()
	req.Action = "explode"
	req.ItemIndex = 0

	if _, err := svc.Recalculate(context.Background(), req); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    transport.LeadStatus
		to      transport.LeadStatus
		allowed bool
	}{
		{transport.LeadStatusNew, transport.LeadStatusContacted, true},
		{transport.LeadStatusNew, transport.LeadStatusCancelled, true},
		{transport.LeadStatusNew, transport.LeadStatusCompleted, false},
		{transport.LeadStatusContacted, transport.LeadStatusScheduled, true},
		{transport.LeadStatusContacted, transport.LeadStatusCompleted, false},
		{transport.LeadStatusScheduled, transport.LeadStatusCompleted, true},
		{transport.LeadStatusScheduled, transport.LeadStatusContacted, true},
		{transport.LeadStatusCompleted, transport.LeadStatusNew, false},
		{transport.LeadStatusCancelled, transport.LeadStatusContacted, false},
	}

	for _, tc := range tests {
		if got := transitionAllowed(tc.from, tc.to); got != tc.allowed {
			t.Errorf("transitionAllowed(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestContactRedactionBeforeClaim(t *testing.T) {
	email := "jane@example.com"
	lead := repository.Lead{
		CustomerName:  "Jane Doe",
		CustomerPhone: "+16195551234",
		CustomerEmail: &email,
		ZipCode:       "92101",
		Status:        "new",
		CreatedAt:     time.Now(),
	}

	resp := toLeadResponse(lead)
	if resp.CustomerPhone != nil || resp.CustomerEmail != nil {
		t.Fatalf("expected contact details hidden on unclaimed lead")
	}

	claimedBy := "crew-1"
	claimedAt := time.Now()
	lead.ClaimedBy = &claimedBy
	lead.ClaimedAt = &claimedAt

	resp = toLeadResponse(lead)
	if resp.CustomerPhone == nil || *resp.CustomerPhone != "+16195551234" {
		t.Fatalf("expected phone revealed after claim, got %v", resp.CustomerPhone)
	}
	if resp.CustomerEmail == nil || *resp.CustomerEmail != email {
		t.Fatalf("expected email revealed after claim, got %v", resp.CustomerEmail)
	}
}

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"92101", "92101"},
		{" 92101 ", "92101"},
		{"92101-4433", "92101"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := normalizeZip(tc.in); got != tc.want {
			t.Errorf("normalizeZip(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
