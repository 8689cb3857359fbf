package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"junkportal_backend/internal/leads/service"
	"junkportal_backend/internal/leads/transport"
	"junkportal_backend/platform/logger"
	"junkportal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubLimiter struct {
	allow bool
	calls int
}

func (s *stubLimiter) Allow(ctx context.Context, ip, endpoint string) bool {
	s.calls++
	return s.allow
}

func newTestRouter(limiter SubmissionLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.New(nil, nil, nil, logger.New("test"))
	h := NewPublicHandler(svc, limiter, validator.New(), logger.New("test"))

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/estimates"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubmitHoneypotReturnsFakeSuccess(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	engine := newTestRouter(limiter)

	body := `{
		"customerName": "Bot",
		"customerPhone": "6195551234",
		"zipCode": "92101",
		"website": "https://spam.example.com"
	}`
	rec := postJSON(t, engine, "/estimates", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for honeypot submission, got %d", rec.Code)
	}
	if limiter.calls != 0 {
		t.Fatalf("honeypot submission must not reach the rate limiter")
	}

	var resp transport.EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.LeadID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("fake success should still carry a plausible lead id")
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	engine := newTestRouter(&stubLimiter{allow: true})

	// Missing customerName and zipCode.
	rec := postJSON(t, engine, "/estimates", `{"customerPhone": "6195551234"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", rec.Code)
	}
}

func TestSubmitMalformedJSON(t *testing.T) {
	engine := newTestRouter(&stubLimiter{allow: true})

	rec := postJSON(t, engine, "/estimates", `{"customerName": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	engine := newTestRouter(limiter)

	body := `{
		"customerName": "Jane Doe",
		"customerPhone": "6195551234",
		"zipCode": "92101"
	}`
	rec := postJSON(t, engine, "/estimates", body)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 when over submission quota, got %d", rec.Code)
	}
	if limiter.calls != 1 {
		t.Fatalf("expected limiter to be consulted once, got %d", limiter.calls)
	}
}

func TestRecalculateRejectsBadIndex(t *testing.T) {
	engine := newTestRouter(&stubLimiter{allow: true})

	body := `{
		"action": "toggle",
		"itemIndex": 9,
		"items": [
			{"id": "item_1", "canonical_key": "sofa_3_seat", "display_name": "Sofa (3-seat)", "quantity": 1, "min_qty": 0, "max_qty": 3, "yards_per_unit": 2.0, "confidence": 0.9, "included": true}
		],
		"originalEstimate": {"min_price": 200, "max_price": 280, "cubic_yards_adjusted": 2.0},
		"aiTotalVolume": 2.0
	}`
	rec := postJSON(t, engine, "/estimates/recalculate", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range item index, got %d", rec.Code)
	}
}

func TestRecalculateToggleEndToEnd(t *testing.T) {
	engine := newTestRouter(&stubLimiter{allow: true})

	body := `{
		"action": "toggle",
		"itemIndex": 0,
		"items": [
			{"id": "item_1", "canonical_key": "sofa_3_seat", "display_name": "Sofa (3-seat)", "quantity": 1, "min_qty": 0, "max_qty": 3, "yards_per_unit": 2.0, "confidence": 0.9, "included": true},
			{"id": "item_2", "canonical_key": "refrigerator", "display_name": "Refrigerator", "quantity": 1, "min_qty": 0, "max_qty": 2, "yards_per_unit": 1.5, "confidence": 0.9, "included": true}
		],
		"originalEstimate": {"min_price": 200, "max_price": 280, "cubic_yards_adjusted": 3.5},
		"aiTotalVolume": 3.5
	}`
	rec := postJSON(t, engine, "/estimates/recalculate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp transport.RecalculateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Items[0].Included {
		t.Fatalf("expected item 0 excluded after toggle")
	}
	if resp.Result.MinPrice >= 200 {
		t.Fatalf("expected lower min price after removal, got %d", resp.Result.MinPrice)
	}
}
