package transport

import (
	"time"

	"junkportal_backend/internal/estimator"

	"github.com/google/uuid"
)

// Enum values
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusScheduled LeadStatus = "scheduled"
	LeadStatusCompleted LeadStatus = "completed"
	LeadStatusCancelled LeadStatus = "cancelled"
)

type SessionAction string

const (
	SessionActionToggle    SessionAction = "toggle"
	SessionActionIncrement SessionAction = "increment"
	SessionActionDecrement SessionAction = "decrement"
)

// Request DTOs

// SubmitEstimateRequest is the public intake payload. The Website field is a
// honeypot: humans never see it, so any value marks the submission as a bot.
type SubmitEstimateRequest struct {
	CustomerName  string   `json:"customerName" validate:"required,min=1,max=100"`
	CustomerPhone string   `json:"customerPhone" validate:"required,min=5,max=20"`
	CustomerEmail string   `json:"customerEmail,omitempty" validate:"omitempty,email,max=200"`
	ZipCode       string   `json:"zipCode" validate:"required,min=5,max=10"`
	PhotoURLs     []string `json:"photoUrls,omitempty" validate:"omitempty,max=10,dive,url"`
	ItemTypes     []string `json:"itemTypes,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ServiceType   string   `json:"serviceType,omitempty" validate:"omitempty,oneof=curbside full_service"`
	AccessType    string   `json:"accessType,omitempty" validate:"omitempty,oneof=curbside ground_garage inside_home upstairs"`
	CouchSize     string   `json:"couchSize,omitempty" validate:"omitempty,oneof=2_seat 3_seat 4_seat small_sectional large_sectional"`
	Website       string   `json:"website,omitempty"`
}

// RecalculateRequest replays one checklist transition against the estimate
// session state the client holds. The server keeps no session.
type RecalculateRequest struct {
	Action        SessionAction            `json:"action" validate:"required,oneof=toggle increment decrement"`
	ItemIndex     int                      `json:"itemIndex" validate:"min=0"`
	Items         []estimator.DetectedItem `json:"items" validate:"required,min=1,max=50"`
	Original      estimator.EstimateResult `json:"originalEstimate" validate:"required"`
	AITotalVolume float64                  `json:"aiTotalVolume" validate:"min=0"`
	UserAdjusted  bool                     `json:"userAdjusted"`
}

type ClaimLeadRequest struct {
	ClaimedBy string `json:"claimedBy" validate:"required,min=1,max=100"`
}

type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" validate:"required,oneof=new contacted scheduled completed cancelled"`
}

// ListLeadsQuery holds the supported list filters.
type ListLeadsQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=new contacted scheduled completed cancelled"`
	ZipCode  string `form:"zipCode" validate:"omitempty,min=5,max=10"`
	MinPrice int    `form:"minPrice" validate:"omitempty,min=0"`
	MaxPrice int    `form:"maxPrice" validate:"omitempty,min=0"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

// EstimateResponse is returned from the public submit endpoint. SessionSeed
// carries everything the client needs to drive recalculation later.
type EstimateResponse struct {
	LeadID   uuid.UUID                `json:"leadId"`
	Estimate estimator.EstimateResult `json:"estimate"`
	Items    []estimator.DetectedItem `json:"items"`
	Session  SessionSeed              `json:"session"`
}

type SessionSeed struct {
	AITotalVolume float64 `json:"aiTotalVolume"`
	UserAdjusted  bool    `json:"userAdjusted"`
}

// RecalculateResponse returns the replayed session outcome plus the item
// state after the transition, so the client can stay in sync.
type RecalculateResponse struct {
	Result estimator.RecalcResult   `json:"result"`
	Items  []estimator.DetectedItem `json:"items"`
}

// LeadResponse is the operator view of a lead. Contact details are withheld
// until the lead has been claimed.
type LeadResponse struct {
	ID            uuid.UUID  `json:"id"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone *string    `json:"customerPhone,omitempty"`
	CustomerEmail *string    `json:"customerEmail,omitempty"`
	ZipCode       string     `json:"zipCode"`
	Zone          string     `json:"zone"`
	ItemTypes     []string   `json:"itemTypes"`
	Notes         *string    `json:"notes,omitempty"`
	PhotoCount    int        `json:"photoCount"`
	MinPrice      int        `json:"minPrice"`
	MaxPrice      int        `json:"maxPrice"`
	Confidence    string     `json:"confidence"`
	Method        string     `json:"method"`
	Status        LeadStatus `json:"status"`
	ClaimedBy     *string    `json:"claimedBy,omitempty"`
	ClaimedAt     *time.Time `json:"claimedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// LeadDetailResponse adds the full pricing context for a single lead.
type LeadDetailResponse struct {
	LeadResponse
	PhotoURLs     []string                   `json:"photoUrls"`
	Assumptions   string                     `json:"assumptions"`
	Breakdown     estimator.PricingBreakdown `json:"pricingBreakdown"`
	DetectedItems []estimator.DetectedItem   `json:"detectedItems"`
	AITotalVolume float64                    `json:"aiTotalVolume"`
}

type ListLeadsResponse struct {
	Leads    []LeadResponse `json:"leads"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
