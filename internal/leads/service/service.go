// Package service orchestrates the estimate intake and lead lifecycle. It
// glues photo analysis, the pricing engine and persistence together and
// publishes domain events for side effects like notification email.
package service

import (
	"context"
	"errors"
	"strings"

	"junkportal_backend/internal/estimator"
	"junkportal_backend/internal/events"
	"junkportal_backend/internal/leads/repository"
	"junkportal_backend/internal/leads/transport"
	"junkportal_backend/platform/apperr"
	"junkportal_backend/platform/logger"
	"junkportal_backend/platform/phone"
	"junkportal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// PhotoAnalyzer produces a structured analysis from customer photos.
type PhotoAnalyzer interface {
	Analyze(ctx context.Context, photoURLs []string) *estimator.VisionAnalysis
	Enabled() bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// statusTransitions is the allowed lead status graph. Completed and
// cancelled are terminal.
var statusTransitions = map[transport.LeadStatus][]transport.LeadStatus{
	transport.LeadStatusNew:       {transport.LeadStatusContacted, transport.LeadStatusCancelled},
	transport.LeadStatusContacted: {transport.LeadStatusScheduled, transport.LeadStatusCancelled},
	transport.LeadStatusScheduled: {transport.LeadStatusCompleted, transport.LeadStatusContacted, transport.LeadStatusCancelled},
}

type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
	analyzer PhotoAnalyzer
	log      *logger.Logger
}

func New(repo *repository.Repository, eventBus events.Bus, analyzer PhotoAnalyzer, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		analyzer: analyzer,
		log:      log,
	}
}

// SubmitEstimate runs the full intake flow: photo analysis, item
// normalization, pricing, persistence and event publication.
func (s *Service) SubmitEstimate(ctx context.Context, req transport.SubmitEstimateRequest) (transport.EstimateResponse, error) {
	vision := s.analyzer.Analyze(ctx, req.PhotoURLs)
	items := estimator.NormalizeItems(vision.DetectedItems)

	estimateReq := estimator.EstimateRequest{
		Vision:          vision,
		UserServiceType: req.ServiceType,
		UserAccessType:  req.AccessType,
		UserCouchSize:   req.CouchSize,
		PhotoCount:      len(req.PhotoURLs),
		ItemTypes:       req.ItemTypes,
		ZipCode:         req.ZipCode,
		Notes:           req.Notes,
	}
	result := estimator.EstimatePrice(estimateReq, s.log)

	params := repository.CreateLeadParams{
		CustomerName:      sanitize.Text(req.CustomerName),
		CustomerPhone:     phone.NormalizeE164(req.CustomerPhone),
		CustomerEmail:     optionalText(req.CustomerEmail),
		ZipCode:           normalizeZip(req.ZipCode),
		Zone:              result.Zone,
		PhotoURLs:         req.PhotoURLs,
		ItemTypes:         sanitizeAll(req.ItemTypes),
		Notes:             optionalText(req.Notes),
		MinPrice:          result.MinPrice,
		MaxPrice:          result.MaxPrice,
		Confidence:        string(result.Confidence),
		Assumptions:       result.Assumptions,
		Method:            result.Method,
		ServiceType:       string(result.ServiceTypeUsed),
		ServiceTypeSource: string(result.ServiceTypeSource),
		AccessType:        string(result.AccessType),
		HeavyMaterialType: optionalText(result.HeavyMaterialType),
		AITotalVolume:     vision.VolumeCubicYards,
		Breakdown:         result.Breakdown,
		DetectedItems:     items,
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		s.log.DatabaseError("create lead", err)
		return transport.EstimateResponse{}, apperr.Wrap(apperr.KindInternal, "failed to save estimate", err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		CustomerName:  lead.CustomerName,
		CustomerPhone: lead.CustomerPhone,
		CustomerEmail: derefOr(lead.CustomerEmail, ""),
		ZipCode:       lead.ZipCode,
		Zone:          lead.Zone,
		ItemTypes:     lead.ItemTypes,
		Notes:         derefOr(lead.Notes, ""),
		PhotoCount:    len(lead.PhotoURLs),
		MinPrice:      lead.MinPrice,
		MaxPrice:      lead.MaxPrice,
		Confidence:    lead.Confidence,
		Assumptions:   lead.Assumptions,
	})

	s.log.Info("estimate submitted",
		"leadId", lead.ID,
		"zipCode", lead.ZipCode,
		"zone", lead.Zone,
		"minPrice", lead.MinPrice,
		"maxPrice", lead.MaxPrice,
		"method", lead.Method,
		"photoCount", len(lead.PhotoURLs),
	)

	return transport.EstimateResponse{
		LeadID:   lead.ID,
		Estimate: result,
		Items:    items,
		Session: transport.SessionSeed{
			AITotalVolume: vision.VolumeCubicYards,
		},
	}, nil
}

// Recalculate replays a single checklist transition against the session
// state supplied by the client and returns the adjusted price range.
func (s *Service) Recalculate(ctx context.Context, req transport.RecalculateRequest) (transport.RecalculateResponse, error) {
	if req.ItemIndex >= len(req.Items) {
		return transport.RecalculateResponse{}, apperr.BadRequest("itemIndex out of range")
	}

	session := estimator.NewSession(req.Items, req.Original, req.AITotalVolume, s.log)
	session.UserAdjusted = req.UserAdjusted

	var result estimator.RecalcResult
	switch req.Action {
	case transport.SessionActionToggle:
		result = session.Toggle(req.ItemIndex)
	case transport.SessionActionIncrement:
		result = session.Increment(req.ItemIndex)
	case transport.SessionActionDecrement:
		result = session.Decrement(req.ItemIndex)
	default:
		return transport.RecalculateResponse{}, apperr.BadRequest("unknown session action")
	}

	return transport.RecalculateResponse{
		Result: result,
		Items:  session.Items,
	}, nil
}

// List returns leads for the operations view. Contact details stay hidden
// until a lead is claimed.
func (s *Service) List(ctx context.Context, query transport.ListLeadsQuery) (transport.ListLeadsResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	leads, total, err := s.repo.List(ctx, repository.ListFilter{
		Status:   query.Status,
		ZipCode:  query.ZipCode,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		s.log.DatabaseError("list leads", err)
		return transport.ListLeadsResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, toLeadResponse(lead))
	}

	return transport.ListLeadsResponse{
		Leads:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Get returns the full detail view of one lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("get lead", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}

	return toLeadDetailResponse(lead), nil
}

// Claim atomically assigns a lead to a crew member. The winner gets the
// customer's contact details; a second claim returns a conflict.
func (s *Service) Claim(ctx context.Context, id uuid.UUID, claimedBy string) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.Claim(ctx, id, sanitize.Text(claimedBy))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return transport.LeadDetailResponse{}, apperr.Conflict("lead already claimed")
		default:
			s.log.DatabaseError("claim lead", err)
			return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, "failed to claim lead", err)
		}
	}

	s.eventBus.Publish(ctx, events.LeadClaimed{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		ClaimedBy: derefOr(lead.ClaimedBy, ""),
	})

	return toLeadDetailResponse(lead), nil
}

// UpdateStatus moves a lead along the pipeline, enforcing the transition
// graph.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus transport.LeadStatus) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("get lead", err)
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}

	oldStatus := transport.LeadStatus(current.Status)
	if oldStatus == newStatus {
		return toLeadResponse(current), nil
	}
	if !transitionAllowed(oldStatus, newStatus) {
		return transport.LeadResponse{}, apperr.Validation("invalid status transition from " + current.Status + " to " + string(newStatus))
	}

	lead, err := s.repo.UpdateStatus(ctx, id, current.Status, string(newStatus))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrStaleStatus):
			return transport.LeadResponse{}, apperr.Conflict("lead status changed concurrently")
		default:
			s.log.DatabaseError("update lead status", err)
			return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update lead status", err)
		}
	}

	s.eventBus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		OldStatus: current.Status,
		NewStatus: lead.Status,
	})

	return toLeadResponse(lead), nil
}

func transitionAllowed(from, to transport.LeadStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:           lead.ID,
		CustomerName: lead.CustomerName,
		ZipCode:      lead.ZipCode,
		Zone:         lead.Zone,
		ItemTypes:    lead.ItemTypes,
		Notes:        lead.Notes,
		PhotoCount:   len(lead.PhotoURLs),
		MinPrice:     lead.MinPrice,
		MaxPrice:     lead.MaxPrice,
		Confidence:   lead.Confidence,
		Method:       lead.Method,
		Status:       transport.LeadStatus(lead.Status),
		ClaimedBy:    lead.ClaimedBy,
		ClaimedAt:    lead.ClaimedAt,
		CreatedAt:    lead.CreatedAt,
	}

	// Contact details are only revealed once the lead is claimed.
	if lead.ClaimedBy != nil {
		phoneCopy := lead.CustomerPhone
		resp.CustomerPhone = &phoneCopy
		resp.CustomerEmail = lead.CustomerEmail
	}

	return resp
}

func toLeadDetailResponse(lead repository.Lead) transport.LeadDetailResponse {
	return transport.LeadDetailResponse{
		LeadResponse:  toLeadResponse(lead),
		PhotoURLs:     lead.PhotoURLs,
		Assumptions:   lead.Assumptions,
		Breakdown:     lead.Breakdown,
		DetectedItems: lead.DetectedItems,
		AITotalVolume: lead.AITotalVolume,
	}
}

func normalizeZip(zip string) string {
	trimmed := strings.TrimSpace(zip)
	if len(trimmed) > 5 {
		trimmed = trimmed[:5]
	}
	return trimmed
}

func sanitizeAll(values []string) []string {
	results := make([]string, 0, len(values))
	for _, value := range values {
		cleaned := sanitize.Text(value)
		if cleaned != "" {
			results = append(results, cleaned)
		}
	}
	return results
}

func optionalText(value string) *string {
	cleaned := sanitize.Text(value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func derefOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
