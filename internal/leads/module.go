// Package leads provides the lead intake and management bounded context.
// This file defines the module that encapsulates all leads setup and route
// registration.
package leads

import (
	apphttp "junkportal_backend/internal/http"
	"junkportal_backend/internal/leads/handler"
	"junkportal_backend/internal/leads/repository"
	"junkportal_backend/internal/leads/service"
	"junkportal_backend/platform/events"
	"junkportal_backend/platform/logger"
	"junkportal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the leads module with all its
// dependencies.
func NewModule(
	pool *pgxpool.Pool,
	eventBus events.Bus,
	analyzer service.PhotoAnalyzer,
	limiter handler.SubmissionLimiter,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, analyzer, log)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc, limiter, val, log),
		service:       svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the lead service for integration points.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	estimates := ctx.Public.Group("/estimates")
	estimates.Use(ctx.SubmitRateLimiter.RateLimit())
	m.publicHandler.RegisterRoutes(estimates)

	leadsGroup := ctx.V1.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
