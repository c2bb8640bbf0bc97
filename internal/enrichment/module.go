// Package enrichment provides the contact enrichment bounded context:
// bulk people search, email discovery, and profile lookup.
package enrichment

import (
	"leadflow_backend/internal/enrichment/apollo"
	"leadflow_backend/internal/enrichment/enrow"
	"leadflow_backend/internal/enrichment/handler"
	"leadflow_backend/internal/enrichment/liprofile"
	"leadflow_backend/internal/enrichment/service"
	apphttp "leadflow_backend/internal/http"
	leadsservice "leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/linkedin/session"
	"leadflow_backend/internal/scheduler"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

// Config is the slice of application configuration the module needs.
type Config interface {
	config.ApolloConfig
	config.EnrowConfig
	config.ProfileAPIConfig
}

// Module is the enrichment bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the three provider clients and the orchestration
// service. jobs may be nil when no job queue is configured.
func NewModule(cfg Config, sessions *session.Manager, leads *leadsservice.Service, jobs *scheduler.Client, val *validator.Validator, log *logger.Logger) *Module {
	search := apollo.New(cfg.GetApolloBaseURL(), cfg.GetApolloAPIKey(), cfg.GetApolloRatePerSecond(), log)
	email := enrow.New(cfg.GetEnrowBaseURL(), cfg.GetEnrowAPIKey(), cfg.GetEnrowPollInterval(), cfg.GetEnrowPollAttempts(), log)
	profiles := liprofile.New(cfg.GetProfileAPIBaseURL(), cfg.GetProfileAPIKey(), log)

	svc := service.New(search, email, profiles, sessions, leads, log)

	return &Module{
		handler: handler.New(svc, jobs, val),
		service: svc,
	}
}

// Service exposes enrichment use cases to the background worker.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string { return "enrichment" }

// RegisterRoutes mounts enrichment routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/enrichment")
	m.handler.RegisterRoutes(group)
}
