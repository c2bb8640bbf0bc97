// Package linkedin provides the LinkedIn automation session bounded
// context: interactive login, session persistence, and status reporting.
package linkedin

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/linkedin/handler"
	"leadflow_backend/internal/linkedin/repository"
	"leadflow_backend/internal/linkedin/session"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the LinkedIn bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	manager *session.Manager
}

// NewModule wires the session manager with a Postgres store and a real
// Chrome launcher.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LinkedInConfig, log *logger.Logger) *Module {
	store := repository.New(pool)
	launcher := session.NewChromeLauncher(cfg.GetLinkedInHeadless())
	manager := session.NewManager(store, launcher, eventBus, log, cfg.GetLinkedInLoginWait(), cfg.GetLinkedInSessionTTL())

	return &Module{
		handler: handler.New(manager, val),
		manager: manager,
	}
}

// SessionManager exposes the manager for modules that need an
// authenticated session, such as profile enrichment.
func (m *Module) SessionManager() *session.Manager {
	return m.manager
}

func (m *Module) Name() string { return "linkedin" }

// RegisterRoutes mounts session routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/linkedin")
	m.handler.RegisterRoutes(group)
}
