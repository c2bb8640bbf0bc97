// Package leads provides the lead management bounded context module.
package leads

import (
	"context"
	"fmt"
	"strings"

	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the leads repository and service, and subscribes
// timeline recording to the domain events other modules publish.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	subscribeTimeline(eventBus, repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Service exposes lead use cases to other modules, such as enrichment.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts leads routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// subscribeTimeline appends a timeline entry for every import and
// enrichment event. Timeline writes never fail the publishing operation.
func subscribeTimeline(bus events.Bus, repo *repository.Repository, log *logger.Logger) {
	record := func(ctx context.Context, params repository.CreateTimelineEventParams) error {
		if _, err := repo.CreateTimelineEvent(ctx, params); err != nil {
			log.Error("failed to record timeline event", "error", err, "leadId", params.LeadID, "eventType", params.EventType)
		}
		return nil
	}

	bus.Subscribe(events.LeadImported{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadImported)
		if !ok {
			return nil
		}
		title := fmt.Sprintf("Lead imported from %s", e.Source)
		if !e.Created {
			title = fmt.Sprintf("Lead updated from %s", e.Source)
		}
		metadata := map[string]any{"source": e.Source, "created": e.Created}
		if e.ActorID != uuid.Nil {
			metadata["userId"] = e.ActorID.String()
		}
		return record(ctx, repository.CreateTimelineEventParams{
			LeadID:    e.LeadID,
			EventType: "imported",
			Title:     title,
			Metadata:  metadata,
		})
	}))

	bus.Subscribe(events.LeadEnriched{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadEnriched)
		if !ok {
			return nil
		}
		return record(ctx, repository.CreateTimelineEventParams{
			LeadID:    e.LeadID,
			EventType: "enriched",
			Title:     fmt.Sprintf("Enriched via %s: %s", e.Provider, strings.Join(e.Fields, ", ")),
			Metadata:  map[string]any{"provider": e.Provider, "fields": e.Fields},
		})
	}))
}
