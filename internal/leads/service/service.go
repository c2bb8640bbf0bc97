// Package service implements lead management use cases: CRUD, contact
// import with non-destructive merging, and timeline reads.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"leadflow_backend/internal/enrichment/mapper"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"
	"leadflow_backend/platform/sanitize"
)

var ErrLeadNotFound = apperr.NotFound("lead not found")

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create stores a manually entered lead. The actor is the authenticated
// user performing the create; it is recorded on the published event.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actor uuid.UUID) (repository.Lead, error) {
	contact := mapper.New()
	contact.FirstName = req.FirstName
	contact.LastName = req.LastName
	contact.Email = req.Email
	contact.Phone = phone.NormalizeE164(req.Phone)
	contact.Title = req.Title
	contact.Company = req.Company
	contact.City = req.City
	contact.Country = req.Country
	contact.LinkedInURL = req.LinkedInURL
	contact = mapper.Merge(mapper.New(), contact)

	lead, err := s.repo.Create(ctx, contactToParams(contact, "manual"))
	if err != nil {
		return repository.Lead{}, err
	}

	s.publishImported(ctx, lead.ID, actor, "manual", true)
	return lead, nil
}

// ImportContact upserts a provider-sourced contact. An existing lead is
// located by email or profile URL and merged non-destructively; incoming
// values only fill or replace, never blank out stored ones. Returns the
// stored lead and whether it was newly created.
func (s *Service) ImportContact(ctx context.Context, contact mapper.Contact, source string) (repository.Lead, bool, error) {
	contact = mapper.Merge(mapper.New(), contact)

	existing, err := s.repo.FindByIdentity(ctx, contact.Email, contact.LinkedInURL)
	if errors.Is(err, repository.ErrNotFound) {
		lead, err := s.repo.Create(ctx, contactToParams(contact, source))
		if err != nil {
			return repository.Lead{}, false, err
		}
		s.publishImported(ctx, lead.ID, uuid.Nil, source, true)
		return lead, true, nil
	}
	if err != nil {
		return repository.Lead{}, false, err
	}

	merged := mapper.Merge(leadToContact(existing), contact)
	params := contactToParams(merged, existing.Source)
	lead, err := s.repo.Update(ctx, existing.ID, params)
	if err != nil {
		return repository.Lead{}, false, err
	}

	s.publishImported(ctx, lead.ID, uuid.Nil, source, false)
	return lead, false, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (s *Service) List(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (repository.Lead, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, ErrLeadNotFound
	}
	if err != nil {
		return repository.Lead{}, err
	}

	params := leadToParams(existing)
	applyUpdate(&params, req)

	lead, err := s.repo.Update(ctx, id, params)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, ErrLeadNotFound
	}
	return lead, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}

func (s *Service) Timeline(ctx context.Context, id uuid.UUID, limit int) ([]repository.TimelineEvent, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListTimelineEvents(ctx, id, limit)
}

func (s *Service) publishImported(ctx context.Context, leadID, actor uuid.UUID, source string, created bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.LeadImported{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		ActorID:   actor,
		Source:    source,
		Created:   created,
	})
}

func applyUpdate(params *repository.UpsertLeadParams, req transport.UpdateLeadRequest) {
	set := func(dst *string, src *string) {
		if src = sanitize.TextPtr(src); src != nil {
			*dst = *src
		}
	}
	set(&params.FirstName, req.FirstName)
	set(&params.LastName, req.LastName)
	set(&params.Email, req.Email)
	set(&params.Title, req.Title)
	set(&params.Company, req.Company)
	set(&params.City, req.City)
	set(&params.State, req.State)
	set(&params.Country, req.Country)
	set(&params.LinkedInURL, req.LinkedInURL)
	set(&params.Status, req.Status)
	if req.Phone != nil {
		params.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Score != nil {
		params.Score = *req.Score
	}
	if req.FirstName != nil || req.LastName != nil {
		params.Name = strings.TrimSpace(params.FirstName + " " + params.LastName)
	}
}
