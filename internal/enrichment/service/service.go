// Package service orchestrates the enrichment providers: bulk contact
// search, asynchronous email discovery, and profile lookup.
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"leadflow_backend/internal/enrichment/apollo"
	"leadflow_backend/internal/enrichment/enrow"
	"leadflow_backend/internal/enrichment/liprofile"
	"leadflow_backend/internal/enrichment/mapper"
	"leadflow_backend/internal/enrichment/transport"
	"leadflow_backend/internal/leads/repository"
	leadsservice "leadflow_backend/internal/leads/service"
	leadstransport "leadflow_backend/internal/leads/transport"
	"leadflow_backend/internal/linkedin/session"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

// importConcurrency bounds parallel upserts during a bulk import so a
// 100-record page does not monopolize the connection pool.
const importConcurrency = 4

type Service struct {
	search   *apollo.Client
	email    *enrow.Client
	profiles *liprofile.Client
	sessions *session.Manager
	leads    *leadsservice.Service
	log      *logger.Logger
}

func New(search *apollo.Client, email *enrow.Client, profiles *liprofile.Client, sessions *session.Manager, leads *leadsservice.Service, log *logger.Logger) *Service {
	return &Service{
		search:   search,
		email:    email,
		profiles: profiles,
		sessions: sessions,
		leads:    leads,
		log:      log,
	}
}

// BulkImport runs one page of a filtered people search and upserts every
// returned record as a lead. Individual upsert failures are counted, not
// fatal; a page is worth importing even when a few rows are malformed.
func (s *Service) BulkImport(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	result, err := s.search.Search(ctx, req.Filter())
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		created int
		failed  int
		leads   []repository.Lead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, record := range result.People {
		g.Go(func() error {
			contact := mapper.FromSearchRecord(record)
			lead, isNew, err := s.leads.ImportContact(gctx, contact, "bulk_search")

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.log.Error("bulk import upsert failed", "error", err)
				return nil
			}
			if isNew {
				created++
			}
			leads = append(leads, lead)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	imported := len(leads)
	s.log.Info("bulk import completed",
		"imported", imported, "created", created, "failed", failed,
		"page", result.Pagination.Page, "totalEntries", result.Pagination.TotalEntries)

	return &transport.SearchResponse{
		Imported:   imported,
		Created:    created,
		Updated:    imported - created,
		Failed:     failed,
		Pagination: result.Pagination,
		Leads:      leadstransport.FromLeads(leads),
	}, nil
}

// EnrichEmail resolves an email address for a stored lead through the
// asynchronous discovery provider. An exhausted or failed discovery run
// is a no-find, not an error.
func (s *Service) EnrichEmail(ctx context.Context, leadID uuid.UUID) (*transport.EnrichEmailResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.LinkedInURL == "" {
		return nil, apperr.Validation("lead has no profile url to enrich from")
	}

	email, err := s.email.Enrich(ctx, lead.LinkedInURL)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return &transport.EnrichEmailResponse{Found: false}, nil
	}

	updated, _, err := s.leads.ApplyEnrichment(ctx, leadID, mapper.Contact{Email: email}, "enrow")
	if err != nil {
		return nil, err
	}

	resp := leadstransport.FromLead(updated)
	return &transport.EnrichEmailResponse{Found: true, Email: email, Lead: &resp}, nil
}

// FetchProfile looks a profile up by URL and upserts it as a lead. It
// requires a connected automation session; the lookup is refused rather
// than attempted with stale credentials.
func (s *Service) FetchProfile(ctx context.Context, req transport.ProfileRequest) (*transport.ProfileResponse, error) {
	key := req.SessionKey
	if key == "" {
		key = session.DefaultKey
	}

	status, err := s.sessions.Status(ctx, key)
	if err != nil {
		return nil, err
	}
	if !status.Connected {
		return nil, apperr.Unauthorized("linkedin session required")
	}
	cookies, err := s.sessions.CookiesForUse(ctx, key)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Fetch(ctx, req.URL, session.CookieValue(cookies, session.LiAtCookie))
	if err != nil {
		return nil, err
	}

	contact := mapper.FromProfile(*profile)
	lead, isNew, err := s.leads.ImportContact(ctx, contact, "profile_lookup")
	if err != nil {
		return nil, err
	}

	return &transport.ProfileResponse{Lead: leadstransport.FromLead(lead), Created: isNew}, nil
}
