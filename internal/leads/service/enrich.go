package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"leadflow_backend/internal/enrichment/mapper"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
)

// ApplyEnrichment merges provider-sourced data into an existing lead.
// The merge is non-destructive: incoming values only fill or replace,
// never blank out stored ones. Returns the updated lead and the names of
// the fields that actually changed.
func (s *Service) ApplyEnrichment(ctx context.Context, id uuid.UUID, incoming mapper.Contact, provider string) (repository.Lead, []string, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, nil, ErrLeadNotFound
	}
	if err != nil {
		return repository.Lead{}, nil, err
	}

	merged := mapper.Merge(leadToContact(existing), incoming)
	params := contactToParams(merged, existing.Source)
	prospective := applyParams(existing, params)
	changed := diffFields(existing, prospective)

	var lead repository.Lead
	switch {
	case len(changed) == 0 && params.Status == existing.Status && params.Score == existing.Score:
		// Nothing to write; the merge produced the stored row.
		return existing, nil, nil
	case emailOnlyChange(changed, existing, params):
		if err := s.repo.SetEmail(ctx, id, params.Email); err != nil {
			return repository.Lead{}, nil, err
		}
		lead = prospective
	default:
		lead, err = s.repo.Update(ctx, id, params)
		if err != nil {
			return repository.Lead{}, nil, err
		}
	}

	if len(changed) > 0 && s.bus != nil {
		s.bus.Publish(ctx, events.LeadEnriched{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			Provider:  provider,
			Fields:    changed,
		})
	}

	return lead, changed, nil
}

// emailOnlyChange reports whether the prospective write touches nothing
// but the email column, which the repository can apply narrowly.
func emailOnlyChange(changed []string, existing repository.Lead, params repository.UpsertLeadParams) bool {
	return len(changed) == 1 && changed[0] == "email" &&
		params.Status == existing.Status && params.Score == existing.Score
}

func diffFields(before, after repository.Lead) []string {
	changed := []string{}
	cmp := func(name, a, b string) {
		if a != b {
			changed = append(changed, name)
		}
	}
	cmp("firstName", before.FirstName, after.FirstName)
	cmp("lastName", before.LastName, after.LastName)
	cmp("name", before.Name, after.Name)
	cmp("email", before.Email, after.Email)
	cmp("phone", before.Phone, after.Phone)
	cmp("title", before.Title, after.Title)
	cmp("company", before.Company, after.Company)
	cmp("companyDomain", before.CompanyDomain, after.CompanyDomain)
	cmp("companyWebsite", before.CompanyWebsite, after.CompanyWebsite)
	cmp("companySize", before.CompanySize, after.CompanySize)
	cmp("industry", before.Industry, after.Industry)
	cmp("foundedYear", before.FoundedYear, after.FoundedYear)
	cmp("companyPhone", before.CompanyPhone, after.CompanyPhone)
	cmp("companyLinkedin", before.CompanyLinkedIn, after.CompanyLinkedIn)
	cmp("city", before.City, after.City)
	cmp("state", before.State, after.State)
	cmp("country", before.Country, after.Country)
	cmp("linkedinUrl", before.LinkedInURL, after.LinkedInURL)
	cmp("twitterUrl", before.TwitterURL, after.TwitterURL)
	cmp("facebookUrl", before.FacebookURL, after.FacebookURL)
	return changed
}
