package service

import (
	"leadflow_backend/internal/enrichment/mapper"
	"leadflow_backend/internal/leads/repository"
)

func contactToParams(c mapper.Contact, source string) repository.UpsertLeadParams {
	return repository.UpsertLeadParams{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Title:           c.Title,
		Company:         c.Company,
		CompanyDomain:   c.CompanyDomain,
		CompanyWebsite:  c.CompanyWebsite,
		CompanySize:     c.CompanySize,
		Industry:        c.Industry,
		FoundedYear:     c.FoundedYear,
		CompanyPhone:    c.CompanyPhone,
		CompanyLinkedIn: c.CompanyLinkedIn,
		City:            c.City,
		State:           c.State,
		Country:         c.Country,
		LinkedInURL:     c.LinkedInURL,
		TwitterURL:      c.TwitterURL,
		FacebookURL:     c.FacebookURL,
		Status:          c.Status,
		Score:           c.Score,
		Source:          source,
	}
}

func leadToContact(l repository.Lead) mapper.Contact {
	return mapper.Contact{
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Name:            l.Name,
		Email:           l.Email,
		Phone:           l.Phone,
		Title:           l.Title,
		Company:         l.Company,
		CompanyDomain:   l.CompanyDomain,
		CompanyWebsite:  l.CompanyWebsite,
		CompanySize:     l.CompanySize,
		Industry:        l.Industry,
		FoundedYear:     l.FoundedYear,
		CompanyPhone:    l.CompanyPhone,
		CompanyLinkedIn: l.CompanyLinkedIn,
		City:            l.City,
		State:           l.State,
		Country:         l.Country,
		LinkedInURL:     l.LinkedInURL,
		TwitterURL:      l.TwitterURL,
		FacebookURL:     l.FacebookURL,
		Status:          l.Status,
		Score:           l.Score,
	}
}

func leadToParams(l repository.Lead) repository.UpsertLeadParams {
	params := contactToParams(leadToContact(l), l.Source)
	return params
}

// applyParams returns a copy of the lead with the upsert params applied,
// used to diff a prospective write against the stored row.
func applyParams(l repository.Lead, p repository.UpsertLeadParams) repository.Lead {
	l.FirstName = p.FirstName
	l.LastName = p.LastName
	l.Name = p.Name
	l.Email = p.Email
	l.Phone = p.Phone
	l.Title = p.Title
	l.Company = p.Company
	l.CompanyDomain = p.CompanyDomain
	l.CompanyWebsite = p.CompanyWebsite
	l.CompanySize = p.CompanySize
	l.Industry = p.Industry
	l.FoundedYear = p.FoundedYear
	l.CompanyPhone = p.CompanyPhone
	l.CompanyLinkedIn = p.CompanyLinkedIn
	l.City = p.City
	l.State = p.State
	l.Country = p.Country
	l.LinkedInURL = p.LinkedInURL
	l.TwitterURL = p.TwitterURL
	l.FacebookURL = p.FacebookURL
	l.Status = p.Status
	l.Score = p.Score
	return l
}
