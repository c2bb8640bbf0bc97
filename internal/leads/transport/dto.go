// Package transport defines request and response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"leadflow_backend/internal/leads/repository"
)

type CreateLeadRequest struct {
	FirstName   string `json:"firstName" validate:"omitempty,max=100"`
	LastName    string `json:"lastName" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	Company     string `json:"company" validate:"omitempty,max=200"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Country     string `json:"country" validate:"omitempty,max=100"`
	LinkedInURL string `json:"linkedinUrl" validate:"omitempty,url"`
}

type UpdateLeadRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Company     *string `json:"company" validate:"omitempty,max=200"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	State       *string `json:"state" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	LinkedInURL *string `json:"linkedinUrl" validate:"omitempty,url"`
	Status      *string `json:"status" validate:"omitempty,oneof=new contacted qualified unqualified customer"`
	Score       *int    `json:"score" validate:"omitempty,min=0,max=100"`
}

type LeadResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Title           string    `json:"title,omitempty"`
	Company         string    `json:"company,omitempty"`
	CompanyDomain   string    `json:"companyDomain,omitempty"`
	CompanyWebsite  string    `json:"companyWebsite,omitempty"`
	CompanySize     string    `json:"companySize,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	FoundedYear     string    `json:"foundedYear,omitempty"`
	CompanyPhone    string    `json:"companyPhone,omitempty"`
	CompanyLinkedIn string    `json:"companyLinkedin,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	Country         string    `json:"country,omitempty"`
	LinkedInURL     string    `json:"linkedinUrl,omitempty"`
	TwitterURL      string    `json:"twitterUrl,omitempty"`
	FacebookURL     string    `json:"facebookUrl,omitempty"`
	Status          string    `json:"status"`
	Score           int       `json:"score"`
	Source          string    `json:"source,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ListLeadsResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type TimelineEventResponse struct {
	ID        uuid.UUID      `json:"id"`
	EventType string         `json:"eventType"`
	Title     string         `json:"title"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func FromLead(l repository.Lead) LeadResponse {
	return LeadResponse{
		ID:              l.ID,
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
		Source:          l.Source,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromLeads(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, FromLead(l))
	}
	return out
}

func FromTimelineEvent(e repository.TimelineEvent) TimelineEventResponse {
	return TimelineEventResponse{
		ID:        e.ID,
		EventType: e.EventType,
		Title:     e.Title,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
}
