// Package transport defines request and response DTOs for the enrichment API.
package transport

import (
	"leadflow_backend/internal/enrichment/apollo"
	leadstransport "leadflow_backend/internal/leads/transport"
)

// SearchRequest carries the bulk-search filter. Empty fields are omitted
// from the upstream request entirely.
type SearchRequest struct {
	PersonTitles          []string `json:"personTitles" validate:"omitempty,max=50,dive,max=100"`
	PersonSeniorities     []string `json:"personSeniorities" validate:"omitempty,max=20,dive,max=50"`
	PersonLocations       []string `json:"personLocations" validate:"omitempty,max=50,dive,max=100"`
	OrganizationNames     []string `json:"organizationNames" validate:"omitempty,max=50,dive,max=200"`
	OrganizationLocations []string `json:"organizationLocations" validate:"omitempty,max=50,dive,max=100"`
	IndustryTagIDs        []string `json:"industryTagIds" validate:"omitempty,max=50,dive,max=100"`
	EmployeeRanges        []string `json:"employeeRanges" validate:"omitempty,max=20,dive,max=50"`
	Page                  int      `json:"page" validate:"omitempty,min=1"`
	PerPage               int      `json:"perPage" validate:"omitempty,min=1,max=100"`
}

func (r SearchRequest) Filter() apollo.SearchFilter {
	return apollo.SearchFilter{
		PersonTitles:          r.PersonTitles,
		PersonSeniorities:     r.PersonSeniorities,
		PersonLocations:       r.PersonLocations,
		OrganizationNames:     r.OrganizationNames,
		OrganizationLocations: r.OrganizationLocations,
		IndustryTagIDs:        r.IndustryTagIDs,
		EmployeeRanges:        r.EmployeeRanges,
		Page:                  r.Page,
		PerPage:               r.PerPage,
	}
}

// SearchResponse reports the outcome of a bulk import run.
type SearchResponse struct {
	Imported   int                           `json:"imported"`
	Created    int                           `json:"created"`
	Updated    int                           `json:"updated"`
	Failed     int                           `json:"failed"`
	Pagination apollo.Pagination             `json:"pagination"`
	Leads      []leadstransport.LeadResponse `json:"leads"`
}

type EnrichEmailResponse struct {
	Found bool                         `json:"found"`
	Email string                       `json:"email,omitempty"`
	Lead  *leadstransport.LeadResponse `json:"lead,omitempty"`
}

type ProfileRequest struct {
	URL        string `json:"url" validate:"required,url"`
	SessionKey string `json:"sessionKey" validate:"omitempty,max=64"`
}

type ProfileResponse struct {
	Lead    leadstransport.LeadResponse `json:"lead"`
	Created bool                        `json:"created"`
}

// AsyncSearchRequest is a bulk search run in the background across up to
// MaxPages consecutive pages.
type AsyncSearchRequest struct {
	SearchRequest
	MaxPages int `json:"maxPages" validate:"omitempty,min=1,max=50"`
}

type AsyncJobResponse struct {
	TaskID string `json:"taskId"`
}
