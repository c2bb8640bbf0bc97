// Package mapper converts raw provider payloads into the canonical contact
// record and applies the non-destructive merge policy. All three provider
// clients feed through this package; it is the only place that knows how
// provider schemas relate to the canonical shape.
package mapper

import (
	"strconv"
	"strings"

	"leadflow_backend/platform/phone"
	"leadflow_backend/platform/sanitize"
)

// Contact is the canonical contact record all provider outputs map into.
// Every field is optional and set independently: a provider supplying only
// an email must not disturb previously known employment data.
type Contact struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	Title           string `json:"title,omitempty"`
	Company         string `json:"company,omitempty"`
	CompanyDomain   string `json:"companyDomain,omitempty"`
	CompanyWebsite  string `json:"companyWebsite,omitempty"`
	CompanySize     string `json:"companySize,omitempty"`
	Industry        string `json:"industry,omitempty"`
	FoundedYear     string `json:"foundedYear,omitempty"`
	CompanyPhone    string `json:"companyPhone,omitempty"`
	CompanyLinkedIn string `json:"companyLinkedin,omitempty"`

	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`

	LinkedInURL string `json:"linkedinUrl,omitempty"`
	TwitterURL  string `json:"twitterUrl,omitempty"`
	FacebookURL string `json:"facebookUrl,omitempty"`

	Status string `json:"status"`
	Score  int    `json:"score"`
}

// DefaultStatus is assigned to every newly created contact.
const DefaultStatus = "new"

// New returns an empty canonical contact with creation defaults applied.
func New() Contact {
	return Contact{Status: DefaultStatus, Score: 0}
}

// Merge overlays incoming onto existing, field by field. An incoming field
// wins only when it is non-empty; a populated field is never replaced by an
// empty one. Among non-empty values the most recently applied source wins.
func Merge(existing, incoming Contact) Contact {
	out := existing
	if out.Status == "" {
		out.Status = DefaultStatus
	}

	fill(&out.FirstName, incoming.FirstName)
	fill(&out.LastName, incoming.LastName)
	fill(&out.Name, incoming.Name)
	fill(&out.Email, incoming.Email)
	fill(&out.Phone, incoming.Phone)
	fill(&out.Title, incoming.Title)
	fill(&out.Company, incoming.Company)
	fill(&out.CompanyDomain, incoming.CompanyDomain)
	fill(&out.CompanyWebsite, incoming.CompanyWebsite)
	fill(&out.CompanySize, incoming.CompanySize)
	fill(&out.Industry, incoming.Industry)
	fill(&out.FoundedYear, incoming.FoundedYear)
	fill(&out.CompanyPhone, incoming.CompanyPhone)
	fill(&out.CompanyLinkedIn, incoming.CompanyLinkedIn)
	fill(&out.City, incoming.City)
	fill(&out.State, incoming.State)
	fill(&out.Country, incoming.Country)
	fill(&out.LinkedInURL, incoming.LinkedInURL)
	fill(&out.TwitterURL, incoming.TwitterURL)
	fill(&out.FacebookURL, incoming.FacebookURL)

	// Name is derived when the parts are known but the full name is not.
	if out.Name == "" {
		out.Name = strings.TrimSpace(out.FirstName + " " + out.LastName)
	}

	return out
}

// fill overwrites dst only when src carries a value.
func fill(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

// searchFieldPaths maps each canonical field to the ordered list of paths
// tried against a raw bulk-search record. Earlier paths win. A path segment
// separated by '.' descends into a nested object.
var searchFieldPaths = map[string][]string{
	"firstName":       {"first_name"},
	"lastName":        {"last_name"},
	"name":            {"name"},
	"email":           {"email"},
	"phone":           {"phone_number", "sanitized_phone", "organization.phone"},
	"title":           {"title", "headline"},
	"company":         {"organization.name", "organization_name", "company"},
	"companyDomain":   {"organization.primary_domain", "domain"},
	"companyWebsite":  {"organization.website_url", "website_url"},
	"companySize":     {"organization.estimated_num_employees"},
	"industry":        {"organization.industry", "industry"},
	"foundedYear":     {"organization.founded_year"},
	"companyPhone":    {"organization.phone", "organization.sanitized_phone"},
	"companyLinkedin": {"organization.linkedin_url"},
	"city":            {"city", "organization.city"},
	"state":           {"state", "organization.state"},
	"country":         {"country", "organization.country"},
	"linkedinUrl":     {"linkedin_url"},
	"twitterUrl":      {"twitter_url"},
	"facebookUrl":     {"facebook_url"},
}

// FromSearchRecord maps one raw bulk-search person record into a canonical
// contact. Missing fields stay empty; nothing here is fatal.
func FromSearchRecord(record map[string]any) Contact {
	contact := New()

	get := func(field string) string {
		return lookupString(record, searchFieldPaths[field])
	}

	contact.FirstName = get("firstName")
	contact.LastName = get("lastName")
	contact.Name = get("name")
	contact.Email = get("email")
	contact.Phone = phone.NormalizeE164(get("phone"))
	contact.Title = sanitize.Text(get("title"))
	contact.Company = sanitize.Text(get("company"))
	contact.CompanyDomain = get("companyDomain")
	contact.CompanyWebsite = get("companyWebsite")
	contact.CompanySize = get("companySize")
	contact.Industry = sanitize.Text(get("industry"))
	contact.FoundedYear = get("foundedYear")
	contact.CompanyPhone = phone.NormalizeE164(get("companyPhone"))
	contact.CompanyLinkedIn = get("companyLinkedin")
	contact.City = get("city")
	contact.State = get("state")
	contact.Country = get("country")
	contact.LinkedInURL = get("linkedinUrl")
	contact.TwitterURL = get("twitterUrl")
	contact.FacebookURL = get("facebookUrl")

	if contact.Name == "" {
		contact.Name = strings.TrimSpace(contact.FirstName + " " + contact.LastName)
	}

	return contact
}

// lookupString tries each path in order and returns the first non-empty
// string-convertible value found.
func lookupString(data map[string]any, paths []string) string {
	for _, path := range paths {
		if value := valueAtPath(data, path); value != "" {
			return value
		}
	}
	return ""
}

func valueAtPath(data map[string]any, path string) string {
	current := any(data)
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = obj[segment]
		if !ok || current == nil {
			return ""
		}
	}
	return stringify(current)
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		// JSON numbers decode as float64; sizes and years are whole numbers.
		return formatWhole(typed)
	case int:
		return formatWhole(float64(typed))
	default:
		return ""
	}
}

func formatWhole(f float64) string {
	if f != float64(int64(f)) {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}
