package mapper

import (
	"leadflow_backend/internal/enrichment/liprofile"
	"leadflow_backend/platform/sanitize"
)

// FromProfile maps a fetched public profile into a canonical contact.
// The current employment is the profile's first experience entry.
func FromProfile(p liprofile.Profile) Contact {
	contact := New()

	contact.FirstName = p.FirstName
	contact.LastName = p.LastName
	contact.Name = p.FullName
	contact.Title = sanitize.Text(p.Headline)
	contact.City = p.City
	contact.State = p.Region
	contact.Country = p.Country
	contact.LinkedInURL = p.URL

	if current, ok := p.Current(); ok {
		contact.Company = sanitize.Text(current.Company)
		if current.Title != "" {
			contact.Title = sanitize.Text(current.Title)
		}
	}

	return contact
}
