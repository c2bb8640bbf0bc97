package service

import (
	"testing"

	"leadflow_backend/internal/enrichment/mapper"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
)

func TestDiffFieldsNamesChangedColumns(t *testing.T) {
	before := repository.Lead{FirstName: "Jane", Email: ""}
	after := repository.Lead{FirstName: "Jane", Email: "jane@acme.com", Title: "CTO"}

	changed := diffFields(before, after)

	if len(changed) != 2 {
		t.Fatalf("changed = %v, want exactly [email title]", changed)
	}
	want := map[string]bool{"email": true, "title": true}
	for _, field := range changed {
		if !want[field] {
			t.Errorf("unexpected changed field %q", field)
		}
	}
}

func TestDiffFieldsEmptyWhenIdentical(t *testing.T) {
	lead := repository.Lead{FirstName: "Jane", Company: "Acme"}
	if changed := diffFields(lead, lead); len(changed) != 0 {
		t.Errorf("changed = %v, want none", changed)
	}
}

func TestContactRoundTripPreservesAllFields(t *testing.T) {
	contact := mapper.Contact{
		FirstName: "Jane", LastName: "Doe", Name: "Jane Doe",
		Email: "jane@acme.com", Phone: "+15551234567", Title: "CTO",
		Company: "Acme", CompanyDomain: "acme.com", CompanySize: "50",
		Industry: "software", FoundedYear: "1999",
		City: "Austin", State: "TX", Country: "US",
		LinkedInURL: "https://www.linkedin.com/in/jane-doe",
		Status:      "qualified", Score: 30,
	}

	params := contactToParams(contact, "bulk_search")
	lead := repository.Lead{
		FirstName: params.FirstName, LastName: params.LastName, Name: params.Name,
		Email: params.Email, Phone: params.Phone, Title: params.Title,
		Company: params.Company, CompanyDomain: params.CompanyDomain,
		CompanySize: params.CompanySize, Industry: params.Industry,
		FoundedYear: params.FoundedYear, City: params.City, State: params.State,
		Country: params.Country, LinkedInURL: params.LinkedInURL,
		Status: params.Status, Score: params.Score, Source: params.Source,
	}

	if got := leadToContact(lead); got != contact {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, contact)
	}
	if params.Source != "bulk_search" {
		t.Errorf("Source = %q, want bulk_search", params.Source)
	}
}

func TestApplyParamsRoundTripIsIdentity(t *testing.T) {
	lead := repository.Lead{
		FirstName: "Jane", LastName: "Doe", Name: "Jane Doe",
		Email: "jane@acme.com", Company: "Acme", Status: "qualified", Score: 30,
		Source: "manual",
	}

	if got := applyParams(lead, leadToParams(lead)); got != lead {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, lead)
	}
}

func TestEmailOnlyChangeDetection(t *testing.T) {
	existing := repository.Lead{
		FirstName: "Jane", Email: "", Status: "new", Score: 0,
	}
	params := leadToParams(existing)
	params.Email = "jane@acme.com"

	changed := diffFields(existing, applyParams(existing, params))
	if !emailOnlyChange(changed, existing, params) {
		t.Fatalf("expected email-only change, diff = %v", changed)
	}

	params.Title = "CTO"
	changed = diffFields(existing, applyParams(existing, params))
	if emailOnlyChange(changed, existing, params) {
		t.Errorf("title change must not qualify as email-only, diff = %v", changed)
	}

	params = leadToParams(existing)
	params.Email = "jane@acme.com"
	params.Score = 10
	changed = diffFields(existing, applyParams(existing, params))
	if emailOnlyChange(changed, existing, params) {
		t.Error("score change must not qualify as email-only")
	}
}

func TestApplyUpdateOnlyTouchesProvidedFields(t *testing.T) {
	params := repository.UpsertLeadParams{
		FirstName: "Jane", LastName: "Doe", Name: "Jane Doe",
		Email: "jane@acme.com", Status: "new", Score: 10,
	}

	title := "VP Engineering"
	score := 55
	applyUpdate(&params, transport.UpdateLeadRequest{Title: &title, Score: &score})

	if params.Title != "VP Engineering" {
		t.Errorf("Title = %q, want VP Engineering", params.Title)
	}
	if params.Score != 55 {
		t.Errorf("Score = %d, want 55", params.Score)
	}
	if params.Email != "jane@acme.com" || params.FirstName != "Jane" {
		t.Error("untouched fields changed")
	}
}

func TestApplyUpdateSanitizesProvidedFields(t *testing.T) {
	params := repository.UpsertLeadParams{Title: "CTO"}

	title := "<script>alert(1)</script>VP Engineering"
	applyUpdate(&params, transport.UpdateLeadRequest{Title: &title})

	if params.Title != "alert(1)VP Engineering" {
		t.Errorf("Title = %q, want markup stripped", params.Title)
	}
}

func TestApplyUpdateRederivesNameFromParts(t *testing.T) {
	params := repository.UpsertLeadParams{FirstName: "Jane", LastName: "Doe", Name: "Jane Doe"}

	last := "Smith"
	applyUpdate(&params, transport.UpdateLeadRequest{LastName: &last})

	if params.Name != "Jane Smith" {
		t.Errorf("Name = %q, want Jane Smith", params.Name)
	}
}
