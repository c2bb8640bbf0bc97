package liprofile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

func TestExtractID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"https://www.linkedin.com/in/jane-doe/", "jane-doe"},
		{"https://linkedin.com/in/jane-doe?utm_source=share", "jane-doe"},
		{"https://www.linkedin.com/pub/john-smith", "john-smith"},
		{"https://www.linkedin.com/pub/john-smith/1a/2b3", "john-smith"},
		{"http://linkedin.com/in/j%C3%B8rgen", "j%C3%B8rgen"},
		{"https://www.linkedin.com/company/acme", ""},
		{"https://example.com/in/jane", ""},
		{"not a url", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ExtractID(tc.url); got != tc.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestFetchRejectsNonProfileURLWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := New(server.URL, "key", testLogger())
	_, err := client.Fetch(context.Background(), "https://example.com/profile/jane", "")
	if err == nil {
		t.Fatal("expected error for unrecognized URL")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", apperr.GetKind(err))
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d calls, want 0", calls.Load())
	}
}

func TestFetchMapsCanonicalFieldNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://www.linkedin.com/in/jane-doe" {
			t.Errorf("url param = %q", got)
		}
		w.Write([]byte(`{
			"firstName": "Jane",
			"lastName": "Doe",
			"headline": "CTO at Acme",
			"location": "Berlin, Berlin, Germany",
			"country": "Germany",
			"experiences": [
				{"title": "CTO", "companyName": "Acme", "startDate": "2020-01"}
			],
			"educations": [
				{"schoolName": "TU Berlin", "degreeName": "MSc", "fieldOfStudy": "CS"}
			],
			"skills": ["Go", {"name": "Postgres"}]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", testLogger())
	profile, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/jane-doe", "")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if profile.ID != "jane-doe" {
		t.Errorf("ID = %q, want jane-doe", profile.ID)
	}
	if profile.FirstName != "Jane" || profile.LastName != "Doe" {
		t.Errorf("name = %q %q, want Jane Doe", profile.FirstName, profile.LastName)
	}
	if profile.FullName != "Jane Doe" {
		t.Errorf("FullName = %q, want Jane Doe (derived)", profile.FullName)
	}
	if profile.Headline != "CTO at Acme" {
		t.Errorf("Headline = %q", profile.Headline)
	}
	if profile.City != "Berlin" || profile.Country != "Germany" {
		t.Errorf("location = %q %q, want Berlin Germany", profile.City, profile.Country)
	}
	current, ok := profile.Current()
	if !ok || current.Company != "Acme" || current.Title != "CTO" {
		t.Errorf("Current() = %+v %v, want CTO at Acme", current, ok)
	}
	if len(profile.Education) != 1 || profile.Education[0].School != "TU Berlin" {
		t.Errorf("Education = %+v", profile.Education)
	}
	if len(profile.Skills) != 2 || profile.Skills[0] != "Go" || profile.Skills[1] != "Postgres" {
		t.Errorf("Skills = %v, want [Go Postgres]", profile.Skills)
	}
}

func TestFetchMapsAlternateFieldNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"full_name": "John Q Smith",
			"sub_title": "Engineer",
			"geo": {"city": "Austin", "country": "United States"},
			"positions": [
				{"position": "Engineer", "company": "Widgets Inc"}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", testLogger())
	profile, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/john-smith", "")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if profile.FirstName != "John" || profile.LastName != "Q Smith" {
		t.Errorf("split name = %q %q, want John / Q Smith", profile.FirstName, profile.LastName)
	}
	if profile.Headline != "Engineer" {
		t.Errorf("Headline via sub_title = %q", profile.Headline)
	}
	if profile.City != "Austin" {
		t.Errorf("City via geo = %q, want Austin", profile.City)
	}
	if profile.Country != "United States" {
		t.Errorf("Country via geo = %q, want United States", profile.Country)
	}
	current, ok := profile.Current()
	if !ok || current.Company != "Widgets Inc" {
		t.Errorf("Current() via positions = %+v %v", current, ok)
	}
}

func TestFetchForwardsSessionCookie(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"firstName": "Jane"}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", testLogger())
	if _, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/jane", "secret-artifact"); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotCookie != "li_at=secret-artifact" {
		t.Errorf("Cookie header = %q, want li_at=secret-artifact", gotCookie)
	}

	gotCookie = "unset"
	if _, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/jane", ""); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotCookie != "" {
		t.Errorf("Cookie header = %q, want none without a session", gotCookie)
	}
}

func TestFetchMissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := New(server.URL, "", testLogger())
	_, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/jane", "")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("error kind = %v, want KindInternal", apperr.GetKind(err))
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d calls, want 0", calls.Load())
	}
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "key", testLogger())
	_, err := client.Fetch(context.Background(), "https://www.linkedin.com/in/jane", "")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("error kind = %v, want KindUpstream", apperr.GetKind(err))
	}
}
