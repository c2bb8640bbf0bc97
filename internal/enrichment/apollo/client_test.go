package apollo

import (
	"context"
	"encoding/json"
	"io"
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

func TestSearchOmitsEmptyFilterFields(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}
		if got := r.Header.Get("X-Api-Key"); got != "key-123" {
			t.Errorf("X-Api-Key = %q, want %q", got, "key-123")
		}
		if r.URL.Path != "/mixed_people/search" {
			t.Errorf("path = %q, want /mixed_people/search", r.URL.Path)
		}
		w.Write([]byte(`{"people":[],"pagination":{"page":2,"per_page":25,"total_entries":0,"total_pages":0}}`))
	}))
	defer server.Close()

	client := New(server.URL, "key-123", 0, testLogger())
	_, err := client.Search(context.Background(), SearchFilter{
		PersonTitles: []string{"CTO"},
		Page:         2,
		PerPage:      25,
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if _, ok := captured["person_titles"]; !ok {
		t.Error("person_titles missing from payload")
	}
	for _, key := range []string{
		"person_seniorities", "person_locations", "organization_names",
		"organization_locations", "organization_industry_tag_ids",
		"organization_num_employees_ranges",
	} {
		if _, ok := captured[key]; ok {
			t.Errorf("empty filter field %q was sent; empty fields must be omitted", key)
		}
	}
	if got := captured["page"].(float64); got != 2 {
		t.Errorf("page = %v, want 2", got)
	}
	if got := captured["per_page"].(float64); got != 25 {
		t.Errorf("per_page = %v, want 25", got)
	}
}

func TestSearchClampsPagination(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(`{"people":[],"pagination":{}}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", 0, testLogger())
	if _, err := client.Search(context.Background(), SearchFilter{Page: 0, PerPage: 500}); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if got := captured["page"].(float64); got != 1 {
		t.Errorf("page = %v, want 1 (default)", got)
	}
	if got := captured["per_page"].(float64); got != 100 {
		t.Errorf("per_page = %v, want 100 (cap)", got)
	}
}

func TestSearchMissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, "", 0, testLogger())
	_, err := client.Search(context.Background(), SearchFilter{})
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

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", 0, testLogger())
	_, err := client.Search(context.Background(), SearchFilter{})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("error kind = %v, want KindUpstream", apperr.GetKind(err))
	}
}

func TestSearchReturnsPeopleAndPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"people": [{"first_name":"Jane","organization":{"name":"Acme"}}],
			"pagination": {"page":1,"per_page":100,"total_entries":345,"total_pages":4}
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "key", 0, testLogger())
	result, err := client.Search(context.Background(), SearchFilter{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(result.People) != 1 {
		t.Fatalf("got %d people, want 1", len(result.People))
	}
	if result.People[0]["first_name"] != "Jane" {
		t.Errorf("first_name = %v, want Jane", result.People[0]["first_name"])
	}
	if result.Pagination.TotalEntries != 345 {
		t.Errorf("total_entries = %d, want 345", result.Pagination.TotalEntries)
	}
	if result.Pagination.TotalPages != 4 {
		t.Errorf("total_pages = %d, want 4", result.Pagination.TotalPages)
	}
}
