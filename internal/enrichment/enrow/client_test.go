package enrow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

// pollServer answers the submit POST with a fixed job ID and delegates
// poll GETs to the given function, counting them.
func pollServer(t *testing.T, polls *atomic.Int32, onPoll func(attempt int32) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email/find/bulk" {
			t.Errorf("path = %q, want /email/find/bulk", r.URL.Path)
		}
		switch r.Method {
		case http.MethodPost:
			var req submitRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("submit body invalid: %v", err)
			}
			if len(req.Datas) != 1 || req.Datas[0].ProfileReference == "" {
				t.Errorf("submit datas = %+v, want one entry with a profile reference", req.Datas)
			}
			w.Write([]byte(`{"enrichment_id":"job-1","status":"PENDING"}`))
		case http.MethodGet:
			if got := r.URL.Query().Get("id"); got != "job-1" {
				t.Errorf("poll id = %q, want job-1", got)
			}
			attempt := polls.Add(1)
			fmt.Fprint(w, onPoll(attempt))
		}
	}))
}

func TestEnrichExhaustsPollBudget(t *testing.T) {
	var polls atomic.Int32
	server := pollServer(t, &polls, func(int32) string {
		return `{"status":"RUNNING"}`
	})
	defer server.Close()

	client := New(server.URL, "key", time.Millisecond, 5, testLogger())
	email, err := client.Enrich(context.Background(), "https://www.linkedin.com/in/jane")
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if email != "" {
		t.Errorf("email = %q, want empty on exhausted budget", email)
	}
	if polls.Load() != 5 {
		t.Errorf("polled %d times, want exactly 5", polls.Load())
	}
}

func TestEnrichShortCircuitsOnFinished(t *testing.T) {
	var polls atomic.Int32
	server := pollServer(t, &polls, func(attempt int32) string {
		if attempt < 3 {
			return `{"status":"RUNNING"}`
		}
		return `{"status":"FINISHED","datas":[{"contact":{"most_probable_email":"jane@acme.com"}}]}`
	})
	defer server.Close()

	client := New(server.URL, "key", time.Millisecond, 20, testLogger())
	email, err := client.Enrich(context.Background(), "ref")
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if email != "jane@acme.com" {
		t.Errorf("email = %q, want jane@acme.com", email)
	}
	if polls.Load() != 3 {
		t.Errorf("polled %d times, want 3 (stop at terminal status)", polls.Load())
	}
}

func TestEnrichFallsBackToFirstEmail(t *testing.T) {
	var polls atomic.Int32
	server := pollServer(t, &polls, func(int32) string {
		return `{"status":"FINISHED","datas":[{"contact":{"most_probable_email":"","emails":[{"email":"alt@acme.com"},{"email":"second@acme.com"}]}}]}`
	})
	defer server.Close()

	client := New(server.URL, "key", time.Millisecond, 20, testLogger())
	email, err := client.Enrich(context.Background(), "ref")
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if email != "alt@acme.com" {
		t.Errorf("email = %q, want alt@acme.com", email)
	}
}

func TestEnrichFailedStatusIsNoFind(t *testing.T) {
	var polls atomic.Int32
	server := pollServer(t, &polls, func(int32) string {
		return `{"status":"FAILED"}`
	})
	defer server.Close()

	client := New(server.URL, "key", time.Millisecond, 20, testLogger())
	email, err := client.Enrich(context.Background(), "ref")
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if email != "" {
		t.Errorf("email = %q, want empty on FAILED", email)
	}
	if polls.Load() != 1 {
		t.Errorf("polled %d times, want 1", polls.Load())
	}
}

func TestEnrichMissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := New(server.URL, "", time.Millisecond, 1, testLogger())
	_, err := client.Enrich(context.Background(), "ref")
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

func TestEnrichSubmitUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "key", time.Millisecond, 1, testLogger())
	_, err := client.Enrich(context.Background(), "ref")
	if err == nil {
		t.Fatal("expected error for failed submission")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("error kind = %v, want KindUpstream", apperr.GetKind(err))
	}
}

func TestEnrichHonorsContextCancellation(t *testing.T) {
	var polls atomic.Int32
	server := pollServer(t, &polls, func(int32) string {
		return `{"status":"RUNNING"}`
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := New(server.URL, "key", time.Hour, 20, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := client.Enrich(ctx, "ref")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Enrich did not return after context cancellation")
	}
}
