// Package enrow provides the HTTP client for the asynchronous email-enrichment
// provider. An enrichment is submitted as a job, then polled to a terminal
// state under a bounded attempt budget.
package enrow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadflow_backend/internal/enrichment/provider"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	// DefaultPollInterval is the wait before each poll attempt.
	DefaultPollInterval = 3 * time.Second
	// DefaultPollAttempts bounds the poll loop.
	DefaultPollAttempts = 20

	jobLabel = "crm-email-enrichment"
)

// Job statuses reported by the provider. Anything else is treated as
// still pending.
const (
	StatusFinished = "FINISHED"
	StatusFailed   = "FAILED"
	StatusError    = "ERROR"
)

type submitRequest struct {
	Name  string       `json:"name"`
	Datas []submitData `json:"datas"`
}

type submitData struct {
	ProfileReference string   `json:"profile_reference"`
	EnrichFields     []string `json:"enrich_fields"`
}

type submitResponse struct {
	EnrichmentID string `json:"enrichment_id"`
	Status       string `json:"status"`
}

type pollResponse struct {
	Status string     `json:"status"`
	Datas  []pollData `json:"datas"`
}

type pollData struct {
	Contact pollContact `json:"contact"`
}

type pollContact struct {
	MostProbableEmail string      `json:"most_probable_email"`
	Emails            []pollEmail `json:"emails"`
}

type pollEmail struct {
	Email string `json:"email"`
}

// Client is the HTTP client for the enrichment API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	pollAttempts int
	log          *logger.Logger
}

// New creates a new enrichment client. Non-positive interval/attempts fall
// back to the defaults.
func New(baseURL, apiKey string, pollInterval time.Duration, pollAttempts int, log *logger.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if pollAttempts <= 0 {
		pollAttempts = DefaultPollAttempts
	}

	return &Client{
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		log:          log,
	}
}

// Enrich submits an email-enrichment job for the given profile reference and
// polls it to a terminal state. It returns the discovered email, or "" when
// the provider found nothing, reported a failure, or the attempt budget ran
// out before a terminal status was observed. The caller cannot distinguish
// "no result" from "gave up"; that trade-off is inherent to the contract.
func (c *Client) Enrich(ctx context.Context, profileReference string) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Internal("enrichment provider not configured: missing API key")
	}

	jobID, err := c.submit(ctx, profileReference)
	if err != nil {
		return "", err
	}
	if jobID == "" {
		// Nothing to poll.
		return "", nil
	}

	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		status, email, err := c.poll(ctx, jobID)
		if err != nil {
			// A single failed poll is not fatal; the job may still finish.
			c.log.Warn("enrow poll attempt failed", "job_id", jobID, "attempt", attempt, "error", err)
			continue
		}

		switch status {
		case StatusFinished:
			if email != "" {
				c.log.Info("enrow enrichment finished", "job_id", jobID, "attempts", attempt)
			}
			return email, nil
		case StatusFailed, StatusError:
			c.log.Warn("enrow enrichment failed", "job_id", jobID, "status", status)
			return "", nil
		default:
			// Still pending.
		}
	}

	c.log.Warn("enrow poll budget exhausted", "job_id", jobID, "attempts", c.pollAttempts)
	return "", nil
}

func (c *Client) submit(ctx context.Context, profileReference string) (string, error) {
	payload := submitRequest{
		Name: jobLabel,
		Datas: []submitData{
			{ProfileReference: profileReference, EnrichFields: []string{"email"}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal enrichment request: %w", err)
	}

	reqURL := c.baseURL + "/email/find/bulk"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("enrow submit request failed", "error", err)
		return "", fmt.Errorf("enrow submit: %w", err)
	}
	defer resp.Body.Close()

	c.log.ProviderCall("enrow", "submit", resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		provErr := provider.NewError("enrow", "submit", resp.StatusCode, strings.TrimSpace(string(data)))
		return "", apperr.Wrap(apperr.KindUpstream, "enrichment submission failed", provErr).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var payloadResp submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&payloadResp); err != nil {
		c.log.Error("enrow submit decode failed", "error", err)
		return "", fmt.Errorf("decode submit response: %w", err)
	}

	return payloadResp.EnrichmentID, nil
}

func (c *Client) poll(ctx context.Context, jobID string) (status, email string, err error) {
	reqURL := fmt.Sprintf("%s/email/find/bulk?id=%s", c.baseURL, url.QueryEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("enrow poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return "", "", provider.NewError("enrow", "poll", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var payload pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("decode poll response: %w", err)
	}

	return payload.Status, extractEmail(payload), nil
}

// extractEmail picks the most probable email when present, otherwise the
// first entry of the result's email list.
func extractEmail(payload pollResponse) string {
	if len(payload.Datas) == 0 {
		return ""
	}

	contact := payload.Datas[0].Contact
	if contact.MostProbableEmail != "" {
		return contact.MostProbableEmail
	}
	if len(contact.Emails) > 0 {
		return contact.Emails[0].Email
	}
	return ""
}
