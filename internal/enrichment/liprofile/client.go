// Package liprofile provides the HTTP client for the synchronous
// profile-fetch provider. Responses are loosely typed: the same logical
// field arrives under different names depending on the profile, so every
// canonical field is resolved through an ordered list of alternates.
package liprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"leadflow_backend/internal/enrichment/provider"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// profilePathPatterns are the accepted public-profile URL shapes, tried in
// order. Both yield the trailing path segment as the profile identifier.
var profilePathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`linkedin\.com/in/([^/?#]+)`),
	regexp.MustCompile(`linkedin\.com/pub/([^/?#]+)`),
}

// ExtractID returns the profile identifier embedded in a public profile URL,
// or "" when the URL matches neither accepted shape.
func ExtractID(profileURL string) string {
	for _, pattern := range profilePathPatterns {
		if match := pattern.FindStringSubmatch(profileURL); match != nil {
			return strings.TrimSuffix(match[1], "/")
		}
	}
	return ""
}

// Experience is one employment entry on a profile.
type Experience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Education is one education entry on a profile.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// Profile is the intermediate representation of a fetched public profile.
// The mapper converts it into the canonical contact record.
type Profile struct {
	ID         string       `json:"id"`
	URL        string       `json:"url"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	FullName   string       `json:"fullName"`
	Headline   string       `json:"headline"`
	City       string       `json:"city"`
	Region     string       `json:"region"`
	Country    string       `json:"country"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

// Current returns the most recent employment entry, if any.
func (p Profile) Current() (Experience, bool) {
	if len(p.Experience) == 0 {
		return Experience{}, false
	}
	return p.Experience[0], true
}

// Client is the HTTP client for the profile-fetch API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new profile-fetch client.
func New(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        log,
	}
}

// Fetch validates the profile URL, then performs exactly one lookup keyed by
// the original URL. Validation and credential checks happen before any
// network I/O. A non-empty sessionCookie is forwarded so the provider
// resolves the profile through the caller's own authenticated session.
func (c *Client) Fetch(ctx context.Context, profileURL, sessionCookie string) (*Profile, error) {
	id := ExtractID(profileURL)
	if id == "" {
		return nil, apperr.Validation("unrecognized profile URL: " + profileURL)
	}

	if c.apiKey == "" {
		return nil, apperr.Internal("profile provider not configured: missing API key")
	}

	reqURL := fmt.Sprintf("%s/get-profile-data-by-url?url=%s", c.baseURL, url.QueryEscape(profileURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if sessionCookie != "" {
		req.Header.Set("Cookie", "li_at="+sessionCookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("profile fetch request failed", "error", err)
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	defer resp.Body.Close()

	c.log.ProviderCall("liprofile", "fetch", resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		provErr := provider.NewError("liprofile", "fetch", resp.StatusCode, strings.TrimSpace(string(data)))
		return nil, apperr.Wrap(apperr.KindUpstream, "profile fetch failed", provErr).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.log.Error("profile fetch decode failed", "error", err)
		return nil, fmt.Errorf("decode profile response: %w", err)
	}

	profile := mapProfile(raw)
	profile.ID = id
	profile.URL = profileURL
	return &profile, nil
}

// Ordered alternate field names per profile field. Earlier names win.
var (
	altFirstName = []string{"firstName", "first_name"}
	altLastName  = []string{"lastName", "last_name"}
	altFullName  = []string{"fullName", "full_name", "name"}
	altHeadline  = []string{"headline", "sub_title", "occupation"}
	altLocation  = []string{"location", "geoLocationName"}
	altCountry   = []string{"country", "geoCountryName"}

	altExperienceLists = []string{"experiences", "positions"}
	altEducationLists  = []string{"educations", "education"}

	altExpTitle   = []string{"title", "position"}
	altExpCompany = []string{"companyName", "company", "company_name"}
	altExpLoc     = []string{"locationName", "location"}
	altExpStart   = []string{"startDate", "start_date", "starts_at"}
	altExpEnd     = []string{"endDate", "end_date", "ends_at"}

	altEduSchool = []string{"schoolName", "school", "school_name"}
	altEduDegree = []string{"degreeName", "degree", "degree_name"}
	altEduField  = []string{"fieldOfStudy", "field_of_study", "field"}

	altSkillName = []string{"name", "skill"}
)

// mapProfile converts a loosely typed provider payload into a Profile.
// Every nested lookup tolerates missing keys and wrong shapes; absent
// sub-fields become empty strings rather than errors.
func mapProfile(raw map[string]any) Profile {
	p := Profile{
		FirstName: firstString(raw, altFirstName),
		LastName:  firstString(raw, altLastName),
		FullName:  firstString(raw, altFullName),
		Headline:  firstString(raw, altHeadline),
		Country:   firstString(raw, altCountry),
	}

	// Fall back to splitting the full name when discrete parts are absent.
	if p.FirstName == "" && p.LastName == "" && p.FullName != "" {
		p.FirstName, p.LastName = splitName(p.FullName)
	}
	if p.FullName == "" {
		p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}

	// "geo" may nest the location fields; the flat form wins when present.
	location := firstString(raw, altLocation)
	if location == "" {
		if geo, ok := raw["geo"].(map[string]any); ok {
			location = firstString(geo, []string{"full", "city"})
			if p.Country == "" {
				p.Country = firstString(geo, []string{"country"})
			}
		}
	}
	p.City, p.Region = splitLocation(location)

	p.Experience = mapExperience(firstList(raw, altExperienceLists))
	p.Education = mapEducation(firstList(raw, altEducationLists))
	p.Skills = mapSkills(raw["skills"])

	return p
}

func mapExperience(entries []any) []Experience {
	result := make([]Experience, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		result = append(result, Experience{
			Title:     firstString(obj, altExpTitle),
			Company:   firstString(obj, altExpCompany),
			Location:  firstString(obj, altExpLoc),
			StartDate: firstString(obj, altExpStart),
			EndDate:   firstString(obj, altExpEnd),
		})
	}
	return result
}

func mapEducation(entries []any) []Education {
	result := make([]Education, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		result = append(result, Education{
			School: firstString(obj, altEduSchool),
			Degree: firstString(obj, altEduDegree),
			Field:  firstString(obj, altEduField),
		})
	}
	return result
}

func mapSkills(value any) []string {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch typed := entry.(type) {
		case string:
			if typed != "" {
				result = append(result, typed)
			}
		case map[string]any:
			if name := firstString(typed, altSkillName); name != "" {
				result = append(result, name)
			}
		}
	}
	return result
}

// splitName divides a full name into first and last at the first space.
func splitName(full string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// splitLocation divides "City, Region, ..." into its first two segments.
func splitLocation(location string) (city, region string) {
	parts := strings.Split(location, ",")
	if len(parts) > 0 {
		city = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		region = strings.TrimSpace(parts[1])
	}
	return city, region
}

func firstString(data map[string]any, names []string) string {
	for _, name := range names {
		if value, ok := data[name].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func firstList(data map[string]any, names []string) []any {
	for _, name := range names {
		if value, ok := data[name].([]any); ok && len(value) > 0 {
			return value
		}
	}
	return nil
}
