// Package session manages the authenticated LinkedIn automation session:
// acquisition through an interactive browser login, validity checks,
// persistence, and invalidation.
package session

import (
	"context"
	"time"
)

// State is the lifecycle state of a session slot.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// DefaultKey identifies the single session slot used today. The key is a
// parameter everywhere so additional slots need no schema or API change.
const DefaultKey = "default"

// Cookie is one opaque session artifact captured from the authenticated
// browser.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires"`
}

// CookieValue returns the value of the named cookie, or "" when absent.
func CookieValue(cookies []Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// StoredSession is the persisted session record for one key.
type StoredSession struct {
	Key        string
	Cookies    []Cookie
	ExpiresAt  time.Time
	LastUsedAt time.Time
}

// Valid reports whether the stored session is usable at the given instant.
func (s *StoredSession) Valid(now time.Time) bool {
	return s != nil && len(s.Cookies) > 0 && now.Before(s.ExpiresAt)
}

// Store persists session records. Implementations provide atomic
// read/write of a single record per key.
type Store interface {
	Get(ctx context.Context, key string) (*StoredSession, error)
	Save(ctx context.Context, record StoredSession) error
	Delete(ctx context.Context, key string) error
	TouchLastUsed(ctx context.Context, key string, at time.Time) error
}

// Surface is a live automation browser owned by a single Acquire call.
// Close must be safe to call exactly once on every exit path.
type Surface interface {
	// NavigateToLogin drives the surface to the provider's login page.
	NavigateToLogin(ctx context.Context) error
	// WaitForLogin blocks until an externally observable success signal
	// appears or ctx expires.
	WaitForLogin(ctx context.Context) error
	// Cookies captures the artifact set produced by the authenticated session.
	Cookies(ctx context.Context) ([]Cookie, error)
	// Close tears the surface down, releasing the underlying browser.
	Close()
}

// Launcher opens automation surfaces.
type Launcher interface {
	Launch(ctx context.Context) (Surface, error)
}

// Status is the read-model returned by Manager.Status.
type Status struct {
	Connected  bool       `json:"connected"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}
