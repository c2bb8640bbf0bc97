package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

// LiAtCookie is the one artifact subsequent authenticated requests cannot
// work without.
const LiAtCookie = "li_at"

// Manager owns the session lifecycle for all keys. Acquire calls are
// serialized: a second caller blocks until the first finishes rather than
// racing it for the stored record.
type Manager struct {
	store      Store
	launcher   Launcher
	bus        events.Bus
	log        *logger.Logger
	loginWait  time.Duration
	sessionTTL time.Duration

	// acquireMu serializes the whole Acquire flow; the interactive login
	// occupies one human and one display at a time.
	acquireMu sync.Mutex

	mu     sync.Mutex
	states map[string]State
}

// NewManager creates a session manager. loginWait bounds the interactive
// login; sessionTTL is the fallback expiry when the captured artifact
// carries none.
func NewManager(store Store, launcher Launcher, bus events.Bus, log *logger.Logger, loginWait, sessionTTL time.Duration) *Manager {
	if loginWait <= 0 {
		loginWait = 300 * time.Second
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}

	return &Manager{
		store:      store,
		launcher:   launcher,
		bus:        bus,
		log:        log,
		loginWait:  loginWait,
		sessionTTL: sessionTTL,
		states:     make(map[string]State),
	}
}

// StateOf returns the current lifecycle state for a key.
func (m *Manager) StateOf(key string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[key]; ok {
		return state
	}
	return StateUnauthenticated
}

func (m *Manager) setState(key string, state State) {
	m.mu.Lock()
	m.states[key] = state
	m.mu.Unlock()
}

// Acquire runs the interactive login flow for the given key. It blocks for
// up to the configured wait budget and persists the captured artifact set
// on success. On every exit path (success, timeout or error) the
// automation surface is torn down exactly once before returning.
func (m *Manager) Acquire(ctx context.Context, key string) (*StoredSession, error) {
	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	m.setState(key, StateAuthenticating)

	record, err := m.runLogin(ctx, key)
	if err != nil {
		m.setState(key, StateUnauthenticated)
		return nil, err
	}

	if err := m.store.Save(ctx, *record); err != nil {
		m.setState(key, StateUnauthenticated)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist session", err)
	}

	m.setState(key, StateAuthenticated)
	m.log.SessionEvent("connect", key, true, "")
	if m.bus != nil {
		m.bus.Publish(ctx, events.SessionConnected{
			BaseEvent:  events.NewBaseEvent(),
			SessionKey: key,
		})
	}

	return record, nil
}

// runLogin owns the automation surface for its whole duration. The deferred
// Close is the single teardown point for all exit paths.
func (m *Manager) runLogin(ctx context.Context, key string) (*StoredSession, error) {
	waitCtx, cancel := context.WithTimeout(ctx, m.loginWait)
	defer cancel()

	surface, err := m.launcher.Launch(waitCtx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to open automation browser", err)
	}
	defer surface.Close()

	if err := surface.NavigateToLogin(waitCtx); err != nil {
		return nil, m.classifyLoginErr(key, err)
	}

	if err := surface.WaitForLogin(waitCtx); err != nil {
		return nil, m.classifyLoginErr(key, err)
	}

	cookies, err := surface.Cookies(waitCtx)
	if err != nil {
		return nil, m.classifyLoginErr(key, err)
	}

	expiresAt, found := liAtExpiry(cookies, time.Now().Add(m.sessionTTL))
	if !found {
		m.log.SessionEvent("connect", key, false, "li_at cookie missing")
		return nil, apperr.Internal("login completed but the li_at session cookie was not captured")
	}

	now := time.Now()
	return &StoredSession{
		Key:        key,
		Cookies:    cookies,
		ExpiresAt:  expiresAt,
		LastUsedAt: now,
	}, nil
}

func (m *Manager) classifyLoginErr(key string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		m.log.SessionEvent("connect", key, false, "login wait budget exhausted")
		return apperr.Timeout("login was not completed within the wait budget")
	}
	m.log.SessionEvent("connect", key, false, err.Error())
	return apperr.Wrap(apperr.KindInternal, "login flow failed", err)
}

// liAtExpiry locates the load-bearing cookie and derives the session expiry
// from it, falling back to the given default when the cookie carries no
// usable expiry of its own.
func liAtExpiry(cookies []Cookie, fallback time.Time) (time.Time, bool) {
	for _, cookie := range cookies {
		if cookie.Name != LiAtCookie {
			continue
		}
		if cookie.Expires.After(time.Now()) {
			return cookie.Expires, true
		}
		return fallback, true
	}
	return time.Time{}, false
}

// Status reports whether a usable session exists for the key. This is a
// pure read: it never extends expiry, touches the stored record, or opens
// a browser.
func (m *Manager) Status(ctx context.Context, key string) (Status, error) {
	record, err := m.store.Get(ctx, key)
	if err != nil {
		return Status{}, apperr.Wrap(apperr.KindInternal, "failed to read session", err)
	}

	if !record.Valid(time.Now()) {
		return Status{Connected: false}, nil
	}

	return Status{
		Connected:  true,
		ExpiresAt:  &record.ExpiresAt,
		LastUsedAt: &record.LastUsedAt,
	}, nil
}

// Invalidate deletes the stored session unconditionally. Deleting an
// absent session is not an error.
func (m *Manager) Invalidate(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete session", err)
	}

	m.setState(key, StateUnauthenticated)
	m.log.SessionEvent("logout", key, true, "")
	if m.bus != nil {
		m.bus.Publish(ctx, events.SessionInvalidated{
			BaseEvent:  events.NewBaseEvent(),
			SessionKey: key,
			Reason:     "logout",
		})
	}
	return nil
}

// CookiesForUse hands the stored artifact set to automation-dependent
// callers, or nil when no session is stored. It does not validate expiry;
// callers are expected to check Status first.
func (m *Manager) CookiesForUse(ctx context.Context, key string) ([]Cookie, error) {
	record, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read session", err)
	}
	if record == nil || len(record.Cookies) == 0 {
		return nil, nil
	}

	if err := m.store.TouchLastUsed(ctx, key, time.Now()); err != nil {
		m.log.Warn("failed to update session last-used timestamp", "key", key, "error", err)
	}

	return record.Cookies, nil
}
