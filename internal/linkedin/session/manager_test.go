package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

type fakeStore struct {
	records map[string]StoredSession
	saves   int
	touches int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]StoredSession)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (*StoredSession, error) {
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *fakeStore) Save(ctx context.Context, record StoredSession) error {
	s.saves++
	s.records[record.Key] = record
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deletes++
	delete(s.records, key)
	return nil
}

func (s *fakeStore) TouchLastUsed(ctx context.Context, key string, at time.Time) error {
	s.touches++
	if record, ok := s.records[key]; ok {
		record.LastUsedAt = at
		s.records[key] = record
	}
	return nil
}

type fakeSurface struct {
	cookies     []Cookie
	waitErr     func(ctx context.Context) error
	closeCalls  int
	cookiesErr  error
	navigateErr error
}

func (s *fakeSurface) NavigateToLogin(ctx context.Context) error { return s.navigateErr }

func (s *fakeSurface) WaitForLogin(ctx context.Context) error {
	if s.waitErr != nil {
		return s.waitErr(ctx)
	}
	return nil
}

func (s *fakeSurface) Cookies(ctx context.Context) ([]Cookie, error) {
	return s.cookies, s.cookiesErr
}

func (s *fakeSurface) Close() { s.closeCalls++ }

type fakeLauncher struct {
	surface *fakeSurface
}

func (l *fakeLauncher) Launch(ctx context.Context) (Surface, error) {
	return l.surface, nil
}

func TestAcquireStoresSessionWithArtifactExpiry(t *testing.T) {
	liAtExpires := time.Now().Add(48 * time.Hour)
	surface := &fakeSurface{cookies: []Cookie{
		{Name: "bcookie", Value: "x", Domain: ".linkedin.com"},
		{Name: "li_at", Value: "secret", Domain: ".linkedin.com", Expires: liAtExpires},
	}}
	store := newFakeStore()
	m := NewManager(store, &fakeLauncher{surface: surface}, nil, testLogger(), time.Second, 30*24*time.Hour)

	record, err := m.Acquire(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	if !record.ExpiresAt.Equal(liAtExpires) {
		t.Errorf("ExpiresAt = %v, want the li_at cookie expiry %v", record.ExpiresAt, liAtExpires)
	}
	if len(record.Cookies) != 2 {
		t.Errorf("stored %d cookies, want the full set of 2", len(record.Cookies))
	}
	if store.saves != 1 {
		t.Errorf("store.Save called %d times, want 1", store.saves)
	}
	if surface.closeCalls != 1 {
		t.Errorf("surface closed %d times, want exactly 1", surface.closeCalls)
	}
	if got := m.StateOf(DefaultKey); got != StateAuthenticated {
		t.Errorf("state = %q, want authenticated", got)
	}
}

func TestAcquireFallsBackToTTLWhenArtifactHasNoExpiry(t *testing.T) {
	surface := &fakeSurface{cookies: []Cookie{{Name: "li_at", Value: "secret"}}}
	store := newFakeStore()
	ttl := 10 * 24 * time.Hour
	m := NewManager(store, &fakeLauncher{surface: surface}, nil, testLogger(), time.Second, ttl)

	before := time.Now()
	record, err := m.Acquire(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	want := before.Add(ttl)
	if record.ExpiresAt.Before(want.Add(-time.Minute)) || record.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want roughly now+%v", record.ExpiresAt, ttl)
	}
}

func TestAcquireFailsWhenLoadBearingCookieMissing(t *testing.T) {
	surface := &fakeSurface{cookies: []Cookie{{Name: "bcookie", Value: "x"}}}
	store := newFakeStore()
	m := NewManager(store, &fakeLauncher{surface: surface}, nil, testLogger(), time.Second, time.Hour)

	_, err := m.Acquire(context.Background(), DefaultKey)
	if err == nil {
		t.Fatal("expected error when li_at is absent")
	}
	if !strings.Contains(err.Error(), "li_at") {
		t.Errorf("error %q should name the missing cookie", err.Error())
	}
	if store.saves != 0 {
		t.Errorf("store.Save called %d times, want 0", store.saves)
	}
	if surface.closeCalls != 1 {
		t.Errorf("surface closed %d times, want exactly 1", surface.closeCalls)
	}
	if got := m.StateOf(DefaultKey); got != StateUnauthenticated {
		t.Errorf("state = %q, want unauthenticated", got)
	}
}

func TestAcquireTimesOutAndReleasesBrowser(t *testing.T) {
	surface := &fakeSurface{
		waitErr: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	store := newFakeStore()
	m := NewManager(store, &fakeLauncher{surface: surface}, nil, testLogger(), 20*time.Millisecond, time.Hour)

	_, err := m.Acquire(context.Background(), DefaultKey)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !apperr.Is(err, apperr.KindTimeout) {
		t.Errorf("error kind = %v, want KindTimeout", apperr.GetKind(err))
	}
	if surface.closeCalls != 1 {
		t.Errorf("surface closed %d times, want exactly 1", surface.closeCalls)
	}
}

func TestStatusIsAPureRead(t *testing.T) {
	store := newFakeStore()
	store.records[DefaultKey] = StoredSession{
		Key:        DefaultKey,
		Cookies:    []Cookie{{Name: "li_at", Value: "secret"}},
		ExpiresAt:  time.Now().Add(time.Hour),
		LastUsedAt: time.Now().Add(-time.Hour),
	}
	m := NewManager(store, &fakeLauncher{surface: &fakeSurface{}}, nil, testLogger(), time.Second, time.Hour)

	status, err := m.Status(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if !status.Connected {
		t.Error("Connected = false, want true for a valid session")
	}
	if store.saves != 0 || store.touches != 0 {
		t.Errorf("Status mutated the store: saves=%d touches=%d", store.saves, store.touches)
	}
}

func TestStatusReportsExpiredSessionAsDisconnected(t *testing.T) {
	store := newFakeStore()
	store.records[DefaultKey] = StoredSession{
		Key:       DefaultKey,
		Cookies:   []Cookie{{Name: "li_at", Value: "secret"}},
		ExpiresAt: time.Now().Add(-time.Second),
	}
	m := NewManager(store, &fakeLauncher{surface: &fakeSurface{}}, nil, testLogger(), time.Second, time.Hour)

	status, err := m.Status(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.Connected {
		t.Error("Connected = true for an expired session, want false")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.records[DefaultKey] = StoredSession{Key: DefaultKey, Cookies: []Cookie{{Name: "li_at"}}, ExpiresAt: time.Now().Add(time.Hour)}
	m := NewManager(store, &fakeLauncher{surface: &fakeSurface{}}, nil, testLogger(), time.Second, time.Hour)

	if err := m.Invalidate(context.Background(), DefaultKey); err != nil {
		t.Fatalf("first Invalidate returned error: %v", err)
	}
	if err := m.Invalidate(context.Background(), DefaultKey); err != nil {
		t.Fatalf("second Invalidate returned error: %v", err)
	}

	status, err := m.Status(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.Connected {
		t.Error("session still connected after invalidation")
	}
}

func TestCookiesForUseSkipsExpiryCheckAndTouches(t *testing.T) {
	store := newFakeStore()
	store.records[DefaultKey] = StoredSession{
		Key:       DefaultKey,
		Cookies:   []Cookie{{Name: "li_at", Value: "secret"}},
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	m := NewManager(store, &fakeLauncher{surface: &fakeSurface{}}, nil, testLogger(), time.Second, time.Hour)

	cookies, err := m.CookiesForUse(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("CookiesForUse returned error: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1 even past expiry", len(cookies))
	}
	if store.touches != 1 {
		t.Errorf("TouchLastUsed called %d times, want 1", store.touches)
	}
}

func TestCookiesForUseReturnsNilWhenNothingStored(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, &fakeLauncher{surface: &fakeSurface{}}, nil, testLogger(), time.Second, time.Hour)

	cookies, err := m.CookiesForUse(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("CookiesForUse returned error: %v", err)
	}
	if cookies != nil {
		t.Errorf("cookies = %v, want nil", cookies)
	}
	if store.touches != 0 {
		t.Errorf("TouchLastUsed called %d times, want 0", store.touches)
	}
}

func TestCookieValue(t *testing.T) {
	cookies := []Cookie{
		{Name: "bcookie", Value: "aux"},
		{Name: LiAtCookie, Value: "secret"},
	}

	if got := CookieValue(cookies, LiAtCookie); got != "secret" {
		t.Errorf("CookieValue(li_at) = %q, want secret", got)
	}
	if got := CookieValue(cookies, "absent"); got != "" {
		t.Errorf("CookieValue(absent) = %q, want empty", got)
	}
	if got := CookieValue(nil, LiAtCookie); got != "" {
		t.Errorf("CookieValue(nil) = %q, want empty", got)
	}
}
