package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const loginURL = "https://www.linkedin.com/login"

// loggedInPaths are URL prefixes that only render for an authenticated
// member. Reaching any of them means the interactive login finished.
var loggedInPaths = []string{
	"https://www.linkedin.com/feed",
	"https://www.linkedin.com/mynetwork",
	"https://www.linkedin.com/notifications",
	"https://www.linkedin.com/in/",
}

// ChromeLauncher opens a real Chrome window for the interactive login.
// The window must be visible unless headless is explicitly requested,
// since a human has to type credentials into it.
type ChromeLauncher struct {
	headless bool
}

func NewChromeLauncher(headless bool) *ChromeLauncher {
	return &ChromeLauncher{headless: headless}
}

func (l *ChromeLauncher) Launch(ctx context.Context) (Surface, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("headless", l.headless),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Starting the browser eagerly surfaces missing-binary errors here
	// instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &chromeSurface{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

type chromeSurface struct {
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func (s *chromeSurface) NavigateToLogin(ctx context.Context) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(loginURL)); err != nil {
		return fmt.Errorf("navigate to login page: %w", err)
	}
	return nil
}

// WaitForLogin polls the current location until it matches a logged-in
// URL or the caller's context expires.
func (s *chromeSurface) WaitForLogin(ctx context.Context) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return fmt.Errorf("browser closed before login completed: %w", s.ctx.Err())
		case <-ticker.C:
			var current string
			if err := chromedp.Run(s.ctx, chromedp.Location(&current)); err != nil {
				return fmt.Errorf("read current location: %w", err)
			}
			if isLoggedInURL(current) {
				return nil
			}
		}
	}
}

func isLoggedInURL(url string) bool {
	for _, prefix := range loggedInPaths {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (s *chromeSurface) Cookies(ctx context.Context) ([]Cookie, error) {
	var raw []*network.Cookie
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(cdpCtx context.Context) error {
		var err error
		raw, err = network.GetCookies().Do(cdpCtx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("read browser cookies: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
		if c.Expires > 0 {
			sec, frac := int64(c.Expires), c.Expires-float64(int64(c.Expires))
			cookie.Expires = time.Unix(sec, int64(frac*1e9))
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}

// Close tears the browser down. Safe to call more than once.
func (s *chromeSurface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}
