package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectmarket/cart"
	"projectmarket/config"
)

const testSession = "5b7c4f3e-8a1d-4c2b-9e6f-0a1b2c3d4e5f"

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newMemoryProvider returns a cart provider keeping every session in memory.
func newMemoryProvider() *cart.Provider {
	var mu sync.Mutex
	sessions := map[string]*cart.MemoryStorage{}
	return cart.NewProvider(func(session string) cart.Storage {
		mu.Lock()
		defer mu.Unlock()
		s, ok := sessions[session]
		if !ok {
			s = cart.NewMemoryStorage()
			sessions[session] = s
		}
		return s
	})
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.PlaceholderImage = "https://example.com/placeholder.png"
	return cfg
}

// withSession stores the cart session id the way SessionMiddleware does.
func withSession(req *http.Request, session string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), SessionKey, session))
}

func formRequest(method, target string, values url.Values) *http.Request {
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return withSession(req, testSession)
}

func htmx(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

func seedCart(carts *cart.Provider, items ...cart.Candidate) {
	_ = carts.With(testSession, cart.Discard, func(s *cart.Store) error {
		for _, c := range items {
			s.AddItem(c)
		}
		return nil
	})
}
