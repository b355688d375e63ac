package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"projectmarket/cart"
	"projectmarket/templates"
	"projectmarket/testhelpers"
)

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{AppName: "Store", CartCount: 3}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), HeaderDataKey, expected))

	got := GetHeaderData(req)
	if got.CartCount != 3 || got.AppName != "Store" {
		t.Errorf("GetHeaderData() = %+v", got)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetHeaderData(req); got.User != nil || got.CartCount != 0 {
		t.Errorf("expected zero HeaderData, got %+v", got)
	}
}

func TestSessionMiddleware(t *testing.T) {
	cfg := testConfig()
	existing := uuid.NewString()

	tests := []struct {
		name      string
		cookie    string
		wantKeep  bool
		wantSetCk bool
	}{
		{"no cookie issues one", "", false, true},
		{"valid cookie kept", existing, true, false},
		{"malformed cookie replaced", "not-a-uuid", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cfg.CartCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(nil, req, rec)

			if err := SessionMiddleware(cfg)(e); err != nil {
				t.Fatal(err)
			}

			session := GetSession(e.Request)
			if _, err := uuid.Parse(session); err != nil {
				t.Fatalf("session %q is not a uuid", session)
			}
			if tt.wantKeep && session != tt.cookie {
				t.Errorf("session = %q, want %q", session, tt.cookie)
			}
			setCookie := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == cfg.CartCookie && c.Value == session {
					setCookie = true
				}
			}
			if setCookie != tt.wantSetCk {
				t.Errorf("cookie set = %v, want %v", setCookie, tt.wantSetCk)
			}
		})
	}
}

func TestSessionMiddleware_SkipsAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := SessionMiddleware(testConfig())(e); err != nil {
		t.Fatal(err)
	}
	if GetSession(e.Request) != "" || len(rec.Result().Cookies()) != 0 {
		t.Error("expected API requests to be left alone")
	}
}

func TestAuthMiddleware(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()
	user := testhelpers.CreateTestUser(t, app, "buyer@example.com", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.AuthCookie, Value: testhelpers.AuthToken(t, user)})
	e := newTestRequestEvent(app, req, httptest.NewRecorder())

	if err := AuthMiddleware(app, cfg)(e); err != nil {
		t.Fatal(err)
	}
	if e.Auth == nil || e.Auth.Id != user.Id {
		t.Errorf("e.Auth = %v, want user %s", e.Auth, user.Id)
	}
}

func TestAuthMiddleware_InvalidTokenClearsCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.AuthCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := AuthMiddleware(app, cfg)(e); err != nil {
		t.Fatal(err)
	}
	if e.Auth != nil {
		t.Error("expected no auth for an invalid token")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == cfg.AuthCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the auth cookie to be cleared")
	}
}

func TestHeaderMiddleware(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	admin := testhelpers.CreateTestUser(t, app, "admin@example.com", true)
	carts := newMemoryProvider()
	seedCart(carts,
		cart.Candidate{ID: "a", Title: "A", Price: 5},
		cart.Candidate{ID: "a", Title: "A", Price: 5},
		cart.Candidate{ID: "b", Title: "B", Price: 7},
	)

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), testSession)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())
	e.Auth = admin

	if err := HeaderMiddleware(carts, testConfig())(e); err != nil {
		t.Fatal(err)
	}

	header := GetHeaderData(e.Request)
	if header.CartCount != 3 {
		t.Errorf("CartCount = %d, want 3", header.CartCount)
	}
	if header.User == nil || !header.User.IsAdmin || header.User.Email != "admin@example.com" {
		t.Errorf("User = %+v", header.User)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous page request redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart?x=1", nil)
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(nil, req, rec)

		if err := RequireAuth()(e); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", rec.Code)
		}
		want := "/login?redirect=" + url.QueryEscape("/cart?x=1")
		if got := rec.Header().Get("Location"); got != want {
			t.Errorf("Location = %q, want %q", got, want)
		}
	})

	t.Run("anonymous htmx request gets HX-Redirect", func(t *testing.T) {
		req := htmx(httptest.NewRequest(http.MethodPost, "/projects/abc/cart", nil))
		req.Header.Set("HX-Current-URL", "http://localhost:8090/projects/abc")
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(nil, req, rec)

		if err := RequireAuth()(e); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/login?redirect="+url.QueryEscape("/projects/abc"))
	})
}

func TestRequireAdmin_RejectsBuyer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	buyer := testhelpers.CreateTestUser(t, app, "buyer@example.com", false)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	e.Auth = buyer

	if err := RequireAdmin()(e); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Forbidden")
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	admin := testhelpers.CreateTestUser(t, app, "admin@example.com", true)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	e.Auth = admin

	if err := RequireAdmin()(e); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("expected pass-through, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/cart", "/cart"},
		{"/projects/abc?x=1", "/projects/abc?x=1"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"relative", "/"},
	}
	for _, tt := range tests {
		if got := safeRedirect(tt.in); got != tt.want {
			t.Errorf("safeRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
