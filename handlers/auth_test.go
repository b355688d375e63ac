package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"projectmarket/testhelpers"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleRegister_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()

	rec := httptest.NewRecorder()
	req := formRequest(http.MethodPost, "/register", url.Values{
		"name":             {"New Buyer"},
		"email":            {"new@example.com"},
		"password":         {"longenough"},
		"password_confirm": {"longenough"},
		"redirect":         {"/cart"},
	})
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRegister(app, cfg)(e); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/cart" {
		t.Fatalf("got %d to %q", rec.Code, rec.Header().Get("Location"))
	}
	cookie := findCookie(rec, cfg.AuthCookie)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie")
	}
	user, err := app.FindAuthRecordByToken(cookie.Value)
	if err != nil || user.Email() != "new@example.com" {
		t.Fatalf("token does not resolve to the new user: %v", err)
	}
	if got := user.GetString("name"); got != "New Buyer" {
		t.Errorf("name = %q, want %q", got, "New Buyer")
	}
}

func TestHandleRegister_Rejections(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "taken@example.com", false)

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantText string
	}{
		{
			name:     "bad email",
			form:     url.Values{"name": {"Buyer"}, "email": {"nope"}, "password": {"longenough"}, "password_confirm": {"longenough"}},
			wantCode: http.StatusBadRequest,
			wantText: "email",
		},
		{
			name:     "short name",
			form:     url.Values{"name": {"A"}, "email": {"a@example.com"}, "password": {"longenough"}, "password_confirm": {"longenough"}},
			wantCode: http.StatusBadRequest,
			wantText: "must be at least 2 characters",
		},
		{
			name:     "missing name",
			form:     url.Values{"email": {"a@example.com"}, "password": {"longenough"}, "password_confirm": {"longenough"}},
			wantCode: http.StatusBadRequest,
			wantText: "name: cannot be blank",
		},
		{
			name:     "short password",
			form:     url.Values{"name": {"Buyer"}, "email": {"a@example.com"}, "password": {"short"}, "password_confirm": {"short"}},
			wantCode: http.StatusBadRequest,
			wantText: "password",
		},
		{
			name:     "mismatch",
			form:     url.Values{"name": {"Buyer"}, "email": {"a@example.com"}, "password": {"longenough"}, "password_confirm": {"different"}},
			wantCode: http.StatusBadRequest,
			wantText: "Passwords do not match",
		},
		{
			name:     "duplicate",
			form:     url.Values{"name": {"Buyer"}, "email": {"taken@example.com"}, "password": {"longenough"}, "password_confirm": {"longenough"}},
			wantCode: http.StatusConflict,
			wantText: "already exists",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, formRequest(http.MethodPost, "/register", tt.form), rec)

			if err := HandleRegister(app, testConfig())(e); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.wantText, `action="/register"`)
			if findCookie(rec, testConfig().AuthCookie) != nil {
				t.Error("no auth cookie expected")
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUser(t, app, "buyer@example.com", false)
	cfg := testConfig()

	tests := []struct {
		name       string
		email      string
		password   string
		redirect   string
		wantCode   int
		wantCookie bool
		wantTarget string
	}{
		{"valid", "buyer@example.com", testhelpers.TestPassword, "/projects/abc", http.StatusSeeOther, true, "/projects/abc"},
		{"offsite redirect", "buyer@example.com", testhelpers.TestPassword, "https://evil.example", http.StatusSeeOther, true, "/"},
		{"wrong password", "buyer@example.com", "wrong-password", "", http.StatusUnauthorized, false, ""},
		{"unknown email", "ghost@example.com", testhelpers.TestPassword, "", http.StatusUnauthorized, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := formRequest(http.MethodPost, "/login", url.Values{
				"email":    {tt.email},
				"password": {tt.password},
				"redirect": {tt.redirect},
			})
			e := newTestRequestEvent(app, req, rec)

			if err := HandleLogin(app, cfg)(e); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := findCookie(rec, cfg.AuthCookie) != nil; got != tt.wantCookie {
				t.Errorf("cookie set = %v, want %v", got, tt.wantCookie)
			}
			if tt.wantCookie {
				if loc := rec.Header().Get("Location"); loc != tt.wantTarget {
					t.Errorf("Location = %q, want %q", loc, tt.wantTarget)
				}
			} else {
				testhelpers.AssertHTMLContains(t, rec.Body.String(), "Invalid email or password")
			}
		})
	}
}

func TestHandleLoginPage_SignedInRedirects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	user := testhelpers.CreateTestUser(t, app, "buyer@example.com", false)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, formRequest(http.MethodGet, "/login", nil), rec)
	e.Auth = user

	if err := HandleLoginPage()(e); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}

func TestHandleRegisterPage_KeepsRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, formRequest(http.MethodGet, "/register?redirect=/cart", nil), rec)

	if err := HandleRegisterPage()(e); err != nil {
		t.Fatal(err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="password_confirm"`, `value="/cart"`)
}

func TestHandleLogout(t *testing.T) {
	cfg := testConfig()
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, formRequest(http.MethodPost, "/logout", url.Values{}), rec)

	if err := HandleLogout(cfg)(e); err != nil {
		t.Fatal(err)
	}
	cookie := findCookie(rec, cfg.AuthCookie)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("expected expired auth cookie, got %+v", cookie)
	}
	if rec.Header().Get("Location") != "/" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
}
