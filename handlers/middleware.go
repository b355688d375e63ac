package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectmarket/account"
	"projectmarket/cart"
	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/templates"
)

type contextKey string

const SessionKey contextKey = "cartSession"
const HeaderDataKey contextKey = "headerData"

const sessionMaxAge = 365 * 24 * 60 * 60

// GetSession returns the cart session id stored by SessionMiddleware.
func GetSession(r *http.Request) string {
	if val, ok := r.Context().Value(SessionKey).(string); ok {
		return val
	}
	return ""
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

func skipPageMiddleware(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/_/") || strings.HasPrefix(path, "/static/")
}

// SessionMiddleware reads the cart session cookie, issuing a new random id
// when it is missing or malformed, and stores it in the request context.
func SessionMiddleware(cfg config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if skipPageMiddleware(e.Request.URL.Path) {
			return e.Next()
		}

		session := ""
		if cookie, err := e.Request.Cookie(cfg.CartCookie); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				session = cookie.Value
			}
		}
		if session == "" {
			session = uuid.NewString()
			http.SetCookie(e.Response, &http.Cookie{
				Name:     cfg.CartCookie,
				Value:    session,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(e.Request.Context(), SessionKey, session)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// AuthMiddleware resolves the auth cookie into e.Auth. An invalid or expired
// token clears the cookie.
func AuthMiddleware(app *pocketbase.PocketBase, cfg config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil || skipPageMiddleware(e.Request.URL.Path) {
			return e.Next()
		}

		cookie, err := e.Request.Cookie(cfg.AuthCookie)
		if err != nil || cookie.Value == "" {
			return e.Next()
		}

		record, err := app.FindAuthRecordByToken(cookie.Value, core.TokenTypeAuth)
		if err != nil {
			log.Printf("middleware: dropping invalid auth cookie: %v", err)
			clearCookie(e, cfg.AuthCookie)
			return e.Next()
		}
		e.Auth = record
		return e.Next()
	}
}

// HeaderMiddleware builds HeaderData (user and cart count) for page renders.
// It must run after SessionMiddleware and AuthMiddleware.
func HeaderMiddleware(carts *cart.Provider, cfg config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if skipPageMiddleware(e.Request.URL.Path) {
			return e.Next()
		}

		header := templates.HeaderData{AppName: cfg.AppName}
		if e.Auth != nil {
			header.User = &templates.UserView{
				Email:   e.Auth.Email(),
				Name:    account.FromRecord(e.Auth).Name,
				IsAdmin: catalog.IsAdmin(e.Auth),
			}
		}
		if session := GetSession(e.Request); session != "" {
			header.CartCount = cart.Count(carts.Snapshot(session))
		}

		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, header)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// RequireAuth redirects anonymous visitors to the login page, remembering
// where they were going. HTMX requests get an HX-Redirect instead.
func RequireAuth() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Next()
		}
		target := "/login?redirect=" + url.QueryEscape(loginReturnPath(e.Request))
		if e.Request.Header.Get("HX-Request") == "true" {
			SetToast(e, cart.LevelInfo, "Please log in to continue")
			e.Response.Header().Set("HX-Redirect", target)
			return e.NoContent(http.StatusUnauthorized)
		}
		return e.Redirect(http.StatusSeeOther, target)
	}
}

// RequireAdmin allows only users flagged is_admin.
func RequireAdmin() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return RequireAuth()(e)
		}
		if !catalog.IsAdmin(e.Auth) {
			if e.Request.Header.Get("HX-Request") == "true" {
				return ErrorToast(e, http.StatusForbidden, "Admin access required")
			}
			e.Response.WriteHeader(http.StatusForbidden)
			return templates.Page("Forbidden", GetHeaderData(e.Request),
				templates.Message("Forbidden", "You need an administrator account to open this page.")).
				Render(e.Request.Context(), e.Response)
		}
		return e.Next()
	}
}

// loginReturnPath is the page to come back to after logging in. For HTMX
// requests that is the page the request was made from.
func loginReturnPath(r *http.Request) string {
	if r.Header.Get("HX-Request") == "true" {
		if cur, err := url.Parse(r.Header.Get("HX-Current-URL")); err == nil && cur.Path != "" {
			return cur.RequestURI()
		}
	}
	if r.Method == http.MethodGet {
		return r.URL.RequestURI()
	}
	return "/"
}

// safeRedirect only allows local absolute paths.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func clearCookie(e *core.RequestEvent, name string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
