package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectmarket/account"
	"projectmarket/cart"
	"projectmarket/config"
	"projectmarket/templates"
)

const authCookieMaxAge = 14 * 24 * time.Hour

// HandleLoginPage returns a handler that renders the login form.
func HandleLoginPage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Redirect(http.StatusSeeOther, "/")
		}
		data := templates.AuthFormData{Redirect: safeRedirect(e.Request.URL.Query().Get("redirect"))}
		return render(e, "Log in", templates.AuthForm(data))
	}
}

// HandleRegisterPage returns a handler that renders the sign-up form.
func HandleRegisterPage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth != nil {
			return e.Redirect(http.StatusSeeOther, "/")
		}
		data := templates.AuthFormData{Register: true, Redirect: safeRedirect(e.Request.URL.Query().Get("redirect"))}
		return render(e, "Sign up", templates.AuthForm(data))
	}
}

func authFormError(e *core.RequestEvent, status int, data templates.AuthFormData) error {
	e.Response.WriteHeader(status)
	title := "Log in"
	if data.Register {
		title = "Sign up"
	}
	return render(e, title, templates.AuthForm(data))
}

func signIn(e *core.RequestEvent, cfg config.Config, user *core.Record, redirect string) error {
	token, err := user.NewAuthToken()
	if err != nil {
		log.Printf("auth: could not issue token for %s: %v", user.Id, err)
		return e.String(http.StatusInternalServerError, "Internal error")
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     cfg.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(authCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e.Redirect(http.StatusSeeOther, safeRedirect(redirect))
}

// HandleLogin returns a handler that checks credentials and sets the auth cookie.
func HandleLogin(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		email := strings.TrimSpace(e.Request.FormValue("email"))
		password := e.Request.FormValue("password")
		redirect := safeRedirect(e.Request.FormValue("redirect"))
		data := templates.AuthFormData{Email: email, Redirect: redirect}

		user, err := app.FindAuthRecordByEmail("users", email)
		if err != nil || !user.ValidatePassword(password) {
			data.Error = "Invalid email or password"
			return authFormError(e, http.StatusUnauthorized, data)
		}

		SetToast(e, cart.LevelSuccess, "Welcome back")
		return signIn(e, cfg, user, redirect)
	}
}

// HandleRegister returns a handler that creates a users record and signs it in.
func HandleRegister(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name := strings.TrimSpace(e.Request.FormValue("name"))
		email := strings.TrimSpace(e.Request.FormValue("email"))
		password := e.Request.FormValue("password")
		confirm := e.Request.FormValue("password_confirm")
		redirect := safeRedirect(e.Request.FormValue("redirect"))
		data := templates.AuthFormData{Register: true, Name: name, Email: email, Redirect: redirect}

		err := validation.Errors{
			"name":     validation.Validate(name, account.NameRules...),
			"email":    validation.Validate(email, validation.Required, is.EmailFormat),
			"password": validation.Validate(password, validation.Required, validation.Length(8, 72)),
		}.Filter()
		if err != nil {
			data.Error = err.Error()
			return authFormError(e, http.StatusBadRequest, data)
		}
		if password != confirm {
			data.Error = "Passwords do not match"
			return authFormError(e, http.StatusBadRequest, data)
		}

		if _, err := app.FindAuthRecordByEmail("users", email); err == nil {
			data.Error = "An account with this email already exists"
			return authFormError(e, http.StatusConflict, data)
		}

		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			log.Printf("register: could not find users collection: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		user := core.NewRecord(users)
		user.SetEmail(email)
		user.SetPassword(password)
		user.Set("name", name)
		if err := app.Save(user); err != nil {
			log.Printf("register: could not save user: %v", err)
			data.Error = "Could not create the account"
			return authFormError(e, http.StatusBadRequest, data)
		}

		SetToast(e, cart.LevelSuccess, "Account created")
		return signIn(e, cfg, user, redirect)
	}
}

// HandleLogout returns a handler that clears the auth cookie.
func HandleLogout(cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearCookie(e, cfg.AuthCookie)
		SetToast(e, cart.LevelInfo, "Logged out")
		return e.Redirect(http.StatusSeeOther, "/")
	}
}
