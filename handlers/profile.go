package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"projectmarket/account"
	"projectmarket/cart"
	"projectmarket/templates"
)

func profileData(p account.Profile, values, errs map[string]string) templates.ProfileData {
	var links []templates.ProfileLink
	for _, l := range []struct{ label, url string }{
		{"GitHub", p.GitHub},
		{"LinkedIn", p.LinkedIn},
		{"Website", p.Website},
	} {
		if l.url != "" {
			links = append(links, templates.ProfileLink{Label: l.label, URL: l.url})
		}
	}
	return templates.ProfileData{
		Initial:     p.Initial(),
		DisplayName: p.DisplayName(),
		Email:       p.Email,
		MemberSince: p.MemberSince,
		Bio:         p.Bio,
		Links:       links,
		Values:      values,
		Errors:      errs,
	}
}

// HandleProfilePage returns a handler that shows the signed-in user's profile
// and the form to edit it. It must run behind RequireAuth.
func HandleProfilePage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p := account.FromRecord(e.Auth)
		return render(e, "Profile", templates.ProfileContent(profileData(p, p.Input().Values(), nil)))
	}
}

// HandleProfileUpdate returns a handler that saves the profile form.
func HandleProfileUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in := account.ParseProfileInput(e.Request.FormValue)
		if errs := in.Validate(); errs != nil {
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			return render(e, "Profile", templates.ProfileContent(profileData(account.FromRecord(e.Auth), in.Values(), errs)))
		}

		p, err := account.UpdateProfile(app, e.Auth, in)
		if err != nil {
			log.Printf("profile_update: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save your profile")
		}

		SetToast(e, cart.LevelSuccess, "Profile updated")
		if !isPartial(e.Request) {
			return e.Redirect(http.StatusSeeOther, "/profile")
		}
		return templates.ProfileContent(profileData(p, p.Input().Values(), nil)).Render(e.Request.Context(), e.Response)
	}
}
