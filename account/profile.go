// Package account holds the buyer profile stored on the users collection.
package account

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase/core"
)

// UsersCollection is PocketBase's built-in auth collection.
const UsersCollection = "users"

// Profile is the public part of a user account.
type Profile struct {
	Email       string
	Name        string
	Bio         string
	GitHub      string
	LinkedIn    string
	Website     string
	MemberSince string
}

// DisplayName is the name if set, otherwise the email.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// Initial is the upper-cased first letter of DisplayName, used for the avatar.
func (p Profile) Initial() string {
	for _, r := range p.DisplayName() {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// FromRecord maps a users record to a Profile.
func FromRecord(user *core.Record) Profile {
	p := Profile{
		Email:    user.Email(),
		Name:     user.GetString("name"),
		Bio:      user.GetString("bio"),
		GitHub:   user.GetString("github"),
		LinkedIn: user.GetString("linkedin"),
		Website:  user.GetString("website"),
	}
	if created := user.GetDateTime("created"); !created.IsZero() {
		p.MemberSince = created.Time().Format("January 2006")
	}
	return p
}

// ProfileInput is the editable part of a profile, keyed like the form.
type ProfileInput struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
}

// ParseProfileInput reads the profile form through get.
func ParseProfileInput(get func(string) string) ProfileInput {
	return ProfileInput{
		Name:     strings.TrimSpace(get("name")),
		Bio:      strings.TrimSpace(get("bio")),
		GitHub:   strings.TrimSpace(get("github")),
		LinkedIn: strings.TrimSpace(get("linkedin")),
		Website:  strings.TrimSpace(get("website")),
	}
}

// NameRules apply wherever a display name is entered.
var NameRules = []validation.Rule{
	validation.Required,
	validation.Length(2, 100).Error("must be at least 2 characters"),
}

// Validate returns field errors keyed by form name, or nil.
func (in ProfileInput) Validate() map[string]string {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, NameRules...),
		validation.Field(&in.Bio, validation.Length(0, 1000)),
		validation.Field(&in.GitHub, is.URL),
		validation.Field(&in.LinkedIn, is.URL),
		validation.Field(&in.Website, is.URL),
	)
	if err == nil {
		return nil
	}

	out := map[string]string{}
	if errs, ok := err.(validation.Errors); ok {
		for field, fe := range errs {
			out[field] = fe.Error()
		}
		return out
	}
	out["form"] = err.Error()
	return out
}

// Values returns the input as form values for re-rendering.
func (in ProfileInput) Values() map[string]string {
	return map[string]string{
		"name":     in.Name,
		"bio":      in.Bio,
		"github":   in.GitHub,
		"linkedin": in.LinkedIn,
		"website":  in.Website,
	}
}

// Input returns the editable fields of p.
func (p Profile) Input() ProfileInput {
	return ProfileInput{Name: p.Name, Bio: p.Bio, GitHub: p.GitHub, LinkedIn: p.LinkedIn, Website: p.Website}
}

// UpdateProfile saves in onto user.
func UpdateProfile(app core.App, user *core.Record, in ProfileInput) (Profile, error) {
	user.Set("name", in.Name)
	user.Set("bio", in.Bio)
	user.Set("github", in.GitHub)
	user.Set("linkedin", in.LinkedIn)
	user.Set("website", in.Website)
	if err := app.Save(user); err != nil {
		return Profile{}, fmt.Errorf("save profile %s: %w", user.Id, err)
	}
	return FromRecord(user), nil
}
