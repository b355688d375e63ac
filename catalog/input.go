package catalog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
)

// ProjectInput is the admin form payload for creating or editing a project.
type ProjectInput struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	Author             string  `json:"author"`
	ImageURL           string  `json:"image_url"`
	IsFeatured         bool    `json:"is_featured"`
	UIPrice            float64 `json:"ui_price"`
	CodePrice          float64 `json:"code_price"`
	DocumentationPrice float64 `json:"documentation_price"`
}

// ParseProjectInput reads form values. Blank numeric fields parse as zero;
// malformed ones are reported by Validate.
func ParseProjectInput(get func(string) string) (ProjectInput, map[string]string) {
	bad := map[string]string{}
	num := func(field string) float64 {
		raw := strings.TrimSpace(get(field))
		if raw == "" {
			return 0
		}
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			bad[field] = "must be a number"
			return 0
		}
		return v
	}

	in := ProjectInput{
		Title:              strings.TrimSpace(get("title")),
		Description:        strings.TrimSpace(get("description")),
		Category:           strings.TrimSpace(get("category")),
		Price:              num("price"),
		Author:             strings.TrimSpace(get("author")),
		ImageURL:           strings.TrimSpace(get("image_url")),
		IsFeatured:         cast.ToBool(get("is_featured")) || get("is_featured") == "on",
		UIPrice:            num("ui_price"),
		CodePrice:          num("code_price"),
		DocumentationPrice: num("documentation_price"),
	}
	return in, bad
}

var categoryRule = validation.By(func(v interface{}) error {
	s, _ := v.(string)
	if !IsCategory(s) {
		return validation.NewError("validation_category", "must be a known category")
	}
	return nil
})

// Validate returns field errors keyed by form field name, or nil.
// Error keys follow the json tags, which match the form field names.
func (in ProjectInput) Validate() map[string]string {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Category, validation.Required, categoryRule),
		validation.Field(&in.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&in.Author, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.UIPrice, validation.Min(0.0)),
		validation.Field(&in.CodePrice, validation.Min(0.0)),
		validation.Field(&in.DocumentationPrice, validation.Min(0.0)),
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
