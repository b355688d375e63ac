package catalog

import "testing"

func formGetter(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func validForm() map[string]string {
	return map[string]string{
		"title":               " Smart Campus ",
		"description":         "IoT campus monitoring",
		"category":            "IoT Projects",
		"price":               "149.99",
		"author":              "Jane Doe",
		"image_url":           "https://example.com/x.png",
		"is_featured":         "on",
		"ui_price":            "",
		"code_price":          "89.5",
		"documentation_price": "0",
	}
}

func TestParseProjectInput(t *testing.T) {
	in, bad := ParseProjectInput(formGetter(validForm()))
	if len(bad) != 0 {
		t.Fatalf("unexpected parse errors: %v", bad)
	}
	if in.Title != "Smart Campus" {
		t.Errorf("Title = %q", in.Title)
	}
	if in.Price != 149.99 || in.CodePrice != 89.5 || in.UIPrice != 0 {
		t.Errorf("prices = %v/%v/%v", in.Price, in.CodePrice, in.UIPrice)
	}
	if !in.IsFeatured {
		t.Error("expected checkbox value on to mean featured")
	}
	if errs := in.Validate(); errs != nil {
		t.Errorf("Validate() = %v, want nil", errs)
	}
}

func TestParseProjectInput_BadNumber(t *testing.T) {
	form := validForm()
	form["price"] = "abc"
	_, bad := ParseProjectInput(formGetter(form))
	if bad["price"] == "" {
		t.Errorf("expected price parse error, got %v", bad)
	}
}

func TestProjectInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(map[string]string)
		field string
	}{
		{"missing title", func(f map[string]string) { f["title"] = "  " }, "title"},
		{"missing description", func(f map[string]string) { f["description"] = "" }, "description"},
		{"unknown category", func(f map[string]string) { f["category"] = "Gardening" }, "category"},
		{"zero price", func(f map[string]string) { f["price"] = "0" }, "price"},
		{"missing author", func(f map[string]string) { f["author"] = "" }, "author"},
		{"negative ui price", func(f map[string]string) { f["ui_price"] = "-1" }, "ui_price"},
		{"negative code price", func(f map[string]string) { f["code_price"] = "-0.01" }, "code_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(form)
			in, _ := ParseProjectInput(formGetter(form))
			errs := in.Validate()
			if errs[tt.field] == "" {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestProject_Prices(t *testing.T) {
	ui := 20.0
	p := Project{Price: 100, UIPrice: &ui}
	prices := p.Prices()
	if prices.Price != 100 || prices.UIPrice == nil || *prices.UIPrice != 20 || prices.CodePrice != nil {
		t.Errorf("Prices() = %+v", prices)
	}
}
