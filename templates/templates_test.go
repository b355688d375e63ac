package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestPage_EscapesTitleAndShowsUser(t *testing.T) {
	header := HeaderData{AppName: "ProjectMarket", User: &UserView{Email: "a<b>@example.com", IsAdmin: true}, CartCount: 2}
	got := renderString(t, Page(`<script>x</script>`, header, Message("Hi", "there")))

	for _, want := range []string{
		"<title>&lt;script&gt;x&lt;/script&gt; | ProjectMarket</title>",
		"a&lt;b&gt;@example.com",
		`<a href="/admin">Admin</a>`,
		`id="cart-badge"`,
		`px-2">2</span>`,
		`id="toast-container"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(got, "<script>x</script>") {
		t.Error("title was not escaped")
	}
}

func TestHeader_SignedOut(t *testing.T) {
	got := renderString(t, Header(HeaderData{AppName: "ProjectMarket"}))
	if !strings.Contains(got, `href="/login"`) || strings.Contains(got, "/admin") {
		t.Errorf("unexpected signed-out header: %s", got)
	}
}

func TestCartBadge(t *testing.T) {
	tests := []struct {
		count    int
		wantSpan bool
	}{
		{0, false},
		{3, true},
	}
	for _, tt := range tests {
		got := renderString(t, CartBadge(tt.count))
		if strings.Contains(got, "<span") != tt.wantSpan {
			t.Errorf("CartBadge(%d) = %s", tt.count, got)
		}
		if !strings.Contains(got, `hx-swap-oob="true"`) {
			t.Errorf("CartBadge(%d) is not out-of-band", tt.count)
		}
	}
}

func TestPricePanel(t *testing.T) {
	priced := renderString(t, PricePanel(PriceView{TotalLabel: "$70.00", BundleTitle: "Bundle (UI & Code)"}))
	if !strings.Contains(priced, "Bundle (UI &amp; Code)") || !strings.Contains(priced, `data-testid="bundle-price">$70.00`) {
		t.Errorf("priced panel = %s", priced)
	}

	unpriced := renderString(t, PricePanel(PriceView{TotalLabel: "$0.00", Unpriced: true}))
	if !strings.Contains(unpriced, "not sold separately") || strings.Contains(unpriced, "bundle-price") {
		t.Errorf("unpriced panel = %s", unpriced)
	}
}

func TestCartContent(t *testing.T) {
	empty := renderString(t, CartContent(CartData{}))
	if !strings.Contains(empty, "Your cart is empty.") || strings.Contains(empty, "cart-total") {
		t.Errorf("empty cart = %s", empty)
	}

	full := renderString(t, CartContent(CartData{
		Lines: []CartLineView{{ID: "p1-UI", Title: `Fish "&" Chips`, UnitLabel: "$5.00", Quantity: 2, LineTotalLabel: "$10.00"}},
		Summary: CartSummaryView{Count: 2, SubtotalLabel: "$10.00", TaxLabel: "$1.00", TaxPercent: "10%",
			TotalLabel: "$11.00"},
	}))
	for _, want := range []string{
		`alt="Fish &#34;&amp;&#34; Chips"`,
		`hx-delete="/cart/items/p1-UI"`,
		`value="2"`,
		"Tax (10%)",
		`data-testid="cart-total">$11.00`,
	} {
		if !strings.Contains(full, want) {
			t.Errorf("cart missing %q", want)
		}
	}
}

func TestAdminProjectForm_EditAction(t *testing.T) {
	form := AdminProjectFormData{
		ID:         "abc",
		Values:     map[string]string{"category": "Blockchain", "is_featured": "true"},
		Errors:     map[string]string{"title": "cannot be blank"},
		Categories: []string{"Blockchain", "Mobile Apps"},
	}
	got := renderString(t, AdminProjectForm(form))
	for _, want := range []string{
		`action="/admin/projects/abc/save"`,
		`value="Blockchain" selected`,
		`name="is_featured" checked`,
		"cannot be blank",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("form missing %q", want)
		}
	}
}

func TestStack(t *testing.T) {
	got := renderString(t, Stack(Message("One", "a"), nil, Message("Two", "b")))
	if strings.Index(got, "One") > strings.Index(got, "Two") {
		t.Errorf("Stack order wrong: %s", got)
	}
}

func TestHeader_LinksProfileByName(t *testing.T) {
	tests := []struct {
		name string
		user UserView
		want string
	}{
		{"name shown", UserView{Email: "jo@example.com", Name: "Jo <Dev>"}, ">Jo &lt;Dev&gt;</a>"},
		{"falls back to email", UserView{Email: "jo@example.com", Name: "  "}, ">jo@example.com</a>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderString(t, Header(HeaderData{AppName: "ProjectMarket", User: &tt.user}))
			if !strings.Contains(got, `href="/profile"`) || !strings.Contains(got, tt.want) {
				t.Errorf("header = %s", got)
			}
		})
	}
}

func TestAuthForm_NameOnlyOnRegister(t *testing.T) {
	register := renderString(t, AuthForm(AuthFormData{Register: true, Name: "Ada", Redirect: "/cart"}))
	for _, want := range []string{`action="/register"`, `name="name"`, `value="Ada"`, `name="password_confirm"`, `value="/cart"`} {
		if !strings.Contains(register, want) {
			t.Errorf("register form missing %q", want)
		}
	}

	login := renderString(t, AuthForm(AuthFormData{}))
	if !strings.Contains(login, `action="/login"`) || strings.Contains(login, `name="name"`) {
		t.Errorf("login form = %s", login)
	}
}

func TestProfileContent(t *testing.T) {
	got := renderString(t, ProfileContent(ProfileData{
		Initial:     "A",
		DisplayName: "Ada <Lovelace>",
		Email:       "ada@example.com",
		MemberSince: "March 2026",
		Bio:         "Builds engines",
		Links:       []ProfileLink{{Label: "GitHub", URL: "https://github.com/ada"}, {Label: "Website", URL: "javascript:alert(1)"}},
		Values:      map[string]string{"name": "Ada", "github": "nope"},
		Errors:      map[string]string{"github": "must be a valid URL"},
	}))
	for _, want := range []string{
		`id="profile-content"`,
		"Ada &lt;Lovelace&gt;",
		"Member since March 2026",
		`data-testid="profile-bio">Builds engines`,
		`href="https://github.com/ada"`,
		`value="nope"`,
		"must be a valid URL",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("profile missing %q", want)
		}
	}
	if strings.Contains(got, "javascript:") {
		t.Error("unsafe link was rendered")
	}
}
