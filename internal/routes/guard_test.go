package routes

import (
	"testing"

	"github.com/javaweb/webshop-client/internal/session"
)

type stubSession struct {
	authed bool
	role   session.Role
}

func (s stubSession) IsAuthenticated() bool { return s.authed }
func (s stubSession) Role() session.Role    { return s.role }

var (
	guest    = stubSession{role: session.RoleGuest}
	shopper  = stubSession{authed: true, role: session.RoleUser}
	merchant = stubSession{authed: true, role: session.RoleMerchant}
)

func TestResolveConcretePaths(t *testing.T) {
	table := NewTable()

	cases := []struct {
		path string
		name string
	}{
		{"/", "Home"},
		{"/product/42", "ProductDetail"},
		{"/cart", "Cart"},
		{"/admin/products/edit/9", "AdminProductEdit"},
		{"/admin/orders/1001", "AdminOrderDetail"},
		{"/announcement/3", "AnnouncementDetail"},
	}
	for _, tc := range cases {
		route, ok := table.Resolve(tc.path)
		if !ok {
			t.Fatalf("Resolve(%s): no match", tc.path)
		}
		if route.Name != tc.name {
			t.Errorf("Resolve(%s) = %s, want %s", tc.path, route.Name, tc.name)
		}
	}

	if _, ok := table.Resolve("/no/such/page"); ok {
		t.Error("unknown path resolved")
	}
}

func TestGuardRedirectsUnauthenticatedToLogin(t *testing.T) {
	table := NewTable()

	d := table.DecidePath("/orders", guest)
	if d.Allow {
		t.Fatal("guest allowed onto /orders")
	}
	if d.RedirectPath != PathUserLogin || d.ReturnTo != "/orders" {
		t.Errorf("got redirect %s return %s", d.RedirectPath, d.ReturnTo)
	}
	if url := d.RedirectURL(); url != "/login?redirect=%2Forders" {
		t.Errorf("RedirectURL() = %s", url)
	}
}

func TestGuardRedirectsUnauthenticatedToAdminLogin(t *testing.T) {
	table := NewTable()

	d := table.DecidePath("/admin/statistics", guest)
	if d.Allow || d.RedirectPath != PathAdminLogin {
		t.Fatalf("got %+v", d)
	}
	if d.ReturnTo != "/admin/statistics" {
		t.Errorf("return path = %s", d.ReturnTo)
	}
}

func TestGuardRejectsShopperFromMerchantSection(t *testing.T) {
	table := NewTable()

	d := table.DecidePath("/admin/dashboard", shopper)
	if d.Allow {
		t.Fatal("shopper allowed into merchant section")
	}
	if d.RedirectPath != PathAdminLogin || d.ReturnTo != "" {
		t.Errorf("got %+v", d)
	}
}

func TestGuardAllowsAuthenticatedShopper(t *testing.T) {
	table := NewTable()

	for _, path := range []string{"/orders", "/profile", "/checkout", "/order/5"} {
		if d := table.DecidePath(path, shopper); !d.Allow {
			t.Errorf("shopper blocked from %s: %+v", path, d)
		}
	}
}

func TestGuardSkipsLoginPagesWhenAuthenticated(t *testing.T) {
	table := NewTable()

	d := table.DecidePath(PathAdminLogin, merchant)
	if d.Allow || d.RedirectPath != PathAdminDashboard {
		t.Errorf("merchant on admin login: %+v", d)
	}

	d = table.DecidePath(PathUserLogin, shopper)
	if d.Allow || d.RedirectPath != PathHome {
		t.Errorf("shopper on login: %+v", d)
	}

	// A merchant browsing the storefront login page is let through.
	if d := table.DecidePath(PathUserLogin, merchant); !d.Allow {
		t.Errorf("merchant on shopper login: %+v", d)
	}
}

func TestGuardAllowsPublicPages(t *testing.T) {
	table := NewTable()

	for _, path := range []string{"/", "/products", "/product/7", "/cart", "/register"} {
		if d := table.DecidePath(path, guest); !d.Allow {
			t.Errorf("guest blocked from %s: %+v", path, d)
		}
	}
}

func TestGuardUnknownPathGoesHome(t *testing.T) {
	table := NewTable()

	d := table.DecidePath("/definitely/not/registered", shopper)
	if d.Allow || d.RedirectPath != PathHome {
		t.Errorf("got %+v", d)
	}
	if url := d.RedirectURL(); url != PathHome {
		t.Errorf("RedirectURL() = %s", url)
	}
}

func TestGuardNilSessionIsGuest(t *testing.T) {
	d := Decide(Route{Path: "/orders", RequiresAuth: true}, nil)
	if d.Allow || d.RedirectPath != PathUserLogin {
		t.Errorf("got %+v", d)
	}
}

func TestPageTitle(t *testing.T) {
	if got := PageTitle(Route{Title: "Cart", Section: SectionShopper}); got != "Cart - Web Shop" {
		t.Errorf("got %s", got)
	}
	if got := PageTitle(Route{Title: "Overview", Section: SectionMerchant}); got != "Overview - Merchant Console" {
		t.Errorf("got %s", got)
	}
	if got := PageTitle(Route{Section: SectionShopper}); got != "Web Shop" {
		t.Errorf("got %s", got)
	}
}
