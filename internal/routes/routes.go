// Package routes holds the static route catalog for the shopper and
// merchant sections and the navigation guard evaluated before every
// transition.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Section string

const (
	SectionShopper  Section = "shopper"
	SectionMerchant Section = "merchant"
)

// Well-known paths the guard redirects to.
const (
	PathHome           = "/"
	PathUserLogin      = "/login"
	PathAdminLogin     = "/admin/login"
	PathAdminDashboard = "/admin/dashboard"
)

// Route describes one navigable page. The descriptors are static
// configuration, not runtime data.
type Route struct {
	Name             string
	Path             string // chi-style pattern, e.g. /product/{id}
	Title            string
	Section          Section
	RequiresAuth     bool
	RequiresMerchant bool
}

// DefaultRoutes is the full catalog of both sections.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "Home", Path: PathHome, Title: "Home", Section: SectionShopper},
		{Name: "ProductList", Path: "/products", Title: "Products", Section: SectionShopper},
		{Name: "ProductDetail", Path: "/product/{id}", Title: "Product Detail", Section: SectionShopper},
		{Name: "Cart", Path: "/cart", Title: "Cart", Section: SectionShopper},
		{Name: "Checkout", Path: "/checkout", Title: "Confirm Order", Section: SectionShopper, RequiresAuth: true},
		{Name: "OrderList", Path: "/orders", Title: "My Orders", Section: SectionShopper, RequiresAuth: true},
		{Name: "OrderDetail", Path: "/order/{id}", Title: "Order Detail", Section: SectionShopper, RequiresAuth: true},
		{Name: "UserProfile", Path: "/profile", Title: "Profile", Section: SectionShopper, RequiresAuth: true},
		{Name: "Login", Path: PathUserLogin, Title: "Sign In", Section: SectionShopper},
		{Name: "Register", Path: "/register", Title: "Sign Up", Section: SectionShopper},
		{Name: "AnnouncementDetail", Path: "/announcement/{id}", Title: "Announcement", Section: SectionShopper},

		{Name: "AdminLogin", Path: PathAdminLogin, Title: "Merchant Sign In", Section: SectionMerchant},
		{Name: "AdminDashboard", Path: PathAdminDashboard, Title: "Overview", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminProductList", Path: "/admin/products", Title: "Products", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminProductAdd", Path: "/admin/products/add", Title: "New Product", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminProductEdit", Path: "/admin/products/edit/{id}", Title: "Edit Product", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminCategoryManage", Path: "/admin/categories", Title: "Categories", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminOrderList", Path: "/admin/orders", Title: "Orders", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminOrderDetail", Path: "/admin/orders/{id}", Title: "Order Detail", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminStatistics", Path: "/admin/statistics", Title: "Statistics", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminUserList", Path: "/admin/users", Title: "Customers", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminAnnouncementManage", Path: "/admin/announcements", Title: "Announcements", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminOperationLog", Path: "/admin/operation-log", Title: "Operation Log", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminSettings", Path: "/admin/settings", Title: "Settings", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminProfile", Path: "/admin/profile", Title: "Account", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
		{Name: "AdminSecurity", Path: "/admin/security", Title: "Security", Section: SectionMerchant, RequiresAuth: true, RequiresMerchant: true},
	}
}

// Table resolves concrete paths (e.g. /product/42) to their descriptors
// using a chi mux as the pattern matcher.
type Table struct {
	mux       *chi.Mux
	byPattern map[string]Route
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// NewTable builds a matcher over the given routes; with none given, the
// default catalog is used.
func NewTable(catalog ...Route) *Table {
	if len(catalog) == 0 {
		catalog = DefaultRoutes()
	}
	mux := chi.NewRouter()
	byPattern := make(map[string]Route, len(catalog))
	for _, route := range catalog {
		mux.Get(route.Path, noop)
		byPattern[route.Path] = route
	}
	return &Table{mux: mux, byPattern: byPattern}
}

// Resolve maps a concrete path to its route descriptor.
func (t *Table) Resolve(path string) (Route, bool) {
	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, path) {
		return Route{}, false
	}
	route, ok := t.byPattern[rctx.RoutePattern()]
	return route, ok
}

// PageTitle renders the document title for a route, suffixed by the
// section it belongs to.
func PageTitle(route Route) string {
	suffix := "Web Shop"
	if route.Section == SectionMerchant {
		suffix = "Merchant Console"
	}
	if route.Title == "" {
		return suffix
	}
	return route.Title + " - " + suffix
}
