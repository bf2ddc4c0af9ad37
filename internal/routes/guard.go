package routes

import (
	"net/url"

	"github.com/javaweb/webshop-client/internal/session"
)

// SessionInfo is the slice of session state the guard needs.
type SessionInfo interface {
	IsAuthenticated() bool
	Role() session.Role
}

// Decision is the guard's verdict for one navigation attempt. A zero
// RedirectPath with Allow false never happens; callers can rely on one
// of the two being actionable.
type Decision struct {
	Allow        bool
	RedirectPath string
	ReturnTo     string
}

// RedirectURL renders the redirect target, carrying the originally
// requested path in the redirect query parameter when one was captured.
func (d Decision) RedirectURL() string {
	if d.Allow || d.RedirectPath == "" {
		return ""
	}
	if d.ReturnTo == "" {
		return d.RedirectPath
	}
	q := url.Values{}
	q.Set("redirect", d.ReturnTo)
	return d.RedirectPath + "?" + q.Encode()
}

func allowed() Decision { return Decision{Allow: true} }

func redirect(path, returnTo string) Decision {
	return Decision{RedirectPath: path, ReturnTo: returnTo}
}

// Decide evaluates the guard rules for a resolved route. It is pure: it
// reads session state, performs no I/O, and never fails. A nil session
// is treated as unauthenticated.
func Decide(route Route, sess SessionInfo) Decision {
	return decide(route, route.Path, sess)
}

// DecidePath resolves a concrete path and evaluates the guard against
// it. Unknown paths redirect to the home page.
func (t *Table) DecidePath(path string, sess SessionInfo) Decision {
	route, ok := t.Resolve(path)
	if !ok {
		return redirect(PathHome, "")
	}
	return decide(route, path, sess)
}

func decide(route Route, target string, sess SessionInfo) Decision {
	authed := sess != nil && sess.IsAuthenticated()
	role := session.RoleGuest
	if sess != nil {
		role = sess.Role()
	}

	if route.RequiresAuth && !authed {
		login := PathUserLogin
		if route.RequiresMerchant {
			login = PathAdminLogin
		}
		return redirect(login, target)
	}
	if route.RequiresMerchant && role != session.RoleMerchant {
		return redirect(PathAdminLogin, "")
	}
	// Authenticated principals skip their own login page.
	if route.Path == PathAdminLogin && authed && role == session.RoleMerchant {
		return redirect(PathAdminDashboard, "")
	}
	if route.Path == PathUserLogin && authed && role == session.RoleUser {
		return redirect(PathHome, "")
	}
	return allowed()
}
