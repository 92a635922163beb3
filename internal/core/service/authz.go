package service

import (
	"strings"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// DenyLogin rejects an unauthenticated caller; the HTTP layer turns
	// this into a redirect to the login page.
	DenyLogin
	// DenyForbidden rejects an authenticated caller whose role is
	// insufficient for the path.
	DenyForbidden
)

// AnonymousRole marks an unauthenticated caller.
const AnonymousRole = ""

type authzRule struct {
	prefix    string
	exact     bool
	adminOnly bool
	public    bool
}

// authzRules is evaluated top-down, first match wins. Paths matched by no
// rule require an authenticated caller of any role.
var authzRules = []authzRule{
	{prefix: "/", exact: true, public: true},
	{prefix: "/login", public: true},
	{prefix: "/register", public: true},
	{prefix: "/auth/signup", public: true},
	{prefix: "/api/check-username", public: true},
	{prefix: "/api/check-email", public: true},
	{prefix: "/css/", public: true},
	{prefix: "/js/", public: true},
	{prefix: "/images/", public: true},
	{prefix: "/health", public: true},
	{prefix: "/metrics", public: true},
	{prefix: "/admin/", adminOnly: true},
}

// Authorize decides whether a caller with the given role may reach path.
// It inspects nothing but the path and the resolved role: request bodies,
// headers and identifiers never influence the decision.
func Authorize(path, role string) Decision {
	authenticated := role != AnonymousRole

	for _, rule := range authzRules {
		if rule.exact {
			if path != rule.prefix {
				continue
			}
		} else if !strings.HasPrefix(path, rule.prefix) {
			continue
		}

		if rule.public {
			return Allow
		}
		if rule.adminOnly {
			switch {
			case !authenticated:
				return DenyLogin
			case role != domain.RoleAdmin:
				return DenyForbidden
			default:
				return Allow
			}
		}
	}

	if !authenticated {
		return DenyLogin
	}
	return Allow
}
