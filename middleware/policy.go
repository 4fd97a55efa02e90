package middleware

import (
	"strings"

	"secure-dashboard/models"
)

type Tier int

const (
	TierDefaultProtected Tier = iota
	TierPublic
	TierProtected
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierProtected:
		return "protected"
	default:
		return "default-protected"
	}
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

// RoutePolicy classifies paths into tiers. Patterns match exactly, or as a
// prefix when they end in "/*". Paths matching neither list are
// default-protected.
type RoutePolicy struct {
	Public    []string
	Protected []string
}

// DefaultPolicy is the dashboard's route table.
func DefaultPolicy() RoutePolicy {
	return RoutePolicy{
		Public:    []string{models.HomePath, models.LoginPath, models.HealthPath, "/static/*"},
		Protected: []string{models.RecordPath},
	}
}

func (p RoutePolicy) Tier(path string) Tier {
	if matchAny(p.Public, path) {
		return TierPublic
	}
	if matchAny(p.Protected, path) {
		return TierProtected
	}
	return TierDefaultProtected
}

// Authorize decides whether a request for path may proceed given the
// caller's session, which may be nil.
func (p RoutePolicy) Authorize(path string, session *models.Session) Decision {
	if p.Tier(path) == TierPublic {
		return Allow
	}
	if session != nil && session.Authenticated() {
		return Allow
	}
	return Deny
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if pattern == path {
			return true
		}
	}
	return false
}
