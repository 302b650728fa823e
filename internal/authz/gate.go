package authz

import "github.com/agendahub/agenda-backend/pkg/enums"

// Decision is the outcome of evaluating a protected route.
type Decision int

const (
	// Pending means the auth state or role is still being resolved; the
	// caller must hold the request rather than deny it.
	Pending Decision = iota
	// RedirectLogin means no authenticated identity is present.
	RedirectLogin
	// RedirectUnauthorized means the identity is known but its role is not
	// admitted to the route.
	RedirectUnauthorized
	// Allow admits the request.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Snapshot is the gate's view of the requester at evaluation time. The two
// Resolved flags model the asynchronous lookups: authentication and role
// resolution can each still be in flight.
type Snapshot struct {
	AuthResolved  bool
	Authenticated bool
	RoleResolved  bool
	Role          enums.Role
}

// Evaluate decides what to do with a request to a protected route. It is a
// pure function of the snapshot and the allowed role set: no clock, no IO.
// Unresolved state always yields Pending, never a premature redirect.
func Evaluate(s Snapshot, allowed ...enums.Role) Decision {
	if !s.AuthResolved {
		return Pending
	}
	if !s.Authenticated {
		return RedirectLogin
	}
	if !s.RoleResolved {
		return Pending
	}
	if err := Authorize(s.Role, allowed...); err != nil {
		return RedirectUnauthorized
	}
	return Allow
}
