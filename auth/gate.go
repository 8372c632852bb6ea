package auth

import (
	"context"
	stderrors "errors"

	"github.com/utpal03/portalkit/log"
	"github.com/utpal03/portalkit/session"
)

// Decision is the outcome of a route guard check.
type Decision int

const (
	// Allow renders the requested route.
	Allow Decision = iota

	// RedirectLogin sends an unauthenticated visitor to the login page.
	RedirectLogin

	// RedirectHome sends an authenticated visitor without the required
	// role back to the landing page.
	RedirectHome
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Route returns the client route to navigate to, or "" for Allow.
func (d Decision) Route() string {
	switch d {
	case RedirectLogin:
		return RouteLogin
	case RedirectHome:
		return RouteHome
	default:
		return ""
	}
}

// Gate decides whether the current session may render a guarded route.
// It holds no state of its own: every Evaluate reads the store fresh, so
// a login or logout in another part of the app is picked up immediately.
type Gate struct {
	store  session.Store
	logger *log.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger.
func WithGateLogger(logger *log.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a route guard over the given session store.
func NewGate(store session.Store, opts ...GateOption) *Gate {
	g := &Gate{
		store:  store,
		logger: log.G,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Evaluate checks the session against a guarded route. An empty
// requiredRole guards only on authentication. Unreadable session state
// fails closed to RedirectLogin.
func (g *Gate) Evaluate(ctx context.Context, requiredRole string) Decision {
	token, err := g.store.AccessToken(ctx)
	if err != nil && !stderrors.Is(err, session.ErrNotFound) {
		g.logger.Warn().Err(err).Msg("session unreadable, gate fails closed")
		return RedirectLogin
	}
	if token == "" {
		return RedirectLogin
	}

	roles, err := g.store.Roles(ctx)
	if err != nil {
		// Corrupt role data has already destroyed the session by the
		// time the store reports it.
		g.logger.Warn().Err(err).Msg("role data unreadable, gate fails closed")
		return RedirectLogin
	}

	// A route without a role requirement gates on authentication alone,
	// and so does a session that carries no roles at all.
	if requiredRole == "" || len(roles) == 0 {
		return Allow
	}

	for _, r := range roles {
		if r.Matches(requiredRole) {
			return Allow
		}
	}

	return RedirectHome
}
