// Package guard decides, for the current session and route, whether a screen
// may render or the navigator has to be sent elsewhere.
package guard

import "github.com/cuidadomaisfamilia/cuidado-api/internal/session"

const (
	LoginRoute          = "/login"
	SignupRoute         = "/signup"
	ForgotPasswordRoute = "/forgot-password"

	// LandingRoute is where a signed-in user lands after leaving a public screen.
	LandingRoute = "/(tabs)/professionals"
)

var publicRoutes = map[string]struct{}{
	LoginRoute:          {},
	SignupRoute:         {},
	ForgotPasswordRoute: {},
}

// IsPublic reports whether path is reachable without a session. Matching is
// exact.
func IsPublic(path string) bool {
	_, ok := publicRoutes[path]
	return ok
}

type Status int

const (
	Loading Status = iota
	UnauthenticatedOnPublic
	UnauthenticatedOnProtected
	AuthenticatedOnPublic
	AuthenticatedOnProtected
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case UnauthenticatedOnPublic:
		return "unauthenticated_on_public"
	case UnauthenticatedOnProtected:
		return "unauthenticated_on_protected"
	case AuthenticatedOnPublic:
		return "authenticated_on_public"
	case AuthenticatedOnProtected:
		return "authenticated_on_protected"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one evaluation. Redirect is empty when the
// requested screen renders as is.
type Decision struct {
	Status   Status
	Path     string
	Redirect string
}

// ShowSpinner is true while the session is still being resolved.
func (d Decision) ShowSpinner() bool {
	return d.Status == Loading
}

func (d Decision) Renders() bool {
	return d.Status == UnauthenticatedOnPublic || d.Status == AuthenticatedOnProtected
}

// Classify applies the transition rule to a session snapshot and a route.
func Classify(state session.State, path string) Decision {
	d := Decision{Path: path}
	public := IsPublic(path)

	switch {
	case state.Loading:
		d.Status = Loading
	case !state.IsAuthenticated() && !public:
		d.Status = UnauthenticatedOnProtected
		d.Redirect = LoginRoute
	case state.IsAuthenticated() && public:
		d.Status = AuthenticatedOnPublic
		d.Redirect = LandingRoute
	case public:
		d.Status = UnauthenticatedOnPublic
	default:
		d.Status = AuthenticatedOnProtected
	}
	return d
}
