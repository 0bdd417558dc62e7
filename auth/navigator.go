package auth

// LoginRoute is where an unauthenticated user is sent
const LoginRoute = "/login"

// Navigator moves the user to another route
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// PendingNavigation records the last requested route so a caller can act on it later,
// for example by answering with an HTTP redirect
type PendingNavigation struct {
	route string
}

func (p *PendingNavigation) Navigate(route string) {
	p.route = route
}

// Route returns the requested route, "" when nothing navigated
func (p *PendingNavigation) Route() string {
	return p.route
}
