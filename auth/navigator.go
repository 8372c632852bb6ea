package auth

// Navigator receives route changes requested by auth flows. In a browser
// shell this maps to history navigation; tests and headless callers can
// record or ignore it.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

// NopNavigator discards navigation requests.
func NopNavigator() Navigator {
	return NavigatorFunc(func(string) {})
}
