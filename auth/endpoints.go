package auth

// API endpoints exposed by the portal backend.
const (
	EndpointLoginDoctor    = "/login/doctor"
	EndpointLoginPatient   = "/login/patient"
	EndpointSignupDoctor   = "/signup/doctor"
	EndpointSignupPatient  = "/signup/patient"
	EndpointForgotPassword = "/auth/forgot-password"
	EndpointRefreshToken   = "/refresh-token"
	EndpointLogout         = "/logout"
)

// Client-side routes the flows navigate to.
const (
	RouteLogin            = "/login"
	RouteHome             = "/"
	RouteDoctorDashboard  = "/doctor/dashboard"
	RoutePatientDashboard = "/patient/dashboard"
)

// LoginType selects the doctor or patient variant of login and signup.
type LoginType string

const (
	LoginDoctor  LoginType = "doctor"
	LoginPatient LoginType = "patient"
)

// LoginEndpoint returns the login endpoint for the given variant.
func (t LoginType) LoginEndpoint() string {
	if t == LoginDoctor {
		return EndpointLoginDoctor
	}
	return EndpointLoginPatient
}

// SignupEndpoint returns the signup endpoint for the given variant.
func (t LoginType) SignupEndpoint() string {
	if t == LoginDoctor {
		return EndpointSignupDoctor
	}
	return EndpointSignupPatient
}
