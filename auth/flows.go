package auth

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/utpal03/portalkit/errors"
	"github.com/utpal03/portalkit/httpclient"
	"github.com/utpal03/portalkit/log"
	"github.com/utpal03/portalkit/session"
	"github.com/utpal03/portalkit/validator"
)

// ErrNoDashboard is returned by Login when the backend grants neither a
// doctor nor a patient role. The session is stored anyway so the caller
// can inspect it.
var ErrNoDashboard = errors.New(errors.KindInternal, 0, "no dashboard route for granted roles")

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileImage is an optional signup upload. A non-nil image switches the
// signup request to multipart encoding.
type ProfileImage struct {
	Filename string
	Content  io.Reader
}

// SignupForm is the registration payload. The patient and doctor sections
// are validated according to the variant the form is submitted as.
type SignupForm struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" validate:"required,len=10,numeric"`

	// Patient fields.
	Age        int    `json:"age,omitempty"`
	BloodGroup string `json:"bloodGroup,omitempty"`

	// Doctor fields.
	Department       string   `json:"department,omitempty"`
	LicenseNumber    string   `json:"licenseNumber,omitempty"`
	ConsultationFees string   `json:"consultationFees,omitempty"`
	AvailableDays    []string `json:"availableDays,omitempty"`

	Role         string        `json:"role"`
	ProfileImage *ProfileImage `json:"-"`
}

// Client drives the authentication flows: login, signup, forgot-password
// and logout. Login and logout write through the session store; the other
// flows never touch it.
type Client struct {
	baseURL  string
	http     *httpclient.Client
	store    session.Store
	nav      Navigator
	validate validator.Validator
	logger   *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientHTTP sets the underlying HTTP client.
func WithClientHTTP(client *httpclient.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

// WithClientNavigator sets the navigation sink.
func WithClientNavigator(nav Navigator) ClientOption {
	return func(c *Client) {
		c.nav = nav
	}
}

// WithClientValidator sets the form validator.
func WithClientValidator(v validator.Validator) ClientOption {
	return func(c *Client) {
		c.validate = v
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an auth flow client over the given session store.
func NewClient(baseURL string, store session.Store, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     httpclient.New(),
		store:    store,
		nav:      NopNavigator(),
		validate: validator.Validate,
		logger:   log.G,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type loginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ID           int64    `json:"id"`
	Roles        []string `json:"roles"`
}

// Login authenticates against the doctor or patient login endpoint. On
// success the whole session is stored in one atomic write and the user is
// navigated to the dashboard matching their role.
func (c *Client) Login(ctx context.Context, typ LoginType, creds Credentials) (*session.Session, error) {
	if err := c.validate.StructCtx(ctx, &creds); err != nil {
		return nil, validationError(err)
	}

	var out loginResponse
	resp, err := c.http.Post(httpclient.JoinURL(c.baseURL, typ.LoginEndpoint()), creds,
		httpclient.WithContext(ctx),
	)
	if err != nil {
		return nil, errors.Network(err, "login did not reach the backend")
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		c.logger.Warn().Int("status", resp.StatusCode).Str("type", string(typ)).Msg("login rejected")
		return nil, errors.Credential(resp.StatusCode, "%s", rejectionMessage(resp, "invalid username or password"))
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Internal("malformed login response").WithCause(err)
	}

	s := session.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		UserID:       out.ID,
		Roles:        session.NormalizeRoles(out.Roles),
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, errors.Internal("persist session").WithCause(err)
	}

	c.logger.Info().Int64("user_id", s.UserID).Msg("login succeeded")

	switch {
	case s.HasRole(string(session.RoleDoctor)):
		c.nav.Navigate(RouteDoctorDashboard)
	case s.HasRole(string(session.RolePatient)):
		c.nav.Navigate(RoutePatientDashboard)
	default:
		return &s, ErrNoDashboard
	}

	return &s, nil
}

// Signup registers a new doctor or patient. The request is JSON unless a
// profile image is attached, in which case it switches to multipart. On
// success the user is navigated to the login page; nothing is stored.
func (c *Client) Signup(ctx context.Context, typ LoginType, form SignupForm) error {
	form.Role = strings.ToUpper(string(typ))

	if err := c.validate.StructCtx(ctx, &form); err != nil {
		return validationError(err)
	}
	if err := validateVariant(typ, &form); err != nil {
		return err
	}

	var (
		body        any
		contentType = httpclient.ContentTypeJSON
		err         error
	)
	if form.ProfileImage != nil {
		body, contentType, err = multipartForm(&form)
		if err != nil {
			return errors.Internal("encode signup form").WithCause(err)
		}
	} else {
		body = form
	}

	resp, err := c.http.Post(httpclient.JoinURL(c.baseURL, typ.SignupEndpoint()), body,
		httpclient.WithContext(ctx),
		httpclient.WithHeader(map[string]string{httpclient.HeaderContentType: contentType}),
	)
	if err != nil {
		return errors.Network(err, "signup did not reach the backend")
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		c.logger.Warn().Int("status", resp.StatusCode).Str("type", string(typ)).Msg("signup rejected")
		return errors.Credential(resp.StatusCode, "%s", rejectionMessage(resp, "signup failed"))
	}

	c.logger.Info().Str("type", string(typ)).Msg("signup succeeded")
	c.nav.Navigate(RouteLogin)

	return nil
}

// ForgotPassword requests a password reset mail. The returned message is
// the backend's confirmation text.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := c.validate.Var(email, "required,email"); err != nil {
		return "", errors.Validation("enter a valid email address").WithCause(err)
	}

	resp, err := c.http.Post(httpclient.JoinURL(c.baseURL, EndpointForgotPassword),
		map[string]string{"email": email},
		httpclient.WithContext(ctx),
	)
	if err != nil {
		return "", errors.Network(err, "password reset request did not reach the backend")
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return "", errors.Credential(resp.StatusCode, "%s", rejectionMessage(resp, "password reset failed"))
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		out.Message = "password reset mail sent"
	}

	return out.Message, nil
}

// Logout revokes the refresh token at the backend and clears the session.
// The local session is only cleared once the backend confirms revocation;
// with no refresh token on hand the clear happens unconditionally.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken, err := c.store.RefreshToken(ctx)
	if err != nil && !stderrors.Is(err, session.ErrNotFound) {
		return errors.Internal("read refresh token").WithCause(err)
	}

	if refreshToken == "" {
		if err := c.store.Clear(ctx); err != nil {
			return errors.Internal("clear session").WithCause(err)
		}
		c.nav.Navigate(RouteLogin)
		return nil
	}

	resp, err := c.http.Post(httpclient.JoinURL(c.baseURL, EndpointLogout), nil,
		httpclient.WithContext(ctx),
		httpclient.WithHeader(map[string]string{httpclient.HeaderAuthorization: refreshToken}),
	)
	if err != nil {
		return errors.Network(err, "logout did not reach the backend")
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("logout rejected, session kept")
		return errors.New(errors.KindInternal, resp.StatusCode, "logout rejected")
	}

	if err := c.store.Clear(ctx); err != nil {
		return errors.Internal("clear session").WithCause(err)
	}

	c.logger.Info().Msg("logout succeeded")
	c.nav.Navigate(RouteLogin)

	return nil
}

// validateVariant enforces the fields the doctor and patient forms each
// require beyond the shared ones.
func validateVariant(typ LoginType, form *SignupForm) error {
	if typ == LoginDoctor {
		switch {
		case form.Department == "":
			return errors.Validation("department is required")
		case form.LicenseNumber == "":
			return errors.Validation("license number is required")
		case form.ConsultationFees == "":
			return errors.Validation("consultation fees are required")
		case len(form.AvailableDays) == 0:
			return errors.Validation("at least one available day is required")
		}
		return nil
	}

	switch {
	case form.Age <= 0:
		return errors.Validation("age is required")
	case form.BloodGroup == "":
		return errors.Validation("blood group is required")
	}
	return nil
}

func validationError(err error) error {
	var verrs *validator.Errors
	if stderrors.As(err, &verrs) && len(verrs.Fields) > 0 {
		f := verrs.Fields[0]
		return errors.Validation("%s", f.Message).WithCause(err)
	}
	return errors.Validation("invalid form input").WithCause(err)
}

// rejectionMessage extracts the backend's error message, falling back to
// a generic one.
func rejectionMessage(resp *http.Response, fallback string) string {
	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<14)).Decode(&out); err == nil && out.Message != "" {
		return out.Message
	}
	return fallback
}

// multipartForm encodes the signup form as multipart/form-data with the
// profile image as a file part.
func multipartForm(form *SignupForm) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":        form.Name,
		"email":       form.Email,
		"username":    form.Username,
		"password":    form.Password,
		"phoneNumber": form.PhoneNumber,
		"role":        form.Role,
	}
	if form.Age > 0 {
		fields["age"] = strconv.Itoa(form.Age)
	}
	if form.BloodGroup != "" {
		fields["bloodGroup"] = form.BloodGroup
	}
	if form.Department != "" {
		fields["department"] = form.Department
	}
	if form.LicenseNumber != "" {
		fields["licenseNumber"] = form.LicenseNumber
	}
	if form.ConsultationFees != "" {
		fields["consultationFees"] = form.ConsultationFees
	}
	if len(form.AvailableDays) > 0 {
		days, err := json.Marshal(form.AvailableDays)
		if err != nil {
			return nil, "", err
		}
		fields["availableDays"] = string(days)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("profileImage", form.ProfileImage.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, form.ProfileImage.Content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
