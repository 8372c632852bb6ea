package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/utpal03/portalkit/auth"
	"github.com/utpal03/portalkit/log"
	"github.com/utpal03/portalkit/middleware"
	"github.com/utpal03/portalkit/store/db"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "userID"
	ctxKeyRoles  ctxKey = "roles"
)

// Server is a stub portal backend for local development and tests. It
// implements the same wire contract the front-end client speaks: doctor
// and patient login/signup, password reset, token refresh, logout and
// the appointment resources.
type Server struct {
	cfg     Config
	db      *gorm.DB
	tokens  *TokenService
	mailer  *Mailer
	sweeper *Sweeper
	engine  *gin.Engine
	logger  *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a stub backend over the given database.
func New(cfg Config, database *db.Client, opts ...Option) (*Server, error) {
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		db:     database.DB(),
		tokens: NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL),
		logger: log.G,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.db.AutoMigrate(&User{}, &RefreshToken{}, &Appointment{}); err != nil {
		return nil, err
	}

	mailer, err := NewMailer(cfg.MailWorkers, s.logger)
	if err != nil {
		return nil, err
	}
	s.mailer = mailer

	sweeper, err := NewSweeper(s.db, cfg.SweepSchedule, s.logger)
	if err != nil {
		mailer.Close()
		return nil, err
	}
	s.sweeper = sweeper
	s.sweeper.Start()

	s.engine = s.router()

	return s, nil
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close stops the sweeper and mailer.
func (s *Server) Close() {
	s.sweeper.Stop()
	s.mailer.Close()
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.Recovery(middleware.RecoveryConfig{StackTrace: true, Logger: s.logger}),
		middleware.Logger(middleware.LoggerConfig{SkipPaths: []string{"/health", "/metrics"}, Logger: s.logger}),
		middleware.Cors(),
	)

	throttle := middleware.RateLimitWithConfig(middleware.RateLimitConfig{
		Rate:  rate.Limit(s.cfg.LoginRate),
		Burst: s.cfg.LoginBurst,
	})

	r.POST(auth.EndpointLoginDoctor, throttle, s.login("DOCTOR"))
	r.POST(auth.EndpointLoginPatient, throttle, s.login("PATIENT"))
	r.POST(auth.EndpointSignupDoctor, s.signup("DOCTOR"))
	r.POST(auth.EndpointSignupPatient, s.signup("PATIENT"))
	r.POST(auth.EndpointForgotPassword, s.forgotPassword)
	r.POST(auth.EndpointRefreshToken, s.refreshToken)
	r.POST(auth.EndpointLogout, s.logout)

	protected := r.Group("/appointments")
	protected.Use(middleware.AuthWithConfig(middleware.AuthConfig{
		Validate: s.validateBearer,
	}))
	protected.POST("/book", s.bookAppointment)
	protected.GET("/doctor/:id", s.doctorAppointments)

	return r
}

// validateBearer checks the access token and exposes the caller identity
// to the handlers.
func (s *Server) validateBearer(c *gin.Context) (map[any]any, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return map[any]any{
		ctxKeyUserID: userID,
		ctxKeyRoles:  claims.Roles,
	}, nil
}

func callerID(c *gin.Context) int64 {
	id, _ := c.Request.Context().Value(ctxKeyUserID).(int64)
	return id
}

func callerHasRole(c *gin.Context, role string) bool {
	roles, _ := c.Request.Context().Value(ctxKeyRoles).([]string)
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
