package devserver

import (
	"github.com/panjf2000/ants/v2"

	"github.com/utpal03/portalkit/log"
)

// Mailer delivers password reset mails off the request path. In the stub
// it only logs the delivery; the worker pool and async hand-off mirror
// what a real mailer would do.
type Mailer struct {
	pool   *ants.Pool
	logger *log.Logger
}

// NewMailer creates a mailer with the given number of workers.
func NewMailer(workers int, logger *log.Logger) (*Mailer, error) {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = log.G
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &Mailer{pool: pool, logger: logger}, nil
}

// SendPasswordReset queues a reset mail for the address. A full pool
// drops the mail with a warning rather than blocking the request.
func (m *Mailer) SendPasswordReset(email string) {
	err := m.pool.Submit(func() {
		m.logger.Info().Str("email", email).Msg("password reset mail sent")
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("email", email).Msg("reset mail dropped")
	}
}

// Close releases the worker pool.
func (m *Mailer) Close() {
	m.pool.Release()
}
