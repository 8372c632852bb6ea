package devserver

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/utpal03/portalkit/log"
)

// Sweeper periodically purges expired refresh tokens so logged-out and
// stale sessions do not accumulate in the database.
type Sweeper struct {
	cron   *cron.Cron
	db     *gorm.DB
	logger *log.Logger
}

// NewSweeper schedules the purge on the given cron spec.
func NewSweeper(db *gorm.DB, schedule string, logger *log.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = log.G
	}

	s := &Sweeper{
		cron:   cron.New(),
		db:     db,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins the schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	res := s.db.Where("expires_at < ?", time.Now()).Delete(&RefreshToken{})
	if res.Error != nil {
		s.logger.Error().Err(res.Error).Msg("refresh token sweep failed")
		return
	}
	if res.RowsAffected > 0 {
		s.logger.Info().Int64("purged", res.RowsAffected).Msg("expired refresh tokens purged")
	}
}
