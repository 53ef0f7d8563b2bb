package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jandrly/kancl/internal/api/metrics"
)

// DisabledSchedule turns the sweep off.
const DisabledSchedule = "off"

const sweepTimeout = time.Minute

// SessionSweeper deletes expired sessions. Read paths reject expired sessions
// on their own, so the sweep only keeps the collection small.
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper SessionSweeper
	spec    string
	log     zerolog.Logger
}

// NewScheduler accepts standard five-field cron expressions and descriptors
// such as "@hourly" or "@every 30m".
func NewScheduler(sweeper SessionSweeper, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if s.spec == "" || s.spec == DisabledSchedule {
		s.log.Info().Msg("session sweep disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.sweepSessions); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.spec).Msg("session sweep scheduled")
	return nil
}

// Stop waits for a running sweep to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	metrics.SessionsSweptTotal.Add(float64(n))
	s.log.Debug().Int64("deleted", n).Msg("expired sessions swept")
}
