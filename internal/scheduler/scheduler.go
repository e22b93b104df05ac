package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/circulation-desk/internal/config"
	"github.com/segyhp/circulation-desk/internal/domain"
	"github.com/segyhp/circulation-desk/internal/logger"
)

// OverdueSweeper marks loans overdue as of a point in time
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) ([]*domain.Loan, error)
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron    *cron.Cron
	sweeper OverdueSweeper
	now     func() time.Time
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler running the overdue sweep on the
// configured schedule and timezone.
func NewScheduler(cfg *config.Config, sweeper OverdueSweeper) (*Scheduler, error) {
	loc := cfg.GetLocation()
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    c,
		sweeper: sweeper,
		now:     func() time.Time { return time.Now().In(loc) },
		log:     logger.WithService("scheduler"),
		ctx:     ctx,
		cancel:  cancel,
	}

	if _, err := s.cron.AddFunc(cfg.Scheduler.OverdueSweep, s.RunOverdueSweep); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to register overdue sweep %q: %w", cfg.Scheduler.OverdueSweep, err)
	}

	s.log.Info("cron jobs registered", "overdue_sweep", cfg.Scheduler.OverdueSweep, "timezone", loc.String())
	return s, nil
}

// RunOverdueSweep runs one sweep as of now. Failures are logged; the next
// scheduled run tries again.
func (s *Scheduler) RunOverdueSweep() {
	asOf := s.now()
	overdue, err := s.sweeper.SweepOverdue(s.ctx, asOf)
	if err != nil {
		s.log.Error("overdue sweep failed", "error", err)
		return
	}

	for _, loan := range overdue {
		s.log.Info("loan overdue",
			"loan_id", loan.ID(),
			"book_id", loan.Book().ID(),
			"member_id", loan.Borrower().ID(),
			"due_date", loan.DueDate().Format(time.DateOnly))
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.log.Info("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for a running sweep to finish and stops the scheduler
func (s *Scheduler) Stop() {
	s.log.Info("stopping cron scheduler")
	<-s.cron.Stop().Done()
	s.cancel()
	s.log.Info("cron scheduler stopped")
}

// NextRun reports when the overdue sweep fires next
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(s.now())
}
