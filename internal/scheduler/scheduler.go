package scheduler

import (
	"time"

	"veridian_haveli_backend/internal/services"
	"veridian_haveli_backend/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reservation expiry sweep on a cron spec so stale records
// are retired even when nobody is listing reservations.
type Scheduler struct {
	cron         *cron.Cron
	reservations services.ReservationService
}

// NewScheduler creates a scheduler wired to the reservation service.
// spec is a standard cron expression, e.g. "*/15 * * * *".
func NewScheduler(rs services.ReservationService, spec string) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:         c,
		reservations: rs,
	}

	if _, err := c.AddFunc(spec, s.runSweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runSweep() {
	affected, err := s.reservations.SweepStale(time.Now())
	if err != nil {
		utils.LogError(err, "scheduler: expiry sweep failed")
		return
	}
	if affected > 0 {
		utils.LogInfo("Expiry sweep retired stale reservations", map[string]interface{}{"affected": affected})
	}
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	utils.LogInfo("Expiry sweep scheduler started")
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	utils.LogInfo("Expiry sweep scheduler stopped")
}
