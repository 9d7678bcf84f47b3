package sale

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/metrics"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerWorkflow = "workflow"
)

// Period is the interval between scheduled runs after the first one.
const Period = 24 * time.Hour

// Clock abstracts time for the scheduler.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{ loc *time.Location }

func (c realClock) Now() time.Time                         { return time.Now().In(c.loc) }
func (c realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns a Clock reading wall time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return realClock{loc: loc}
}

// Scheduler produces a plan once a day and on demand. The latest plan is kept in memory.
type Scheduler struct {
	planner *Planner
	clock   Clock
	log     logger.Logger
	onPlan  func(Plan)

	rngMu sync.Mutex
	rng   *rand.Rand

	mu      sync.RWMutex
	latest  *Plan
	nextRun time.Time
}

// NewScheduler returns a Scheduler. onPlan, if set, is called with every new plan.
func NewScheduler(planner *Planner, clock Clock, rng *rand.Rand, log logger.Logger, onPlan func(Plan)) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{planner: planner, clock: clock, rng: rng, log: log, onPlan: onPlan}
}

// Run blocks until ctx is done. The first run happens at NextRunTime, later runs every Period.
func (s *Scheduler) Run(ctx context.Context) {
	s.rngMu.Lock()
	next := NextRunTime(s.clock.Now(), s.rng)
	s.rngMu.Unlock()

	for {
		s.setNextRun(next)
		wait := next.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}
		s.log.Info("Next daily sale scheduled", map[string]interface{}{
			"nextRun": next.Format(time.RFC3339),
		})

		select {
		case <-ctx.Done():
			s.log.Info("Sale scheduler stopped", nil)
			return
		case <-s.clock.After(wait):
			s.Trigger(TriggerSchedule)
			next = next.Add(Period)
		}
	}
}

// Trigger creates a plan immediately and records it as the latest.
func (s *Scheduler) Trigger(trigger string) Plan {
	plan := s.planner.Plan(s.clock.Now(), trigger)

	s.mu.Lock()
	s.latest = &plan
	s.mu.Unlock()

	metrics.SalePlans.WithLabelValues(trigger).Inc()
	s.log.Info("Sale plan created", map[string]interface{}{
		"planId":     plan.ID,
		"couponCode": plan.CouponCode,
		"percentage": plan.Percentage,
		"trigger":    trigger,
	})

	if s.onPlan != nil {
		s.onPlan(plan)
	}
	return plan
}

// Latest returns the most recent plan, if any.
func (s *Scheduler) Latest() (Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Plan{}, false
	}
	return *s.latest, true
}

// NextRun returns the pending scheduled run, or the zero time before Run starts.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRun
}

func (s *Scheduler) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRun = t
	s.mu.Unlock()
}
