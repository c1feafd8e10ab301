package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec fires every day at 21:00.
const DefaultSpec = "0 21 * * *"

// Scheduler runs the daily digest job.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
}

// New creates a scheduler evaluating spec in the local time zone, the same
// zone item timestamps are written in.
func New(spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.Local)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the digest job. Without a report function it does nothing.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate digests")
		return nil
	}
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.spec, err)
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Println("🕘 Triggered daily digest")
		if err := s.RunNow(); err != nil {
			log.Printf("❌ Daily digest failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - digest schedule %q", s.spec)
	return nil
}

// RunNow executes the report function once, outside the schedule.
func (s *Scheduler) RunNow() error {
	if s.reportFunc == nil {
		return nil
	}
	return s.reportFunc(s.ctx)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
