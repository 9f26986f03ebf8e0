package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

const intervalJobName = "periodic-rebuild"

// scheduler wraps a gocron scheduler running the periodic rebuild job.
type scheduler struct {
	s gocron.Scheduler
}

// newScheduler schedules request every interval. The first run happens one
// interval after start.
func newScheduler(interval time.Duration, request func()) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(request),
		gocron.WithName(intervalJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	slog.Debug("Periodic rebuild scheduled", logfields.Job(job.Name()), slog.Duration("interval", interval))
	return &scheduler{s: s}, nil
}

func (s *scheduler) start() { s.s.Start() }

func (s *scheduler) stop() {
	if err := s.s.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
}
