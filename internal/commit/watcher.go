package commit

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how often the watcher runs a regeneration tick.
const DefaultPollInterval = 10 * time.Second

// Watcher runs regeneration ticks for every learner on a schedule.
type Watcher struct {
	committer *Committer
	scheduler *gocron.Scheduler
	interval  time.Duration
	logger    logrus.FieldLogger
}

// NewWatcher creates a Watcher ticking every interval.
func NewWatcher(c *Committer, interval time.Duration, logger logrus.FieldLogger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = c.logger
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Watcher{committer: c, scheduler: s, interval: interval, logger: logger}
}

// Start schedules the tick and returns immediately. Ticks stop when ctx is
// done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.scheduler.Every(w.interval).Do(w.Tick, ctx); err != nil {
		return err
	}
	w.scheduler.StartAsync()
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	w.logger.WithField("interval", w.interval).Info("lives watcher started")
	return nil
}

// Stop terminates the schedule.
func (w *Watcher) Stop() {
	if w.scheduler.IsRunning() {
		w.scheduler.Stop()
	}
}

// Tick regenerates lives for everyone once.
func (w *Watcher) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := w.committer.RegenerateAll(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("lives tick had failures")
	}
	if n > 0 {
		w.logger.WithField("learners", n).Info("lives regenerated")
	}
}
