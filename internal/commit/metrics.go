package commit

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the committer's collectors.
type Metrics struct {
	Sessions         *prometheus.CounterVec
	Retries          prometheus.Counter
	LivesRegenerated prometheus.Counter
	Duration         prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classmos_sessions_total",
			Help: "Completed sessions by outcome.",
		}, []string{"outcome"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classmos_commit_retries_total",
			Help: "Commit attempts retried after a transient or conflict error.",
		}),
		LivesRegenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classmos_lives_regenerated_total",
			Help: "Lives recovered by the regeneration tick.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classmos_commit_duration_seconds",
			Help:    "Time to commit a session, including retries.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Sessions, m.Retries, m.LivesRegenerated, m.Duration)
	}
	return m
}

// Session outcome labels.
const (
	OutcomePassed     = "passed"
	OutcomeFailed     = "failed"
	OutcomePractice   = "practice"
	OutcomeRolledBack = "rolled_back"
)
