// Package app wires configuration, logging, storage and the services the
// commands run against.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/commit"
	"github.com/madan-d/classmos/internal/config"
	"github.com/madan-d/classmos/internal/course"
	"github.com/madan-d/classmos/internal/exercise"
	"github.com/madan-d/classmos/internal/llm"
	"github.com/madan-d/classmos/internal/logging"
	"github.com/madan-d/classmos/internal/store"
)

// ErrLLMUnavailable is returned when a command needs a provider but none
// is configured.
var ErrLLMUnavailable = errors.New("LLM provider not configured")

// Options selects where App reads its configuration and data.
type Options struct {
	// ConfigPath is an explicit config file. Empty searches the defaults.
	ConfigPath string

	// DBPath overrides database.path.
	DBPath string

	// Version is recorded in the database.
	Version string
}

// App holds the shared dependencies of one command invocation.
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Store     *store.Store
	Registry  *prometheus.Registry
	Metrics   *commit.Metrics
	Committer *commit.Committer
	Courses   *course.Service
}

// Open loads configuration and opens the store.
func Open(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Engine.Location()
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(opts.DBPath, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithAppVersion(opts.Version))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.WithField("path", dbPath).Debug("store opened")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := commit.NewMetrics(reg)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Registry: reg,
		Metrics:  metrics,
		Committer: commit.New(st,
			commit.WithMetrics(metrics),
			commit.WithLogger(logger),
			commit.WithLocation(loc),
		),
		Courses: course.NewService(st, logger),
	}, nil
}

// resolveDBPath returns the database path using the flag (highest
// priority), then the config file, then the default XDG path.
func resolveDBPath(flag, configured string) (string, error) {
	for _, p := range []string{flag, configured} {
		if p == "" {
			continue
		}
		if isDSN(p) {
			return p, nil
		}
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func isDSN(p string) bool {
	return len(p) >= 5 && p[:5] == "file:"
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Provider builds the configured LLM provider. Requests are recorded in
// the store.
func (a *App) Provider(ctx context.Context) (llm.Provider, error) {
	cfg := a.Config.LLM
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMUnavailable, err)
	}
	return llm.NewProvider(ctx, cfg, a.Store.EventRepo(), a.Logger)
}

// Exercises returns the quiz generator.
func (a *App) Exercises(ctx context.Context) (exercise.Generator, error) {
	p, err := a.Provider(ctx)
	if err != nil {
		return nil, err
	}
	return exercise.New(p, exercise.DefaultConfig(), a.Logger), nil
}

// CourseGenerator returns the document to course generator.
func (a *App) CourseGenerator(ctx context.Context) (*course.Generator, error) {
	p, err := a.Provider(ctx)
	if err != nil {
		return nil, err
	}
	return course.NewGenerator(p, a.Logger), nil
}
