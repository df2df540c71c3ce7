package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/madan-d/classmos/internal/app"
	"github.com/madan-d/classmos/internal/commit"
)

var livesCmd = &cobra.Command{
	Use:   "lives",
	Short: "Regenerate lives",
}

var livesRegenCmd = &cobra.Command{
	Use:   "regen",
	Short: "Run one regeneration tick for one or every learner",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		if learnerID, _ := cmd.Flags().GetString("learner"); learnerID != "" {
			state, err := a.Committer.Regenerate(ctx, learnerID)
			if err != nil {
				return err
			}
			printLives(cmd.OutOrStdout(), state)
			return nil
		}
		n, err := a.Committer.RegenerateAll(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "Regenerated lives for %d learners\n", n)
		return err
	}),
}

var livesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate lives on a schedule until interrupted",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		interval := a.Config.Lives.PollInterval
		if cmd.Flags().Changed("interval") {
			interval, _ = cmd.Flags().GetDuration("interval")
		}
		addr := a.Config.Metrics.Addr
		if cmd.Flags().Changed("metrics-addr") {
			addr, _ = cmd.Flags().GetString("metrics-addr")
		}

		if addr != "" {
			srv := &http.Server{Addr: addr, Handler: metricsHandler(a), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.Logger.WithError(err).Error("metrics server failed")
					stop()
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			a.Logger.WithField("addr", addr).Info("serving metrics")
		}

		w := commit.NewWatcher(a.Committer, interval, a.Logger)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		<-ctx.Done()
		w.Stop()
		return nil
	}),
}

func metricsHandler(a *app.App) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	return mux
}

func init() {
	livesRegenCmd.Flags().String("learner", "", "Learner ID (default: every student)")
	livesWatchCmd.Flags().Duration("interval", commit.DefaultPollInterval, "Tick interval (overrides lives.poll_interval)")
	livesWatchCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides metrics.addr)")

	livesCmd.AddCommand(livesRegenCmd)
	livesCmd.AddCommand(livesWatchCmd)
}
