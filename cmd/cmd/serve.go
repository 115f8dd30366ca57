package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"careerly/internal/logger"
	"careerly/internal/scheduler"
	"careerly/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the weekly insight refresh scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		srv := server.New(server.Deps{
			DB:       a.db,
			Insights: a.insights,
			Quizzes:  a.quizzes,
			Grader:   a.grader,
			Users:    a.users,
		}, a.cfg.Server)

		var sched *scheduler.Scheduler
		if a.cfg.Scheduler.Enabled {
			sched = scheduler.New(a.db.Insights(), a.insights, a.cfg.Scheduler.Spec)
			if err := sched.Start(ctx); err != nil {
				return err
			}
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		if sched != nil {
			sched.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
