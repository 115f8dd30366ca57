package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"careerly/internal/scheduler"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one insight refresh sweep over every industry on file",
	Long: `Regenerates the stored insight for every industry, the same sweep the
weekly scheduler runs. Failures are isolated per industry and reported
together at the end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		sched := scheduler.New(a.db.Insights(), a.insights, a.cfg.Scheduler.Spec)
		return sched.RunSweep(ctx)
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
