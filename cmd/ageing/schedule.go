package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ageing-report/internal/cli"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/config"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [input]",
		Short: "Rebuild the report on a cron schedule",
		Long: `Run the report repeatedly on a cron schedule until interrupted.

The schedule uses standard five-field cron syntax, e.g. "0 6 * * 1-5" for
06:00 on weekdays. A run that is still going when the next one is due is
skipped. Unless --as-of is given every run reports as of its own day.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSchedule,
	}

	addInputFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().String("cron", "", "Cron schedule (or schedule.cron in config)")
	cmd.Flags().String("timezone", "", "Time zone of the schedule (default: local)")
	cmd.Flags().Bool("run-now", false, "Also run once immediately")

	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, args, inputFlags, reportFlags, map[string]string{
		"cron":     "schedule.cron",
		"timezone": "schedule.timezone",
	}); err != nil {
		return err
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		return err
	}
	if cfg.Schedule == "" {
		return fmt.Errorf("%w: --cron or schedule.cron", common.ErrMissingConfig)
	}

	loc := time.Local
	if tz := viper.GetString("schedule.timezone"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("%w: time zone %q: %w", common.ErrInvalidConfig, tz, err)
		}
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	job := func() {
		result, err := runReport(ctx, cfg, nil)
		if err != nil {
			slog.Error("Scheduled report failed", "error", err)
			return
		}
		fmt.Fprintln(out, cli.FormatRunSummary(result.RunSummary))
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	id, err := c.AddFunc(cfg.Schedule, job)
	if err != nil {
		return fmt.Errorf("%w: cron schedule %q: %w", common.ErrInvalidConfig, cfg.Schedule, err)
	}

	runNow, _ := cmd.Flags().GetBool("run-now")
	return runScheduler(ctx, c, id, runNow, out)
}

// runScheduler runs c until ctx is canceled, then waits for running jobs.
func runScheduler(ctx context.Context, c *cron.Cron, id cron.EntryID, runNow bool, out io.Writer) error {
	entry := c.Entry(id)
	next := entry.Schedule.Next(time.Now().In(c.Location()))
	fmt.Fprintln(out, cli.FormatInfo("Scheduled; next run at "+next.Format(time.RFC1123)))

	c.Start()

	if runNow {
		go entry.WrappedJob.Run()
	}

	<-ctx.Done()
	slog.Info("Stopping scheduler")
	<-c.Stop().Done()
	return nil
}
