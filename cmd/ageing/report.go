package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ageing-report/internal/cli"
	"github.com/Veraticus/ageing-report/internal/columns"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/config"
	"github.com/Veraticus/ageing-report/internal/engine"
	"github.com/Veraticus/ageing-report/internal/publish"
	"github.com/Veraticus/ageing-report/internal/service"
	"github.com/Veraticus/ageing-report/internal/sheets"
	"github.com/Veraticus/ageing-report/internal/storage"
	"github.com/Veraticus/ageing-report/internal/xlsx"
)

// reportFlags maps command line flags to configuration keys.
var reportFlags = map[string]string{
	"output":      "output.path",
	"format":      "output.format",
	"gcs-bucket":  "output.gcs_bucket",
	"gcs-object":  "output.gcs_object",
	"as-of":       "report.as_of",
	"threshold":   "report.threshold",
	"title":       "report.title",
	"strict":      "report.strict_amounts",
	"diagnostics": "diagnostics.path",
}

// inputFlags are shared by every command that reads an export.
var inputFlags = map[string]string{
	"sheet":     "input.sheet",
	"table":     "input.table",
	"encoding":  "input.encoding",
	"delimiter": "input.delimiter",
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [input]",
		Short: "Build the ageing report once",
		Long: `Build the ageing report from a document export.

The input may be an .xlsx, .xls or .csv file, a SQLite database or a
postgres:// URL. It can also be set with input.path in the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	addInputFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Bool("no-progress", false, "Do not show a progress bar")

	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().String("table", "", "Database table to read (default: documents)")
	cmd.Flags().String("encoding", "", "CSV text encoding (utf-8, windows-1252, shift-jis, ...)")
	cmd.Flags().String("delimiter", "", "CSV field delimiter (default: comma, \"tab\" for tabs)")
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output workbook path (default: Final Report.xlsx)")
	cmd.Flags().String("format", "", "Output format (xlsx, gsheets)")
	cmd.Flags().String("gcs-bucket", "", "Upload the workbook to this Cloud Storage bucket")
	cmd.Flags().String("gcs-object", "", "Object name or prefix/ in the bucket")
	cmd.Flags().String("as-of", "", "Reporting date as YYYY-MM-DD (default: today)")
	cmd.Flags().String("threshold", "", "Drop groups whose local total is at or below this")
	cmd.Flags().String("title", "", "Report title")
	cmd.Flags().Bool("strict", false, "Fail on the first unparseable amount")
	cmd.Flags().String("diagnostics", "", "Write parse issues to this YAML file")
}

// bindFlags binds a command's flags at run time, so commands sharing a key
// do not overwrite each other's bindings.
func bindFlags(cmd *cobra.Command, args []string, sets ...map[string]string) error {
	for _, set := range sets {
		for flag, key := range set {
			f := cmd.Flags().Lookup(flag)
			if f == nil {
				continue
			}
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}
	if len(args) > 0 {
		viper.Set("input.path", args[0])
	}
	return nil
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, args, inputFlags, reportFlags); err != nil {
		return err
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		return err
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	out := cmd.OutOrStdout()

	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}

	result, err := runReport(cmd.Context(), cfg, progress)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatRunSummary(result.RunSummary))
	if result.Issues > 0 && result.Diagnostics == "" {
		fmt.Fprintln(out, cli.FormatInfo("Re-run with --diagnostics issues.yaml to see every unparsed value"))
	}
	return nil
}

// runReport builds the pipeline described by cfg and runs it once.
// progress, when non-nil, receives a progress bar while sheets render.
func runReport(ctx context.Context, cfg *config.ReportConfig, progress io.Writer) (*engine.Result, error) {
	source, err := storage.NewTableSource(cfg.Source())
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)

	writer, err := newReportWriter(ctx, cfg, runID, logger, progress)
	if err != nil {
		return nil, err
	}

	var publisher service.Publisher
	if cfg.Output.GCSBucket != "" {
		gcs, err := publish.NewGCSPublisher(cfg.Output.GCSBucket, cfg.Output.GCSObject, logger)
		if err != nil {
			return nil, err
		}
		publisher = gcs
	}

	eng := engine.New(source, writer, publisher, engine.Config{
		Threshold:       cfg.Report.Threshold,
		Title:           cfg.Report.Title,
		DiagnosticsPath: cfg.DiagnosticsPath,
		StrictAmounts:   cfg.Report.StrictAmounts,
	})

	result, err := eng.Run(ctx, engine.Options{AsOf: cfg.Report.AsOf, RunID: runID})
	if err != nil {
		var missing *columns.MissingColumnsError
		if errors.As(err, &missing) {
			return nil, common.NewUserError("the export is missing required columns (run 'ageing columns' to inspect its headers)", err)
		}
		return nil, err
	}
	return result, nil
}

func newReportWriter(ctx context.Context, cfg *config.ReportConfig, runID string, logger *slog.Logger, progress io.Writer) (service.ReportWriter, error) {
	switch cfg.Output.Format {
	case config.FormatGSheets:
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, err
		}
		writer, err := sheets.NewWriter(ctx, *sheetsConfig, logger)
		if err != nil {
			return nil, err
		}
		return writer, nil
	default:
		writer := xlsx.NewWriter(xlsx.Config{
			Path:    cfg.Output.Path,
			Creator: "ageing " + version,
			RunID:   runID,
		}, logger)
		if progress != nil {
			writer.WithProgress(cli.NewSheetProgress(progress).Update)
		}
		return writer, nil
	}
}
