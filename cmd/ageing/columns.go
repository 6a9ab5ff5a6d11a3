package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ageing-report/internal/cli"
	"github.com/Veraticus/ageing-report/internal/columns"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/config"
	"github.com/Veraticus/ageing-report/internal/storage"
)

func columnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns [input]",
		Short: "Show how the export's headers are recognized",
		Long: `Print every header of the export next to its normalized form, then the
column each report field was mapped to. Missing required columns are listed
with the spellings that would have matched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runColumns,
	}

	addInputFlags(cmd)
	return cmd
}

func runColumns(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, args, inputFlags); err != nil {
		return err
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		return err
	}

	table, err := storage.Open(cmd.Context(), cfg.Source())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Columns of "+table.Source))

	normalized := columns.NormalizeAll(table.Headers)
	var headers strings.Builder
	for i, raw := range table.Headers {
		fmt.Fprintf(&headers, "%s %q → %s\n",
			cli.SubtleStyle.Render(fmt.Sprintf("%3d.", i+1)), raw, normalized[i])
	}
	fmt.Fprintln(out, headers.String())

	mapping, err := columns.Resolve(table.Headers)
	if err != nil {
		var missing *columns.MissingColumnsError
		if !errors.As(err, &missing) {
			return err
		}
		fmt.Fprintln(out, formatMissing(missing))
		return common.NewUserError("required columns are missing", err)
	}

	var fields []string
	for _, field := range columns.Fields() {
		if !mapping.Has(field) {
			fields = append(fields, cli.FormatField(string(field), cli.SubtleStyle.Render("(not present)")))
			continue
		}
		i := mapping.Index(field)
		fields = append(fields, cli.FormatField(string(field), fmt.Sprintf("column %d %q", i+1, table.Headers[i])))
	}
	fmt.Fprintln(out, cli.RenderBox("Field Mapping", strings.Join(fields, "\n")))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d data rows", len(table.Rows))))
	return nil
}

func formatMissing(err *columns.MissingColumnsError) string {
	lines := make([]string, 0, len(err.Missing))
	for _, field := range err.Missing {
		lines = append(lines, cli.FormatError(fmt.Sprintf("%s: expected %s",
			field, strings.Join(columns.Spellings(field), " or "))))
	}
	return strings.Join(lines, "\n")
}
