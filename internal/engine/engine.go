// Package engine runs the ageing report pipeline: load the export, resolve its
// columns, convert rows to records, lay out the report and write it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/ageing-report/internal/ageing"
	"github.com/Veraticus/ageing-report/internal/columns"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/ingest"
	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/model"
	"github.com/Veraticus/ageing-report/internal/report"
	"github.com/Veraticus/ageing-report/internal/service"
)

// ErrNoWriter is returned when the engine has nowhere to write the report.
var ErrNoWriter = errors.New("no report writer configured")

// Config holds configuration options for the report engine.
type Config struct {
	Threshold       decimal.Decimal
	Title           string
	DiagnosticsPath string
	StrictAmounts   bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: report.DefaultThreshold,
		Title:     report.DefaultTitle,
	}
}

// Options controls a single run.
type Options struct {
	// AsOf is the report date; zero means today.
	AsOf time.Time
	// RunID labels logs and diagnostics; empty generates one.
	RunID string
}

// Result describes a completed run.
type Result struct {
	Report      *layout.SheetSet
	ParseIssues []model.ParseIssue
	service.RunSummary
}

// Engine orchestrates one report run.
type Engine struct {
	source    service.TableSource
	writer    service.ReportWriter
	publisher service.Publisher
	now       func() time.Time
	config    Config
}

// New creates a report engine. publisher may be nil.
func New(source service.TableSource, writer service.ReportWriter, publisher service.Publisher, config Config) *Engine {
	return &Engine{
		source:    source,
		writer:    writer,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

// Run executes the pipeline once. Structural failures abort the run;
// field-level problems are returned as issues.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if e.writer == nil {
		return nil, ErrNoWriter
	}

	started := e.now()
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = started
	}
	asOf = ageing.CivilDate(asOf)

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := common.LoggerFrom(ctx).With("run_id", runID)
	ctx = common.WithLogger(ctx, logger)

	common.LogInfo(ctx, "Starting report run", common.Fields{
		"source": e.source.Location(),
		"as_of":  asOf.Format("2006-01-02"),
	})

	table, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", e.source.Location(), err)
	}
	common.LogInfo(ctx, "Loaded source", common.Fields{"rows": table.Len(), "columns": len(table.Headers)})

	mapping, err := columns.Resolve(table.Headers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve columns of %s: %w", table.Source, err)
	}
	common.LogDebug(ctx, "Resolved columns", common.Fields{"normalized": mapping.Normalized})

	converted, err := ingest.Records(table, mapping, ingest.Options{Strict: e.config.StrictAmounts})
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	set, stats := report.BuildWithStats(converted.Records, asOf, report.Options{
		Title:     e.config.Title,
		Threshold: e.config.Threshold,
	})
	common.LogInfo(ctx, "Built report", common.Fields{
		"records":        stats.Records,
		"groups":         stats.Groups,
		"summary_rows":   stats.SummaryRows,
		"account_sheets": stats.AccountSheets,
		"without_ageing": stats.WithoutAgeing,
	})

	result := &Result{
		Report:      set,
		ParseIssues: converted.Issues,
		RunSummary: service.RunSummary{
			AsOf:          asOf,
			RunID:         runID,
			Source:        e.source.Location(),
			SheetNames:    set.Names(),
			Records:       stats.Records,
			Groups:        stats.Groups,
			SummaryRows:   stats.SummaryRows,
			AccountSheets: stats.AccountSheets,
			Issues:        len(converted.Issues),
		},
	}

	if e.config.DiagnosticsPath != "" {
		diag := ingest.NewDiagnostics(runID, e.source.Location(), asOf, converted)
		if err := ingest.WriteDiagnostics(e.config.DiagnosticsPath, diag); err != nil {
			common.LogWarn(ctx, err, "Failed to write diagnostics", common.Fields{"path": e.config.DiagnosticsPath})
		} else {
			result.Diagnostics = e.config.DiagnosticsPath
		}
	}

	output, err := e.writer.Write(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	result.Output = output

	if e.publisher != nil {
		published, err := e.publisher.Publish(ctx, output)
		if err != nil {
			return nil, fmt.Errorf("failed to publish report: %w", err)
		}
		result.Published = published
	}

	result.Duration = e.now().Sub(started)
	common.LogInfo(ctx, "Report run completed", common.Fields{
		"output":   result.Output,
		"issues":   result.RunSummary.Issues,
		"duration": result.Duration,
	})

	return result, nil
}
