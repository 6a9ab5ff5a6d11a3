// Package service defines the interfaces between the report pipeline and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/model"
)

// TableSource loads the raw document export.
type TableSource interface {
	Load(ctx context.Context) (*model.Table, error)
	// Location describes where the table comes from, for logs and messages.
	Location() string
}

// ReportWriter persists a rendered report and returns where it was written.
type ReportWriter interface {
	Write(ctx context.Context, report *layout.SheetSet) (string, error)
}

// Publisher copies a written report to a secondary destination.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// RunSummary describes the outcome of one report run.
type RunSummary struct {
	AsOf          time.Time
	RunID         string
	Source        string
	Output        string
	Published     string
	Diagnostics   string
	SheetNames    []string
	Records       int
	Groups        int
	SummaryRows   int
	AccountSheets int
	Issues        int
	Duration      time.Duration
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
