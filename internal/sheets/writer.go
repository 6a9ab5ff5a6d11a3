package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/service"
)

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write implements service.ReportWriter. It returns the spreadsheet URL.
func (w *Writer) Write(ctx context.Context, set *layout.SheetSet) (string, error) {
	w.logger.Info("starting spreadsheet upload",
		"title", set.Title,
		"sheets", len(set.Sheets))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 1
	}

	var spreadsheet *sheets.Spreadsheet
	err := common.WithRetry(ctx, func() error {
		var err error
		spreadsheet, err = w.prepareSpreadsheet(ctx, set)
		return err
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: failed to prepare spreadsheet: %w", common.ErrOutputUnwritable, err)
	}

	ids := sheetIDs(spreadsheet)

	err = common.WithRetry(ctx, func() error {
		return w.writeValues(ctx, spreadsheet.SpreadsheetId, set)
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: failed to write data: %w", common.ErrOutputUnwritable, err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheet.SpreadsheetId, set, ids)
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("spreadsheet upload completed",
		"spreadsheet_id", spreadsheet.SpreadsheetId,
		"url", spreadsheet.SpreadsheetUrl)

	return spreadsheet.SpreadsheetUrl, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// prepareSpreadsheet returns a spreadsheet holding exactly one empty tab per
// report sheet. A configured spreadsheet is reused; stale tabs are removed.
func (w *Writer) prepareSpreadsheet(ctx context.Context, set *layout.SheetSet) (*sheets.Spreadsheet, error) {
	if w.config.SpreadsheetID == "" {
		return w.createSpreadsheet(ctx, set)
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	requests := reconcileTabs(existing, set)
	if len(requests) > 0 {
		_, err = w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to update tabs: %w", err)
		}
	}

	ranges := make([]string, len(set.Sheets))
	for i, sh := range set.Sheets {
		ranges[i] = fmt.Sprintf("'%s'", escapeQuote(sh.Name))
	}
	_, err = w.service.Spreadsheets.Values.BatchClear(existing.SpreadsheetId, &sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to clear tabs: %w", err)
	}

	return w.service.Spreadsheets.Get(existing.SpreadsheetId).Context(ctx).Do()
}

func (w *Writer) createSpreadsheet(ctx context.Context, set *layout.SheetSet) (*sheets.Spreadsheet, error) {
	tabs := make([]*sheets.Sheet, len(set.Sheets))
	for i, sh := range set.Sheets {
		tabs[i] = &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: sh.Name, Index: int64(i)},
		}
	}

	name := w.config.SpreadsheetName
	if name == "" {
		name = set.Title
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    name,
			TimeZone: w.config.TimeZone,
		},
		Sheets: tabs,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created, nil
}

// writeValues uploads all sheets with batched value updates.
func (w *Writer) writeValues(ctx context.Context, spreadsheetID string, set *layout.SheetSet) error {
	ranges := valueRanges(set, w.config.BatchSize)

	for start := 0; start < len(ranges); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(ranges) {
			end = len(ranges)
		}

		_, err := w.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             ranges[start:end],
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write ranges %d-%d: %w", start, end, err)
		}

		w.logger.Debug("wrote ranges", "start", start, "count", end-start)
	}

	return nil
}

// applyFormatting styles every tab in one batch update.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, set *layout.SheetSet, ids map[string]int64) error {
	var requests []*sheets.Request
	for i := range set.Sheets {
		sh := &set.Sheets[i]
		id, ok := ids[sh.Name]
		if !ok {
			return fmt.Errorf("tab %q missing after upload", sh.Name)
		}
		requests = append(requests, formatRequests(sh, id)...)
	}
	if len(requests) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func sheetIDs(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

// reconcileTabs adds missing tabs and deletes tabs the report no longer has.
// Additions come first so the spreadsheet never ends up without a tab.
func reconcileTabs(existing *sheets.Spreadsheet, set *layout.SheetSet) []*sheets.Request {
	have := sheetIDs(existing)
	want := make(map[string]bool, len(set.Sheets))

	var requests []*sheets.Request
	for i, sh := range set.Sheets {
		want[sh.Name] = true
		if _, ok := have[sh.Name]; ok {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sh.Name, Index: int64(i)},
			},
		})
	}

	for _, tab := range existing.Sheets {
		if tab.Properties == nil || want[tab.Properties.Title] {
			continue
		}
		requests = append(requests, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{
				SheetId:         tab.Properties.SheetId,
				ForceSendFields: []string{"SheetId"},
			},
		})
	}

	return requests
}
