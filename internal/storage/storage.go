// Package storage loads document exports from the tabular stores the report
// accepts: Excel workbooks, CSV files, SQLite databases and PostgreSQL.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
	"github.com/Veraticus/ageing-report/internal/service"
)

// DefaultTable is queried when a database source names no table.
const DefaultTable = "documents"

// Source describes where the document export lives.
type Source struct {
	// Location is a file path or a postgres:// URL.
	Location string
	// Sheet selects a worksheet; empty means the first one.
	Sheet string
	// Table selects the database table; empty means DefaultTable.
	Table string
	// Encoding of CSV input; empty means UTF-8.
	Encoding string
	// Delimiter of CSV input; zero means comma.
	Delimiter rune
}

// Kind names the store behind a location.
type Kind string

// Supported stores.
const (
	KindXLSX     Kind = "xlsx"
	KindXLS      Kind = "xls"
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// DetectKind works out the store from the location's scheme or extension.
func DetectKind(location string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(location))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return KindPostgres, nil
	}

	switch filepath.Ext(lower) {
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".xls":
		return KindXLS, nil
	case ".csv", ".txt":
		return KindCSV, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedSource, location)
	}
}

// NewTableSource returns the reader for src.
func NewTableSource(src Source) (service.TableSource, error) {
	if err := validateString(src.Location, "location"); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
	}

	kind, err := DetectKind(src.Location)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindXLSX:
		return &XLSXReader{Path: src.Location, Sheet: src.Sheet}, nil
	case KindXLS:
		return &XLSReader{Path: src.Location, Sheet: src.Sheet}, nil
	case KindCSV:
		if src.Delimiter != 0 {
			if err := validateDelimiter(src.Delimiter); err != nil {
				return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
			}
		}
		return &CSVReader{Path: src.Location, Encoding: src.Encoding, Delimiter: src.Delimiter}, nil
	case KindSQLite, KindPostgres:
		table := src.Table
		if table == "" {
			table = DefaultTable
		}
		if err := validateIdentifier(table); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
		if kind == KindSQLite {
			return &SQLiteReader{Path: src.Location, Table: table}, nil
		}
		return &PostgresReader{URL: src.Location, Table: table}, nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedSource, src.Location)
	}
}

// Open loads the table described by src.
func Open(ctx context.Context, src Source) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	reader, err := NewTableSource(src)
	if err != nil {
		return nil, err
	}
	return reader.Load(ctx)
}

// checkFile fails early with a readable error when path cannot be opened.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", common.ErrSourceUnreadable, path)
	}
	return nil
}

// newTable builds a Table from a header row and data rows. Trailing blank
// header cells are dropped; data rows are padded or cut to the header width.
func newTable(source string, rows [][]string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, source)
	}

	headers := trimTrailingBlank(rows[0])
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, source)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		row := make([]string, len(headers))
		copy(row, r)
		data = append(data, row)
	}

	slog.Debug("Loaded source table",
		"source", source,
		"columns", len(headers),
		"rows", len(data))

	return &model.Table{Source: source, Headers: headers, Rows: data}, nil
}

func trimTrailingBlank(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
