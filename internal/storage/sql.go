package storage

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
)

// SQLiteReader reads a table from a SQLite database file.
type SQLiteReader struct {
	Path  string
	Table string
}

// Location implements service.TableSource.
func (r *SQLiteReader) Location() string { return r.Path + "#" + r.Table }

// Load implements service.TableSource.
func (r *SQLiteReader) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIdentifier(r.Table); err != nil {
		return nil, err
	}
	if err := checkFile(r.Path); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", "file:"+r.Path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", common.ErrSourceUnreadable, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Warn("Failed to close database", "path", r.Path, "error", cerr)
		}
	}()

	db.SetMaxOpenConns(1)

	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+r.Table) //nolint:gosec // identifier validated
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %w", common.ErrSourceUnreadable, r.Table, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Warn("Failed to close rows", "error", cerr)
		}
	}()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read columns: %w", common.ErrSourceUnreadable, err)
	}

	out := [][]string{headers}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %w", common.ErrSourceUnreadable, err)
		}
		out = append(out, cellTexts(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
	}

	return newTable(r.Location(), out)
}

// PostgresReader reads a table from a PostgreSQL database.
type PostgresReader struct {
	URL   string
	Table string
}

// Location implements service.TableSource. Credentials are not included.
func (r *PostgresReader) Location() string {
	cfg, err := pgx.ParseConfig(r.URL)
	if err != nil {
		return "postgres#" + r.Table
	}
	return fmt.Sprintf("postgres://%s:%d/%s#%s", cfg.Host, cfg.Port, cfg.Database, r.Table)
}

// Load implements service.TableSource.
func (r *PostgresReader) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIdentifier(r.Table); err != nil {
		return nil, err
	}

	conn, err := pgx.Connect(ctx, r.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect: %w", common.ErrSourceUnreadable, err)
	}
	defer func() {
		if cerr := conn.Close(ctx); cerr != nil {
			slog.Warn("Failed to close connection", "error", cerr)
		}
	}()

	query := "SELECT * FROM " + pgx.Identifier(strings.Split(r.Table, ".")).Sanitize()
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %w", common.ErrSourceUnreadable, r.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = f.Name
	}

	out := [][]string{headers}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode row: %w", common.ErrSourceUnreadable, err)
		}
		out = append(out, cellTexts(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSourceUnreadable, err)
	}

	return newTable(r.Location(), out)
}

func cellTexts(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = cellText(v)
	}
	return out
}

// cellText renders a database value the way ingest expects to read it.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return ""
		}
		return cellText(dv)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
