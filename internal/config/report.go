package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/report"
	"github.com/Veraticus/ageing-report/internal/storage"
	"github.com/Veraticus/ageing-report/internal/xlsx"
)

// Output formats.
const (
	FormatXLSX    = "xlsx"
	FormatGSheets = "gsheets"
)

// DateLayout is the format of configured dates.
const DateLayout = "2006-01-02"

// InputConfig locates the document export.
type InputConfig struct {
	Path      string
	Sheet     string
	Table     string
	Encoding  string
	Delimiter rune
}

// OutputConfig controls where the report goes.
type OutputConfig struct {
	Path      string
	Format    string
	GCSBucket string
	GCSObject string
}

// ReportSettings controls report content.
type ReportSettings struct {
	AsOf          time.Time
	Threshold     decimal.Decimal
	Title         string
	StrictAmounts bool
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// ReportConfig is the complete configuration of a report run.
type ReportConfig struct {
	Input           InputConfig
	Output          OutputConfig
	Report          ReportSettings
	Logging         LoggingConfig
	DiagnosticsPath string
	Schedule        string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.table", storage.DefaultTable)
	v.SetDefault("output.path", xlsx.DefaultPath)
	v.SetDefault("output.format", FormatXLSX)
	v.SetDefault("report.title", report.DefaultTitle)
	v.SetDefault("report.threshold", report.DefaultThreshold.String())
	v.SetDefault("report.strict_amounts", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadReportConfig builds and validates the configuration from global viper.
func LoadReportConfig() (*ReportConfig, error) {
	return LoadReportConfigFrom(viper.GetViper())
}

// LoadReportConfigFrom builds and validates the configuration from v.
func LoadReportConfigFrom(v *viper.Viper) (*ReportConfig, error) {
	c := &ReportConfig{
		Input: InputConfig{
			Path:     expandLocation(v.GetString("input.path")),
			Sheet:    v.GetString("input.sheet"),
			Table:    v.GetString("input.table"),
			Encoding: v.GetString("input.encoding"),
		},
		Output: OutputConfig{
			Path:      ExpandPath(v.GetString("output.path")),
			Format:    strings.ToLower(strings.TrimSpace(v.GetString("output.format"))),
			GCSBucket: v.GetString("output.gcs_bucket"),
			GCSObject: v.GetString("output.gcs_object"),
		},
		Report: ReportSettings{
			Title:         v.GetString("report.title"),
			StrictAmounts: v.GetBool("report.strict_amounts"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		DiagnosticsPath: ExpandPath(v.GetString("diagnostics.path")),
		Schedule:        v.GetString("schedule.cron"),
	}

	delimiter, err := ParseDelimiter(v.GetString("input.delimiter"))
	if err != nil {
		return nil, err
	}
	c.Input.Delimiter = delimiter

	if raw := strings.TrimSpace(v.GetString("report.as_of")); raw != "" {
		asOf, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: report.as_of %q must be YYYY-MM-DD", common.ErrInvalidConfig, raw)
		}
		c.Report.AsOf = asOf
	}

	c.Report.Threshold = report.DefaultThreshold
	if raw := strings.TrimSpace(v.GetString("report.threshold")); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: report.threshold %q is not a number", common.ErrInvalidConfig, raw)
		}
		c.Report.Threshold = threshold
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for a report run.
func (c *ReportConfig) Validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("%w: input path (argument, --input or input.path)", common.ErrMissingConfig)
	}

	switch c.Output.Format {
	case FormatXLSX:
		if c.Output.Path == "" {
			return fmt.Errorf("%w: output path", common.ErrMissingConfig)
		}
	case FormatGSheets:
		if c.Output.GCSBucket != "" {
			return fmt.Errorf("%w: publishing to GCS needs the xlsx output format", common.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: output format %q (want %s or %s)", common.ErrInvalidConfig, c.Output.Format, FormatXLSX, FormatGSheets)
	}

	if c.Report.Threshold.IsNegative() {
		return fmt.Errorf("%w: threshold cannot be negative", common.ErrInvalidConfig)
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}

// Source returns the storage source described by the input settings.
func (c *ReportConfig) Source() storage.Source {
	return storage.Source{
		Location:  c.Input.Path,
		Sheet:     c.Input.Sheet,
		Table:     c.Input.Table,
		Encoding:  c.Input.Encoding,
		Delimiter: c.Input.Delimiter,
	}
}

// ParseDelimiter reads a configured CSV delimiter. "tab" and "\t" mean a
// tab character; empty means the default comma.
func ParseDelimiter(raw string) (rune, error) {
	switch raw {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", common.ErrInvalidConfig, raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return r, nil
}

// expandLocation expands file paths but leaves database URLs alone.
func expandLocation(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	return ExpandPath(location)
}
