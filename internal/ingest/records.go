// Package ingest converts raw source tables into document records. Fields
// that cannot be interpreted degrade the record and are reported as issues.
package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/ageing-report/internal/columns"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
)

// Options controls record conversion.
type Options struct {
	// Strict rejects the whole table when any amount is invalid.
	Strict bool
}

// Result holds the converted records and the issues met along the way.
type Result struct {
	Records []model.DocumentRecord
	Issues  []model.ParseIssue
	// Skipped counts fully blank rows.
	Skipped int
}

// Records converts every data row of table into a DocumentRecord using the
// resolved column mapping. Rows keep their source order.
func Records(table *model.Table, mapping columns.Mapping, opts Options) (*Result, error) {
	res := &Result{
		Records: make([]model.DocumentRecord, 0, table.Len()),
	}

	for i, row := range table.Rows {
		if blankRow(row) {
			res.Skipped++
			continue
		}

		rowNum := i + 1
		get := func(f model.Field) string {
			idx := mapping.Index(f)
			if idx < 0 {
				return ""
			}
			return strings.TrimSpace(table.Cell(i, idx))
		}

		rec := model.DocumentRecord{
			Row:              rowNum,
			Company:          get(model.FieldCompany),
			Account:          CanonicalAccount(get(model.FieldAccount)),
			DocumentType:     get(model.FieldDocumentType),
			Text:             get(model.FieldText),
			DocumentCurrency: get(model.FieldDocumentCurrency),
			LocalCurrency:    get(model.FieldLocalCurrency),
		}

		if raw := get(model.FieldDocumentDate); raw != "" {
			d, err := ParseDate(raw)
			if err != nil {
				res.Issues = append(res.Issues, issue(rowNum, model.FieldDocumentDate, raw, err))
			} else {
				rec.DocumentDate = &d
			}
		}

		for _, f := range []model.Field{model.FieldAmountDoc, model.FieldAmountLocal} {
			raw := get(f)
			amt, err := ParseAmount(raw)
			if err != nil {
				if opts.Strict {
					return nil, fmt.Errorf("row %d column %s value %q: %w", rowNum, f, raw, common.ErrInvalidAmount)
				}
				res.Issues = append(res.Issues, issue(rowNum, f, raw, err))
				continue
			}
			if f == model.FieldAmountDoc {
				rec.AmountDoc = model.NewAmount(amt)
			} else {
				rec.AmountLocal = model.NewAmount(amt)
			}
		}

		res.Records = append(res.Records, rec)
	}

	if len(res.Issues) > 0 {
		slog.Warn("Some fields could not be parsed",
			"source", table.Source,
			"issues", len(res.Issues))
		for _, is := range res.Issues {
			slog.Debug("Parse issue", "row", is.Row, "field", is.Field, "value", is.Value, "reason", is.Reason)
		}
	}

	return res, nil
}

func issue(row int, field model.Field, value string, err error) model.ParseIssue {
	return model.ParseIssue{
		Row:    row,
		Field:  field,
		Value:  value,
		Reason: err.Error(),
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
