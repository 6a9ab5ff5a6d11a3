package report

import (
	"github.com/Veraticus/ageing-report/internal/layout"
	"github.com/Veraticus/ageing-report/internal/model"
)

// Detail sheet columns, 1-based.
const (
	ColCompany = iota + 1
	ColAccount
	ColDocumentDate
	ColDocumentType
	ColText
	ColDocumentCurrency
	ColAmountDoc
	ColLocalCurrency
	ColAmountLocal
	ColAgeing
)

// DetailHeaderRow is the header row of every account sheet.
const DetailHeaderRow = 1

// DetailHeaders are the column captions of an account sheet.
var DetailHeaders = []string{
	"Company",
	"Account",
	"Document Date",
	"Document Type",
	"Text",
	"Document currency",
	"Amount in doc. curr.",
	"Local Currency",
	"Amount in local currency",
	"Doc Ageing",
}

// TotalsRow returns the row holding the totals of a sheet with n records.
func TotalsRow(n int) int {
	return DetailHeaderRow + n + 1
}

// BuildAccountSheet lays out the records of one account followed by a totals
// row whose sums equal the sums of the amounts shown above it.
func BuildAccountSheet(name string, records []model.DocumentRecord) layout.Sheet {
	sheet := layout.Sheet{
		Name:       name,
		FrozenRows: DetailHeaderRow,
		DataRows:   len(records),
	}

	for i, h := range DetailHeaders {
		sheet.Set(DetailHeaderRow, i+1, layout.Text(h), layout.StyleHeader)
	}

	for i := range records {
		writeRecord(&sheet, DetailHeaderRow+1+i, &records[i])
	}

	amountDoc, amountLocal := Totals(records)
	row := TotalsRow(len(records))
	sheet.Set(row, ColAmountDoc, layout.Number(amountDoc), layout.StyleTotal)
	sheet.Set(row, ColAmountLocal, layout.Number(amountLocal), layout.StyleTotal)

	return sheet
}

func writeRecord(sheet *layout.Sheet, row int, r *model.DocumentRecord) {
	date := layout.Blank()
	if r.DocumentDate != nil {
		date = layout.Text(r.DocumentDate.Format(DateFormat))
	}

	ageing := layout.Blank()
	if r.DocAgeing != nil {
		ageing = layout.Integer(*r.DocAgeing)
	}

	sheet.Set(row, ColCompany, layout.Text(r.Company), layout.StyleData)
	sheet.Set(row, ColAccount, layout.Text(r.Account), layout.StyleData)
	sheet.Set(row, ColDocumentDate, date, layout.StyleData)
	sheet.Set(row, ColDocumentType, layout.Text(r.DocumentType), layout.StyleDataCentered)
	sheet.Set(row, ColText, layout.Text(r.Text), layout.StyleData)
	sheet.Set(row, ColDocumentCurrency, layout.Text(r.DocumentCurrency), layout.StyleDataCentered)
	sheet.Set(row, ColAmountDoc, amount(r.AmountDoc), layout.StyleData)
	sheet.Set(row, ColLocalCurrency, layout.Text(r.LocalCurrency), layout.StyleDataCentered)
	sheet.Set(row, ColAmountLocal, amount(r.AmountLocal), layout.StyleData)
	sheet.Set(row, ColAgeing, ageing, layout.StyleDataCentered)
}

func amount(a model.Amount) layout.Value {
	if !a.Valid {
		return layout.Blank()
	}
	return layout.Number(a.Value)
}

// BuildAccountSheets builds one sheet per distinct account, ordered by
// account identifier. Sheet names are made legal and unique, and never
// clash with the summary sheet.
func BuildAccountSheets(records []model.DocumentRecord) []layout.Sheet {
	parts := PartitionByAccount(records)
	namer := newSheetNamer(SummarySheetName)

	sheets := make([]layout.Sheet, 0, len(parts))
	for _, p := range parts {
		sheets = append(sheets, BuildAccountSheet(namer.name(p.Account), p.Records))
	}
	return sheets
}
