package testutil

import (
	"time"

	"github.com/Veraticus/ageing-report/internal/model"
)

// AsOf is the report date used by the fixtures.
var AsOf = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

// ExportHeaders are the raw headers of a typical ERP export, misspelling included.
var ExportHeaders = []string{
	"Comapany",
	"Account",
	"Document Date",
	"Document Type",
	"Text",
	"Document currency",
	"Amount in doc. curr.",
	"Local Currency",
	"Amount in local currency",
}

// ExportRows match the records returned by ScenarioRecords.
var ExportRows = [][]string{
	{"C1", "100", "2024-01-10", "DR", "inv 1", "USD", "100", "USD", "100"},
	{"C1", "100", "2024-01-15", "DZ", "pay 1", "USD", "-100", "USD", "-100"},
	{"C1", "200", "2024-01-10", "DR", "inv 2", "EUR", "50", "USD", "55"},
}

// ScenarioRecords returns three documents: account 100 nets to zero and
// account 200 carries 50 EUR / 55 USD.
func ScenarioRecords() []model.DocumentRecord {
	return NewRecordBuilder().
		Company("C1").Account("100").Date(2024, time.January, 10).Type("DR").Text("inv 1").
		Currencies("USD", "USD").Amounts("100", "100").Add().
		Date(2024, time.January, 15).Type("DZ").Text("pay 1").Amounts("-100", "-100").Add().
		Account("200").Date(2024, time.January, 10).Type("DR").Text("inv 2").
		Currencies("EUR", "USD").Amounts("50", "55").Add().
		Records()
}

// ScenarioTable returns the raw export behind ScenarioRecords.
func ScenarioTable() *model.Table {
	rows := make([][]string, len(ExportRows))
	for i, r := range ExportRows {
		rows[i] = append([]string(nil), r...)
	}
	return &model.Table{
		Source:  "fixture",
		Headers: append([]string(nil), ExportHeaders...),
		Rows:    rows,
	}
}
