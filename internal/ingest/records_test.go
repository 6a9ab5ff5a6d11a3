package ingest

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ageing-report/internal/columns"
	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
	"github.com/Veraticus/ageing-report/internal/testutil"
)

func resolve(t *testing.T, table *model.Table) columns.Mapping {
	t.Helper()
	m, err := columns.Resolve(table.Headers)
	require.NoError(t, err)
	return m
}

func TestRecords_Scenario(t *testing.T) {
	table := testutil.ScenarioTable()

	res, err := Records(table, resolve(t, table), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)

	want := testutil.ScenarioRecords()
	require.Len(t, res.Records, len(want))
	for i := range want {
		got := res.Records[i]
		assert.Equal(t, want[i].Key(), got.Key())
		assert.Equal(t, want[i].Row, got.Row)
		assert.Equal(t, want[i].Text, got.Text)
		assert.Equal(t, want[i].DocumentType, got.DocumentType)
		require.NotNil(t, got.DocumentDate)
		assert.True(t, want[i].DocumentDate.Equal(*got.DocumentDate))
		assert.True(t, want[i].AmountDoc.Value.Equal(got.AmountDoc.Value))
		assert.True(t, want[i].AmountLocal.Value.Equal(got.AmountLocal.Value))
		assert.True(t, got.AmountDoc.Valid)
		assert.True(t, got.AmountLocal.Valid)
	}
}

func TestRecords_GroupedThousands(t *testing.T) {
	table := &model.Table{
		Source:  "test",
		Headers: []string{"Company", "Account", "Document Date", "Document currency", "Amount in doc. curr.", "Local Currency", "Amount in local currency"},
		Rows: [][]string{
			{"C1", "100", "10.01.2024", "EUR", "1.234,56", "EUR", "1.234,56"},
			{"C1", "100", "11.01.2024", "EUR", "1 000,00-", "EUR", "1 000,00-"},
		},
	}

	res, err := Records(table, resolve(t, table), Options{Strict: true})
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	require.Len(t, res.Records, 2)

	assert.True(t, testutil.Dec("1234.56").Equal(res.Records[0].AmountLocal.Value))
	assert.True(t, testutil.Dec("-1000").Equal(res.Records[1].AmountDoc.Value))

	var sum = testutil.Dec("0")
	for _, r := range res.Records {
		require.True(t, r.AmountLocal.Valid)
		sum = sum.Add(r.AmountLocal.Value)
	}
	assert.True(t, testutil.Dec("234.56").Equal(sum), "got %s", sum)
}

func TestRecords_DegradedFields(t *testing.T) {
	table := &model.Table{
		Source:  "test",
		Headers: []string{"Company", "Account", "Document Date", "Document currency", "Amount in doc. curr.", "Local Currency", "Amount in local currency"},
		Rows: [][]string{
			{"C1", "100.0", "yesterday", "USD", "10", "USD", "10"},
			{"", "", "", "", "", "", ""},
			{"C1", "100", "", "USD", "n/a", "USD", "5"},
			{"C1", "100"},
		},
	}

	res, err := Records(table, resolve(t, table), Options{})
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, 1, res.Skipped)

	first := res.Records[0]
	assert.Equal(t, "100", first.Account)
	assert.Nil(t, first.DocumentDate)
	assert.True(t, first.AmountLocal.Valid)
	assert.Empty(t, first.DocumentType)

	second := res.Records[1]
	assert.Equal(t, 3, second.Row)
	assert.Nil(t, second.DocumentDate)
	assert.False(t, second.AmountDoc.Valid)
	assert.True(t, second.AmountLocal.Valid)

	short := res.Records[2]
	assert.False(t, short.AmountDoc.Valid)
	assert.False(t, short.AmountLocal.Valid)

	fields := make([]model.Field, 0, len(res.Issues))
	for _, is := range res.Issues {
		fields = append(fields, is.Field)
	}
	assert.Equal(t, []model.Field{
		model.FieldDocumentDate,
		model.FieldAmountDoc,
		model.FieldAmountDoc,
		model.FieldAmountLocal,
	}, fields)
	assert.Equal(t, "yesterday", res.Issues[0].Value)
	assert.Equal(t, 1, res.Issues[0].Row)
}

func TestRecords_Strict(t *testing.T) {
	table := testutil.ScenarioTable()
	table.Rows[1][6] = "oops"

	_, err := Records(table, resolve(t, table), Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidAmount))
	assert.Contains(t, err.Error(), "row 2")
}

func TestDiagnostics_RoundTrip(t *testing.T) {
	res := &Result{
		Records: testutil.ScenarioRecords(),
		Issues: []model.ParseIssue{
			{Row: 4, Field: model.FieldDocumentDate, Value: "31.02.2024", Reason: "unrecognized date format"},
		},
		Skipped: 2,
	}
	asOf := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	d := NewDiagnostics("run-1", "export.xlsx", asOf, res)

	path := filepath.Join(t.TempDir(), "nested", "issues.yaml")
	require.NoError(t, WriteDiagnostics(path, d))

	got, err := ReadDiagnostics(path)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Equal(t, "2024-02-01", got.AsOf)
	assert.Equal(t, 3, got.Records)
}

func TestNewDiagnostics_NoIssues(t *testing.T) {
	d := NewDiagnostics("run-2", "x.csv", time.Now(), &Result{})
	assert.NotNil(t, d.Issues)
	assert.Empty(t, d.Issues)
}
