package columns

import (
	"errors"
	"testing"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportHeaders = []string{
	"Comapany", "Account", "Entry Date", "Document Date", "Document Type", "Text",
	"Document currency", "Amount in doc. curr.", "Local Currency",
	"Amount in local currency", "Year/month",
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Document currency", want: "Document_currency"},
		{in: "Amount in doc. curr.", want: "Amount_in_doc_curr"},
		{in: "Amount in local currency", want: "Amount_in_local_currency"},
		{in: "  Local   Currency ", want: "Local_Currency"},
		{in: ".Text.", want: "Text"},
		{in: "Doc\tAgeing", want: "Doc_Ageing"},
		{in: "Already_Normal__Name", want: "Already_Normal_Name"},
		{in: "Year/month", want: "Year/month"},
		{in: "", want: ""},
		{in: " . ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	got := NormalizeAll(exportHeaders)

	require.Len(t, got, len(exportHeaders))
	assert.Equal(t, "Comapany", got[0])
	assert.Equal(t, "Entry_Date", got[2])
	assert.Equal(t, "Amount_in_doc_curr", got[7])
	assert.Equal(t, "Year/month", got[10])
}

func TestResolve(t *testing.T) {
	t.Run("misspelled company header", func(t *testing.T) {
		m, err := Resolve(exportHeaders)
		require.NoError(t, err)

		assert.Equal(t, 0, m.Index(model.FieldCompany))
		assert.Equal(t, 1, m.Index(model.FieldAccount))
		assert.Equal(t, 3, m.Index(model.FieldDocumentDate))
		assert.Equal(t, 6, m.Index(model.FieldDocumentCurrency))
		assert.Equal(t, 7, m.Index(model.FieldAmountDoc))
		assert.Equal(t, 8, m.Index(model.FieldLocalCurrency))
		assert.Equal(t, 9, m.Index(model.FieldAmountLocal))
	})

	t.Run("both spellings map to the same field", func(t *testing.T) {
		headers := append([]string(nil), exportHeaders...)
		headers[0] = "Company"

		m, err := Resolve(headers)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Index(model.FieldCompany))
	})

	t.Run("correct spelling wins when both present", func(t *testing.T) {
		headers := append([]string{"Comapany"}, exportHeaders[1:]...)
		headers = append(headers, "Company")

		m, err := Resolve(headers)
		require.NoError(t, err)
		assert.Equal(t, len(headers)-1, m.Index(model.FieldCompany))
	})

	t.Run("case insensitive", func(t *testing.T) {
		m, err := Resolve([]string{
			"COMPANY", "account", "document date", "DOCUMENT CURRENCY",
			"amount in doc. curr.", "local currency", "Amount In Local Currency",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, m.Index(model.FieldCompany))
		assert.Equal(t, 6, m.Index(model.FieldAmountLocal))
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		m, err := Resolve([]string{
			"Company", "Account", "Document Date", "Document currency",
			"Amount in doc. curr.", "Local Currency", "Amount in local currency",
		})
		require.NoError(t, err)
		assert.False(t, m.Has(model.FieldText))
		assert.False(t, m.Has(model.FieldDocumentType))
		assert.Equal(t, -1, m.Index(model.FieldText))
	})

	t.Run("neither company spelling is a configuration error", func(t *testing.T) {
		_, err := Resolve(exportHeaders[1:])
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMissingColumn)

		var missing *MissingColumnsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []model.Field{model.FieldCompany}, missing.Missing)
		assert.Contains(t, err.Error(), "Company, Comapany")
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := Resolve([]string{"Company", "Text"})

		var missing *MissingColumnsError
		require.True(t, errors.As(err, &missing))
		assert.Contains(t, missing.Missing, model.FieldAccount)
		assert.Contains(t, missing.Missing, model.FieldAmountLocal)
		assert.NotContains(t, missing.Missing, model.FieldText)
	})
}

func TestFields(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, 9)
	assert.Equal(t, model.FieldCompany, fields[0])
	assert.Equal(t, model.FieldAmountLocal, fields[8])
	for _, f := range fields {
		assert.NotEmpty(t, Spellings(f), f)
	}
}
