package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies a logical column of the document export.
type Field string

// Logical fields of a document export.
const (
	FieldCompany          Field = "company"
	FieldAccount          Field = "account"
	FieldDocumentDate     Field = "document_date"
	FieldDocumentType     Field = "document_type"
	FieldText             Field = "text"
	FieldDocumentCurrency Field = "document_currency"
	FieldAmountDoc        Field = "amount_doc_currency"
	FieldLocalCurrency    Field = "local_currency"
	FieldAmountLocal      Field = "amount_local_currency"
)

// Amount is a monetary value that may have failed to parse.
// An invalid amount never takes part in a sum.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a valid amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// AmountFromFloat returns a valid amount from a float literal.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// DocumentRecord is one accounting document from the source export.
type DocumentRecord struct {
	DocumentDate     *time.Time
	DocSerial        *int // day count since 1899-12-30, nil when the date is unknown
	DocAgeing        *int // days between the document date and the report date
	Company          string
	Account          string
	DocumentType     string
	Text             string
	DocumentCurrency string
	LocalCurrency    string
	AmountDoc        Amount
	AmountLocal      Amount
	Row              int // 1-based row in the source table, header excluded
}

// Key returns the summary grouping key of the record.
func (r *DocumentRecord) Key() GroupKey {
	return GroupKey{
		Company:          r.Company,
		Account:          r.Account,
		DocumentCurrency: r.DocumentCurrency,
		LocalCurrency:    r.LocalCurrency,
	}
}

// HasAgeing reports whether ageing could be computed for the record.
func (r *DocumentRecord) HasAgeing() bool {
	return r.DocAgeing != nil
}
