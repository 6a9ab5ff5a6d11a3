// Package testutil provides builders and fixtures for document records and
// source tables used across package tests.
//
// Example usage:
//
//	records := testutil.NewRecordBuilder().
//		Company("C1").Account("100").Date(2024, 1, 10).
//		Currencies("USD", "USD").Amounts("100", "100").
//		Add().
//		Records()
package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ageing-report/internal/model"
)

// RecordBuilder assembles document records with a fluent API. Fields not
// set carry over from the previous record, so rows of one account stay short.
type RecordBuilder struct {
	current model.DocumentRecord
	records []model.DocumentRecord
}

// NewRecordBuilder returns an empty builder.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{}
}

// Company sets the company code.
func (b *RecordBuilder) Company(c string) *RecordBuilder {
	b.current.Company = c
	return b
}

// Account sets the account identifier.
func (b *RecordBuilder) Account(a string) *RecordBuilder {
	b.current.Account = a
	return b
}

// Date sets the document date.
func (b *RecordBuilder) Date(year int, month time.Month, day int) *RecordBuilder {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	b.current.DocumentDate = &d
	return b
}

// NoDate clears the document date.
func (b *RecordBuilder) NoDate() *RecordBuilder {
	b.current.DocumentDate = nil
	return b
}

// Type sets the document type.
func (b *RecordBuilder) Type(t string) *RecordBuilder {
	b.current.DocumentType = t
	return b
}

// Text sets the free text.
func (b *RecordBuilder) Text(t string) *RecordBuilder {
	b.current.Text = t
	return b
}

// Currencies sets the document and local currency codes.
func (b *RecordBuilder) Currencies(doc, local string) *RecordBuilder {
	b.current.DocumentCurrency = doc
	b.current.LocalCurrency = local
	return b
}

// Amounts sets both amounts from decimal strings. An empty string marks the
// amount invalid.
func (b *RecordBuilder) Amounts(doc, local string) *RecordBuilder {
	b.current.AmountDoc = amount(doc)
	b.current.AmountLocal = amount(local)
	return b
}

// Add appends the current record and keeps its values for the next one.
func (b *RecordBuilder) Add() *RecordBuilder {
	r := b.current
	r.Row = len(b.records) + 1
	b.records = append(b.records, r)
	return b
}

// Records returns a copy of the records added so far.
func (b *RecordBuilder) Records() []model.DocumentRecord {
	out := make([]model.DocumentRecord, len(b.records))
	copy(out, b.records)
	return out
}

func amount(s string) model.Amount {
	if s == "" {
		return model.Amount{}
	}
	return model.NewAmount(decimal.RequireFromString(s))
}

// Dec parses a decimal literal, panicking on bad input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
