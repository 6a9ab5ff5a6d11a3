package model

import (
	"github.com/shopspring/decimal"
)

// GroupKey identifies one row of the summary sheet.
type GroupKey struct {
	Company          string
	Account          string
	DocumentCurrency string
	LocalCurrency    string
}

// Less orders keys field by field: company, account, document currency, local currency.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Company != other.Company {
		return k.Company < other.Company
	}
	if k.Account != other.Account {
		return k.Account < other.Account
	}
	if k.DocumentCurrency != other.DocumentCurrency {
		return k.DocumentCurrency < other.DocumentCurrency
	}
	return k.LocalCurrency < other.LocalCurrency
}

// GroupTotals holds the summed amounts of all records sharing a GroupKey.
type GroupTotals struct {
	AmountDoc   decimal.Decimal
	AmountLocal decimal.Decimal
	Key         GroupKey
	Count       int
}

// Negligible reports whether the local-currency total is within threshold of zero.
func (g GroupTotals) Negligible(threshold decimal.Decimal) bool {
	return g.AmountLocal.Abs().LessThanOrEqual(threshold)
}
