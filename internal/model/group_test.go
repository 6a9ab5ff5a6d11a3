package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGroupKey_Less(t *testing.T) {
	tests := []struct {
		name string
		a    GroupKey
		b    GroupKey
		want bool
	}{
		{
			name: "company decides first",
			a:    GroupKey{Company: "A", Account: "9"},
			b:    GroupKey{Company: "B", Account: "1"},
			want: true,
		},
		{
			name: "account breaks company tie",
			a:    GroupKey{Company: "A", Account: "200"},
			b:    GroupKey{Company: "A", Account: "100"},
			want: false,
		},
		{
			name: "document currency breaks account tie",
			a:    GroupKey{Company: "A", Account: "1", DocumentCurrency: "EUR"},
			b:    GroupKey{Company: "A", Account: "1", DocumentCurrency: "USD"},
			want: true,
		},
		{
			name: "local currency is last",
			a:    GroupKey{Company: "A", Account: "1", DocumentCurrency: "EUR", LocalCurrency: "USD"},
			b:    GroupKey{Company: "A", Account: "1", DocumentCurrency: "EUR", LocalCurrency: "LKR"},
			want: false,
		},
		{
			name: "equal keys are not less",
			a:    GroupKey{Company: "A"},
			b:    GroupKey{Company: "A"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
}

func TestGroupTotals_Negligible(t *testing.T) {
	threshold := decimal.RequireFromString("0.00001")

	tests := []struct {
		name  string
		local string
		want  bool
	}{
		{name: "exact zero", local: "0", want: true},
		{name: "at threshold", local: "0.00001", want: true},
		{name: "negative at threshold", local: "-0.00001", want: true},
		{name: "above threshold", local: "0.0001", want: false},
		{name: "negative above threshold", local: "-55", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GroupTotals{AmountLocal: decimal.RequireFromString(tt.local)}
			assert.Equal(t, tt.want, g.Negligible(threshold))
		})
	}
}
