// Package report turns document records into the sheet layout of the
// ageing report: a summary of group totals and one detail sheet per account.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/ageing-report/internal/model"
)

// DefaultThreshold is the largest absolute local-currency total that still
// counts as zero for the summary sheet.
var DefaultThreshold = decimal.New(1, -5)

// Aggregate groups records by GroupKey and sums both amounts. Records with
// an invalid amount contribute nothing to that amount's sum. Groups are
// returned sorted by key.
func Aggregate(records []model.DocumentRecord) []model.GroupTotals {
	byKey := make(map[model.GroupKey]*model.GroupTotals)

	for i := range records {
		r := &records[i]
		key := r.Key()

		g, ok := byKey[key]
		if !ok {
			g = &model.GroupTotals{
				Key:         key,
				AmountDoc:   decimal.Zero,
				AmountLocal: decimal.Zero,
			}
			byKey[key] = g
		}

		g.Count++
		if r.AmountDoc.Valid {
			g.AmountDoc = g.AmountDoc.Add(r.AmountDoc.Value)
		}
		if r.AmountLocal.Valid {
			g.AmountLocal = g.AmountLocal.Add(r.AmountLocal.Value)
		}
	}

	groups := make([]model.GroupTotals, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key.Less(groups[j].Key)
	})

	return groups
}

// FilterNegligible drops groups whose local-currency total is within
// threshold of zero. Order is preserved.
func FilterNegligible(groups []model.GroupTotals, threshold decimal.Decimal) []model.GroupTotals {
	kept := make([]model.GroupTotals, 0, len(groups))
	for _, g := range groups {
		if g.Negligible(threshold) {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// AccountRecords holds the records of one account in source order.
type AccountRecords struct {
	Account string
	Records []model.DocumentRecord
}

// PartitionByAccount splits records by account, ordered by account identifier.
// Within an account the source order is kept.
func PartitionByAccount(records []model.DocumentRecord) []AccountRecords {
	index := make(map[string]int)
	var parts []AccountRecords

	for _, r := range records {
		i, ok := index[r.Account]
		if !ok {
			i = len(parts)
			index[r.Account] = i
			parts = append(parts, AccountRecords{Account: r.Account})
		}
		parts[i].Records = append(parts[i].Records, r)
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Account < parts[j].Account
	})

	return parts
}

// Totals sums the valid amounts of records.
func Totals(records []model.DocumentRecord) (amountDoc, amountLocal decimal.Decimal) {
	amountDoc, amountLocal = decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.AmountDoc.Valid {
			amountDoc = amountDoc.Add(r.AmountDoc.Value)
		}
		if r.AmountLocal.Valid {
			amountLocal = amountLocal.Add(r.AmountLocal.Value)
		}
	}
	return amountDoc, amountLocal
}
