package service

import (
	"sort"

	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/shopspring/decimal"
)

// maxCategorySlices caps the breakdown at the slice count the pie
// chart renders.
const maxCategorySlices = 6

// AggregateExpensesByCategory groups confirmed expense transactions by
// category, computes each group's share of the total and returns the
// top slices sorted by amount, largest first. Ties keep the order the
// categories were first seen in. Transactions referencing a category
// id that matches no known category are dropped. A period with no
// confirmed expenses yields an empty slice.
func AggregateExpensesByCategory(txs []domain.Transaction, cats []domain.Category) []domain.CategorySlice {
	byID := make(map[string]*domain.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	grandTotal := decimal.Zero

	for i := range txs {
		t := &txs[i]
		if !t.Confirmed() || t.Kind != domain.KindExpense {
			continue
		}
		if _, known := byID[t.CategoryID]; !known {
			continue
		}
		if _, seen := totals[t.CategoryID]; !seen {
			order = append(order, t.CategoryID)
		}
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
		grandTotal = grandTotal.Add(t.Amount)
	}

	if grandTotal.IsZero() {
		return []domain.CategorySlice{}
	}

	slices := make([]domain.CategorySlice, 0, len(order))
	for _, id := range order {
		cat := byID[id]
		total := totals[id]
		slices = append(slices, domain.CategorySlice{
			CategoryID: id,
			Name:       cat.Name,
			Color:      cat.Color,
			Total:      total,
			Percentage: domain.Percent(total, grandTotal),
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Total.GreaterThan(slices[j].Total)
	})

	if len(slices) > maxCategorySlices {
		slices = slices[:maxCategorySlices]
	}
	return slices
}
