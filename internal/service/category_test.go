package service

import (
	"fmt"
	"testing"

	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(categoryID, amount string) domain.Transaction {
	t := confirmedTx(domain.KindExpense, amount)
	t.CategoryID = categoryID
	return t
}

func TestAggregateExpensesByCategory(t *testing.T) {
	cats := []domain.Category{
		{ID: "food", Name: "Alimentação", Color: "#f97316"},
		{ID: "transport", Name: "Transporte", Color: "#3b82f6"},
	}
	txs := []domain.Transaction{
		expense("food", "50"),
		expense("transport", "100"),
		expense("food", "250"),
	}

	slices := AggregateExpensesByCategory(txs, cats)
	require.Len(t, slices, 2)

	assert.Equal(t, "food", slices[0].CategoryID)
	assert.Equal(t, "Alimentação", slices[0].Name)
	assert.True(t, slices[0].Total.Equal(dec("300")))
	assert.True(t, slices[0].Percentage.Equal(dec("75")), "percentage: %s", slices[0].Percentage)

	assert.Equal(t, "transport", slices[1].CategoryID)
	assert.True(t, slices[1].Total.Equal(dec("100")))
	assert.True(t, slices[1].Percentage.Equal(dec("25")))
}

func TestAggregateExpensesByCategory_DropsUnknownCategories(t *testing.T) {
	cats := []domain.Category{{ID: "food", Name: "Alimentação"}}
	txs := []domain.Transaction{
		expense("food", "80"),
		expense("deleted-category", "999"),
	}

	slices := AggregateExpensesByCategory(txs, cats)
	require.Len(t, slices, 1)
	assert.Equal(t, "food", slices[0].CategoryID)
	// The dropped transaction is excluded from the denominator too.
	assert.True(t, slices[0].Percentage.Equal(dec("100")))
}

func TestAggregateExpensesByCategory_IgnoresIncomeAndPending(t *testing.T) {
	cats := []domain.Category{{ID: "food", Name: "Alimentação"}}

	income := confirmedTx(domain.KindIncome, "500")
	income.CategoryID = "food"

	pending := expense("food", "70")
	pending.Status = domain.StatusPending

	slices := AggregateExpensesByCategory([]domain.Transaction{income, pending}, cats)
	assert.Empty(t, slices)
}

func TestAggregateExpensesByCategory_TruncatesToSix(t *testing.T) {
	var cats []domain.Category
	var txs []domain.Transaction
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("cat-%d", i)
		cats = append(cats, domain.Category{ID: id, Name: id})
		// Distinct amounts so the ranking is deterministic.
		txs = append(txs, expense(id, fmt.Sprintf("%d", (i+1)*10)))
	}

	slices := AggregateExpensesByCategory(txs, cats)
	require.Len(t, slices, maxCategorySlices)

	// Largest first: cat-8 (90) down to cat-3 (40).
	assert.Equal(t, "cat-8", slices[0].CategoryID)
	assert.Equal(t, "cat-3", slices[5].CategoryID)
}

func TestAggregateExpensesByCategory_StableTieOrder(t *testing.T) {
	cats := []domain.Category{
		{ID: "b-second", Name: "B"},
		{ID: "a-first", Name: "A"},
	}
	// Equal totals; encounter order in the transaction list wins.
	txs := []domain.Transaction{
		expense("b-second", "100"),
		expense("a-first", "100"),
	}

	slices := AggregateExpensesByCategory(txs, cats)
	require.Len(t, slices, 2)
	assert.Equal(t, "b-second", slices[0].CategoryID)
	assert.Equal(t, "a-first", slices[1].CategoryID)
}

func TestAggregateExpensesByCategory_EmptyWhenNoExpenses(t *testing.T) {
	slices := AggregateExpensesByCategory(nil, []domain.Category{{ID: "food"}})
	assert.NotNil(t, slices)
	assert.Empty(t, slices)
}
