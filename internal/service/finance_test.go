package service

import (
	"context"
	"testing"

	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	store := newMockStore()
	store.accounts["checking"] = &domain.Account{ID: "checking", Name: "Conta Corrente", Balance: dec("2500")}
	store.categories = []domain.Category{{ID: "food", Name: "Alimentação"}}
	food := expense("food", "400")
	store.charges = []domain.Transaction{
		confirmedTx(domain.KindIncome, "1000"),
		food,
	}
	svc := newTestFinanceService(store)

	dash, err := svc.GetDashboard(context.Background(), "user-1", domain.PeriodCurrentMonth)
	require.NoError(t, err)

	require.Len(t, dash.KPIs, 4)
	assert.True(t, dash.Summary.Income.Equal(dec("1000")))
	assert.True(t, dash.Summary.Expenses.Equal(dec("400")))
	require.Len(t, dash.ByCategory, 1)
	assert.Equal(t, "food", dash.ByCategory[0].CategoryID)
	assert.Len(t, dash.Transactions, 2)
	assert.Len(t, dash.Accounts, 1)
	assert.False(t, dash.PeriodEnd.Before(dash.PeriodStart))
}

func TestGetDashboard_UnknownPeriod(t *testing.T) {
	svc := newTestFinanceService(newMockStore())

	_, err := svc.GetDashboard(context.Background(), "user-1", "fortnight")
	var invalid *domain.ErrInvalidArgument
	require.ErrorAs(t, err, &invalid)
}

func TestCategoriesCached(t *testing.T) {
	store := newMockStore()
	store.categories = []domain.Category{{ID: "food", Name: "Alimentação"}}
	svc := newTestFinanceService(store)

	_, err := svc.GetExpenseBreakdown(context.Background(), "user-1", domain.PeriodCurrentMonth)
	require.NoError(t, err)
	_, err = svc.GetExpenseBreakdown(context.Background(), "user-1", domain.PeriodCurrentMonth)
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCategCalls, "second call must be served from cache")
}

func TestConfirmTransaction(t *testing.T) {
	store := newMockStore()
	store.transactions["tx-1"] = &domain.Transaction{ID: "tx-1", Status: domain.StatusPending}
	svc := newTestFinanceService(store)

	require.NoError(t, svc.ConfirmTransaction(context.Background(), "user-1", "tx-1"))
	assert.Equal(t, domain.StatusConfirmed, store.statusUpdates["tx-1"])
}

func TestConfirmTransaction_InvalidTransitions(t *testing.T) {
	store := newMockStore()
	store.transactions["confirmed"] = &domain.Transaction{ID: "confirmed", Status: domain.StatusConfirmed}
	store.transactions["cancelled"] = &domain.Transaction{ID: "cancelled", Status: domain.StatusCancelled}
	svc := newTestFinanceService(store)

	for _, id := range []string{"confirmed", "cancelled"} {
		err := svc.ConfirmTransaction(context.Background(), "user-1", id)
		var invalidState *domain.ErrInvalidState
		require.ErrorAs(t, err, &invalidState, "id=%s", id)
	}

	err := svc.ConfirmTransaction(context.Background(), "user-1", "missing")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestCancelTransaction(t *testing.T) {
	store := newMockStore()
	store.transactions["pending"] = &domain.Transaction{ID: "pending", Status: domain.StatusPending}
	store.transactions["confirmed"] = &domain.Transaction{ID: "confirmed", Status: domain.StatusConfirmed}
	store.transactions["cancelled"] = &domain.Transaction{ID: "cancelled", Status: domain.StatusCancelled}
	svc := newTestFinanceService(store)

	require.NoError(t, svc.CancelTransaction(context.Background(), "user-1", "pending"))
	require.NoError(t, svc.CancelTransaction(context.Background(), "user-1", "confirmed"))

	err := svc.CancelTransaction(context.Background(), "user-1", "cancelled")
	var invalidState *domain.ErrInvalidState
	require.ErrorAs(t, err, &invalidState)
}

func TestGetAccountOverview(t *testing.T) {
	store := newMockStore()
	store.accounts["checking"] = &domain.Account{ID: "checking", Name: "Conta Corrente", Balance: dec("2500")}
	store.accounts["card-1"] = creditAccount("card-1", "-4500", "5000")
	svc := newTestFinanceService(store)

	overview, err := svc.GetAccountOverview(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, overview, 2)

	byID := map[string]domain.AccountOverview{}
	for _, row := range overview {
		byID[row.Account.ID] = row
	}

	plain := byID["checking"]
	assert.Nil(t, plain.Utilization)
	assert.False(t, plain.OverThreshold)

	card := byID["card-1"]
	require.NotNil(t, card.Utilization)
	assert.True(t, card.Utilization.Equal(dec("90")), "utilization: %s", card.Utilization)
	require.NotNil(t, card.AvailableLimit)
	assert.True(t, card.AvailableLimit.Equal(dec("500")))
	assert.True(t, card.OverThreshold)
}
