package service

import (
	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/shopspring/decimal"
)

// Pure aggregation functions. They take data already filtered to the
// period and never touch the store, which keeps them trivially
// testable and reusable between the dashboard and the standalone
// summary endpoint.

// CalculateFinancialSummary folds confirmed transactions and account
// balances into the summary block. Pending and cancelled transactions
// never contribute. daysElapsed must be at least 1.
func CalculateFinancialSummary(txs []domain.Transaction, accounts []domain.Account, daysElapsed int) (*domain.FinancialSummary, error) {
	if daysElapsed < 1 {
		return nil, &domain.ErrInvalidArgument{
			Field:   "daysElapsed",
			Message: "must be at least 1",
		}
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for i := range txs {
		t := &txs[i]
		if !t.Confirmed() {
			continue
		}
		switch t.Kind {
		case domain.KindIncome:
			income = income.Add(t.Amount)
		case domain.KindExpense:
			expenses = expenses.Add(t.Amount)
		}
	}

	balance := income.Sub(expenses)

	// Zero income means a zero savings rate, not a division blow-up.
	savingsRate := decimal.Zero
	if !income.IsZero() {
		savingsRate = domain.Percent(balance, income)
	}

	avgDailySpend := expenses.Div(decimal.NewFromInt(int64(daysElapsed)))

	return &domain.FinancialSummary{
		Income:        income,
		Expenses:      expenses,
		Balance:       balance,
		SavingsRate:   savingsRate,
		AvgDailySpend: avgDailySpend,
		NetWorth:      NetWorth(accounts),
		DaysElapsed:   daysElapsed,
	}, nil
}

// NetWorth sums account balances. A credit line contributes its
// outstanding charges as a liability, -|balance|, regardless of the
// sign the balance was stored with. Order-invariant.
func NetWorth(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for i := range accounts {
		a := &accounts[i]
		if a.IsCreditLine() {
			total = total.Sub(a.Balance.Abs())
		} else {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// CalculateKPIs computes the four dashboard indicators from raw
// period data.
func CalculateKPIs(txs []domain.Transaction, accounts []domain.Account, daysElapsed int) ([]domain.KPI, error) {
	summary, err := CalculateFinancialSummary(txs, accounts, daysElapsed)
	if err != nil {
		return nil, err
	}
	return BuildKPIs(summary), nil
}

var (
	savingsRateGood = decimal.NewFromInt(20)
	savingsRateOK   = decimal.NewFromInt(10)
)

// BuildKPIs renders a summary as the four indicator cards, always in
// the same order: period balance, savings rate, average daily spend,
// net worth.
func BuildKPIs(s *domain.FinancialSummary) []domain.KPI {
	balanceTrend := domain.TrendDown
	balanceColor := "red"
	if s.Balance.Sign() >= 0 {
		balanceTrend = domain.TrendUp
		balanceColor = "green"
	}

	savingsTrend := domain.TrendDown
	savingsColor := "red"
	switch {
	case s.SavingsRate.GreaterThanOrEqual(savingsRateGood):
		savingsTrend = domain.TrendUp
		savingsColor = "green"
	case s.SavingsRate.GreaterThanOrEqual(savingsRateOK):
		savingsTrend = domain.TrendStable
		savingsColor = "yellow"
	}

	netWorthTrend := domain.TrendDown
	netWorthColor := "red"
	if s.NetWorth.Sign() >= 0 {
		netWorthTrend = domain.TrendUp
		netWorthColor = "green"
	}

	return []domain.KPI{
		{
			Kind:  domain.KPIPeriodBalance,
			Label: "Saldo do Período",
			Value: domain.FormatAmount(s.Balance),
			Trend: balanceTrend,
			Color: balanceColor,
		},
		{
			Kind:  domain.KPISavingsRate,
			Label: "Taxa de Poupança",
			Value: domain.FormatPercent(s.SavingsRate),
			Trend: savingsTrend,
			Color: savingsColor,
		},
		{
			Kind:  domain.KPIAvgDailySpend,
			Label: "Gasto Médio Diário",
			Value: domain.FormatAmount(s.AvgDailySpend),
			Trend: domain.TrendStable,
			Color: "blue",
		},
		{
			Kind:  domain.KPINetWorth,
			Label: "Patrimônio Líquido",
			Value: domain.FormatAmount(s.NetWorth),
			Trend: netWorthTrend,
			Color: netWorthColor,
		},
	}
}
