package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary aggregates confirmed transactions over a period.
type FinancialSummary struct {
	Income        decimal.Decimal `json:"receitas"`
	Expenses      decimal.Decimal `json:"despesas"`
	Balance       decimal.Decimal `json:"saldo"`
	SavingsRate   decimal.Decimal `json:"taxaPoupanca"`
	AvgDailySpend decimal.Decimal `json:"gastoMedioDiario"`
	NetWorth      decimal.Decimal `json:"patrimonioLiquido"`
	DaysElapsed   int             `json:"diasDecorridos"`
}

// KPIKind identifies each dashboard indicator. Handlers and the
// frontend dispatch on the kind, not on display strings.
type KPIKind string

const (
	KPIPeriodBalance KPIKind = "period_balance"
	KPISavingsRate   KPIKind = "savings_rate"
	KPIAvgDailySpend KPIKind = "avg_daily_spend"
	KPINetWorth      KPIKind = "net_worth"
)

// Trend is the direction hint rendered next to a KPI value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// KPI is one dashboard indicator card.
type KPI struct {
	Kind  KPIKind `json:"kind"`
	Label string  `json:"label"`
	Value string  `json:"value"`
	Trend Trend   `json:"trend"`
	Color string  `json:"color"`
}

// CategorySlice is one entry of the expenses-by-category breakdown.
type CategorySlice struct {
	CategoryID string          `json:"categoriaId"`
	Name       string          `json:"nome"`
	Color      string          `json:"cor,omitempty"`
	Total      decimal.Decimal `json:"valor"`
	Percentage decimal.Decimal `json:"percentual"`
}

// AccountOverview is one row of the "Resumo das Contas" card.
type AccountOverview struct {
	Account        Account          `json:"conta"`
	Utilization    *decimal.Decimal `json:"utilizacao,omitempty"`
	AvailableLimit *decimal.Decimal `json:"limiteDisponivel,omitempty"`
	OverThreshold  bool             `json:"alertaUtilizacao"`
}

// Dashboard is the aggregate payload for one symbolic period. All
// collaborator fetches succeed or the whole dashboard fails; there is
// no partial render.
type Dashboard struct {
	PeriodStart  time.Time         `json:"periodoInicio"`
	PeriodEnd    time.Time         `json:"periodoFim"`
	KPIs         []KPI             `json:"kpis"`
	Summary      *FinancialSummary `json:"resumo"`
	ByCategory   []CategorySlice   `json:"gastosPorCategoria"`
	Transactions []Transaction     `json:"lancamentos"`
	Categories   []Category        `json:"categorias"`
	Accounts     []Account         `json:"contas"`
	Goals        []Goal            `json:"metas"`
	Budgets      []Budget          `json:"orcamentos"`
}
