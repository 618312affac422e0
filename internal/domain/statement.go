package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementStatus is derived from charges and payments, never stored.
type StatementStatus string

const (
	StatementOpen          StatementStatus = "ABERTA"
	StatementPartiallyPaid StatementStatus = "PARCIALMENTE_PAGA"
	StatementSettled       StatementStatus = "PAGA"
)

// UtilizationAlertThreshold is the utilization percentage above which
// the statement view raises an alert flag.
var UtilizationAlertThreshold = decimal.NewFromInt(80)

// Statement is the fatura of one credit account over one period.
// Everything here is computed from the charge and settlement history;
// recomputing with unchanged inputs yields an identical statement.
type Statement struct {
	AccountID   string    `json:"contaId"`
	AccountName string    `json:"contaNome"`
	PeriodStart time.Time `json:"periodoInicio"`
	PeriodEnd   time.Time `json:"periodoFim"`

	Items []Transaction   `json:"itens"`
	Total decimal.Decimal `json:"total"`

	CreditLimit decimal.Decimal `json:"limiteCredito"`
	// AvailableLimit may go negative when the card is over limit; the
	// overrun is surfaced, never clamped.
	AvailableLimit decimal.Decimal `json:"limiteDisponivel"`
	Utilization    decimal.Decimal `json:"utilizacao"`
	OverLimit      bool            `json:"acimaDoLimite"`
	OverThreshold  bool            `json:"alertaUtilizacao"`

	PaidTotal   decimal.Decimal `json:"totalPago"`
	Outstanding decimal.Decimal `json:"valorEmAberto"`
	Status      StatementStatus `json:"status"`
}

// DeriveStatementStatus classifies a statement from its total and the
// payments applied so far.
func DeriveStatementStatus(total, paid decimal.Decimal) StatementStatus {
	switch {
	case total.IsPositive() && paid.GreaterThanOrEqual(total):
		return StatementSettled
	case paid.IsPositive():
		return StatementPartiallyPaid
	default:
		return StatementOpen
	}
}

// PaymentRequest is the payload of a statement payment. Amount arrives
// as the raw form string so parse failures map to a validation reason
// instead of a JSON decode error.
type PaymentRequest struct {
	StatementAccountID string `json:"contaCartaoId"`
	FundingAccountID   string `json:"contaOrigemId"`
	Amount             string `json:"valor"`
	Partial            bool   `json:"parcial"`

	PeriodStart time.Time `json:"periodoInicio"`
	PeriodEnd   time.Time `json:"periodoFim"`
}

// Settlement is one payment applied to a statement.
type Settlement struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"-"`
	StatementAccountID string          `json:"contaCartaoId"`
	FundingAccountID   string          `json:"contaOrigemId"`
	Amount             decimal.Decimal `json:"valor"`
	Partial            bool            `json:"parcial"`
	PeriodStart        time.Time       `json:"periodoInicio"`
	PeriodEnd          time.Time       `json:"periodoFim"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// SettlementResult is returned after a payment is applied.
type SettlementResult struct {
	Settlement  Settlement      `json:"pagamento"`
	Outstanding decimal.Decimal `json:"valorEmAberto"`
	Status      StatementStatus `json:"status"`
}
