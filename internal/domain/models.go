// Package domain defines the core business entities for the grana API.
// These models are independent of storage and transport and represent
// the canonical data structures used throughout the service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field names follow the dashboard frontend contract (Portuguese enum
// values, camelCase JSON).

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "RECEITA"
	KindExpense TransactionKind = "DESPESA"
)

// TransactionStatus is the lifecycle of a lançamento. Cancellation is a
// status change, never a delete.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDENTE"
	StatusConfirmed TransactionStatus = "CONFIRMADO"
	StatusCancelled TransactionStatus = "CANCELADO"
)

// PaymentMethod tells whether a transaction hit an account directly or
// went through a credit card.
type PaymentMethod string

const (
	MethodDebit  PaymentMethod = "DEBITO"
	MethodCredit PaymentMethod = "CREDITO"
)

// AccountType mirrors the account kinds the dashboard knows about.
type AccountType string

const (
	AccountChecking   AccountType = "CORRENTE"
	AccountSavings    AccountType = "POUPANCA"
	AccountInvestment AccountType = "INVESTIMENTO"
	AccountWallet     AccountType = "CARTEIRA"
	AccountCreditCard AccountType = "CARTAO_CREDITO"
)

// Transaction is a single lançamento.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"-"`
	Description string            `json:"descricao"`
	Amount      decimal.Decimal   `json:"valor"`
	Date        time.Time         `json:"data"`
	Kind        TransactionKind   `json:"tipo"`
	Status      TransactionStatus `json:"status"`
	AccountID   string            `json:"contaId"`
	CategoryID  string            `json:"categoriaId"`

	// Method is empty for transfers and adjustments.
	Method PaymentMethod `json:"formaPagamento,omitempty"`

	// CreditCardID is the credit account the purchase was charged to.
	// Unset for debit transactions and for legacy rows where the charge
	// was recorded directly against the owning account.
	CreditCardID string `json:"cartaoCreditoUsado,omitempty"`

	// Installment linkage for parcelado purchases.
	InstallmentNum   int    `json:"parcelaAtual,omitempty"`
	InstallmentTotal int    `json:"totalParcelas,omitempty"`
	PurchaseGroupID  string `json:"compraId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Confirmed reports whether the transaction counts toward aggregates.
func (t *Transaction) Confirmed() bool {
	return t.Status == StatusConfirmed
}

// Account is a conta. Credit cards are accounts with a positive
// CreditLimit; their Balance holds the outstanding charges as a
// negative (or zero) value.
type Account struct {
	ID      string          `json:"id"`
	UserID  string          `json:"-"`
	Name    string          `json:"nome"`
	Type    AccountType     `json:"tipo"`
	Balance decimal.Decimal `json:"saldoAtual"`

	CreditLimit    *decimal.Decimal `json:"limiteCredito,omitempty"`
	InvestedAmount *decimal.Decimal `json:"valorInvestido,omitempty"`

	Color     string    `json:"cor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsCreditLine reports whether the account carries a usable credit
// limit. Accounts without one are debit-capable and subject to the
// insufficient-funds check on payments.
func (a *Account) IsCreditLine() bool {
	return a.CreditLimit != nil && a.CreditLimit.IsPositive()
}

// Category classifies expense and income transactions.
type Category struct {
	ID     string          `json:"id"`
	UserID string          `json:"-"`
	Name   string          `json:"nome"`
	Kind   TransactionKind `json:"tipo"`
	Color  string          `json:"cor,omitempty"`
	Icon   string          `json:"icone,omitempty"`
}

// Goal is a meta. Surfaced on the dashboard for display context only.
type Goal struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Name      string          `json:"nome"`
	Target    decimal.Decimal `json:"valorAlvo"`
	Current   decimal.Decimal `json:"valorAtual"`
	Deadline  *time.Time      `json:"prazo,omitempty"`
	Status    string          `json:"status"`
	Color     string          `json:"cor,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Budget is an orçamento for one category in one month.
type Budget struct {
	ID         string          `json:"id"`
	UserID     string          `json:"-"`
	CategoryID string          `json:"categoriaId"`
	Year       int             `json:"ano"`
	Month      int             `json:"mes"`
	Planned    decimal.Decimal `json:"valorPlanejado"`
	AlertPct   int             `json:"alertaPercentual,omitempty"`
}

// User is an authenticated dashboard owner.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SuccessResponse is a generic acknowledgement payload.
type SuccessResponse struct {
	Message string `json:"message"`
}
