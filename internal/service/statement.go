package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var statementTracer = otel.Tracer("service/statement")

// GetStatement computes the fatura of a credit account for a period.
// The statement is fully derived from the charge and settlement
// history; the same inputs always produce the same statement.
func (s *FinanceService) GetStatement(ctx context.Context, userID, accountID string, from, to time.Time) (*domain.Statement, error) {
	ctx, span := statementTracer.Start(ctx, "FinanceService.GetStatement")
	defer span.End()

	account, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, &domain.ErrNotFound{Resource: "conta", ID: accountID}
	}
	if !account.IsCreditLine() {
		return nil, &domain.ErrInvalidState{
			Entity:  "conta",
			Message: fmt.Sprintf("conta %s não possui limite de crédito", account.Name),
		}
	}

	charges, err := s.store.ListStatementCharges(ctx, userID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list statement charges: %w", err)
	}
	settlements, err := s.store.ListSettlements(ctx, userID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}

	return buildStatement(account, from, to, charges, settlements), nil
}

// buildStatement assembles the derived statement figures.
func buildStatement(account *domain.Account, from, to time.Time, charges []domain.Transaction, settlements []domain.Settlement) *domain.Statement {
	total := decimal.Zero
	for i := range charges {
		total = total.Add(charges[i].Amount)
	}

	paid := decimal.Zero
	for i := range settlements {
		paid = paid.Add(settlements[i].Amount)
	}

	limit := *account.CreditLimit
	available := limit.Sub(total)
	utilization := domain.Percent(total, limit)

	outstanding := total.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return &domain.Statement{
		AccountID:      account.ID,
		AccountName:    account.Name,
		PeriodStart:    from,
		PeriodEnd:      to,
		Items:          charges,
		Total:          total,
		CreditLimit:    limit,
		AvailableLimit: available,
		Utilization:    utilization,
		OverLimit:      available.IsNegative(),
		OverThreshold:  utilization.GreaterThan(domain.UtilizationAlertThreshold),
		PaidTotal:      paid,
		Outstanding:    outstanding,
		Status:         domain.DeriveStatementStatus(total, paid),
	}
}

// ValidatePayment applies the payment preconditions in a fixed order:
// funding account present, amount parseable and positive, sufficient
// funds on debit-capable accounts, and exact amount on full payments.
func ValidatePayment(funding *domain.Account, amount decimal.Decimal, partial bool, outstanding decimal.Decimal) error {
	if funding == nil {
		return &domain.ErrValidation{
			Reason:  domain.ReasonMissingSourceAccount,
			Message: "Selecione a conta de origem do pagamento",
		}
	}

	// Credit lines are not balance-checked; their overdraft shows up
	// as utilization on their own statement.
	if !funding.IsCreditLine() && funding.Balance.LessThan(amount) {
		return &domain.ErrValidation{
			Reason: domain.ReasonInsufficientFunds,
			Message: fmt.Sprintf("Saldo insuficiente: disponível %s, necessário %s",
				domain.FormatAmount(funding.Balance), domain.FormatAmount(amount)),
		}
	}

	if !partial && !amount.Equal(outstanding) {
		return &domain.ErrValidation{
			Reason: domain.ReasonAmountMismatch,
			Message: fmt.Sprintf("Pagamento total deve quitar o valor em aberto (%s), recebido %s",
				domain.FormatAmount(outstanding), domain.FormatAmount(amount)),
		}
	}
	return nil
}

// PayStatement validates and applies a statement payment. The store
// performs the settlement atomically: funding debit, outstanding
// reduction and settlement record commit together or not at all.
func (s *FinanceService) PayStatement(ctx context.Context, userID string, req *domain.PaymentRequest) (*domain.SettlementResult, error) {
	ctx, span := statementTracer.Start(ctx, "FinanceService.PayStatement")
	defer span.End()

	if req.FundingAccountID == "" {
		return nil, &domain.ErrValidation{
			Reason:  domain.ReasonMissingSourceAccount,
			Message: "Selecione a conta de origem do pagamento",
		}
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	funding, err := s.store.GetAccount(ctx, userID, req.FundingAccountID)
	if err != nil {
		return nil, fmt.Errorf("get funding account: %w", err)
	}
	if funding == nil {
		return nil, &domain.ErrNotFound{Resource: "conta", ID: req.FundingAccountID}
	}

	statement, err := s.GetStatement(ctx, userID, req.StatementAccountID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	if err := ValidatePayment(funding, amount, req.Partial, statement.Outstanding); err != nil {
		s.metrics.IncrSettlement("rejected")
		return nil, err
	}

	settlement := &domain.Settlement{
		ID:                 uuid.NewString(),
		UserID:             userID,
		StatementAccountID: req.StatementAccountID,
		FundingAccountID:   req.FundingAccountID,
		Amount:             amount,
		Partial:            req.Partial,
		PeriodStart:        req.PeriodStart,
		PeriodEnd:          req.PeriodEnd,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.store.ApplySettlement(ctx, userID, settlement); err != nil {
		s.metrics.IncrSettlement("failed")
		return nil, fmt.Errorf("apply settlement: %w", err)
	}

	outstanding := statement.Outstanding.Sub(amount)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	status := domain.DeriveStatementStatus(statement.Total, statement.PaidTotal.Add(amount))

	s.metrics.IncrSettlement("applied")
	s.logger.Info("statement payment applied",
		zap.String("user_id", userID),
		zap.String("statement_account_id", req.StatementAccountID),
		zap.String("funding_account_id", req.FundingAccountID),
		zap.String("amount", domain.FormatAmount(amount)),
		zap.Bool("partial", req.Partial),
		zap.String("statement_status", string(status)),
	)

	return &domain.SettlementResult{
		Settlement:  *settlement,
		Outstanding: outstanding,
		Status:      status,
	}, nil
}
