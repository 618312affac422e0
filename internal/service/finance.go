package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/infra/observability"
	"github.com/grana-app/grana-api-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var financeTracer = otel.Tracer("service/finance")

// FinanceService aggregates a user's financial data into the dashboard
// payloads and owns transaction status transitions.
type FinanceService struct {
	store    port.FinanceStore
	catCache port.Cache[[]domain.Category]
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewFinanceService creates the finance service.
func NewFinanceService(store port.FinanceStore, catCache port.Cache[[]domain.Category], metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{
		store:    store,
		catCache: catCache,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetDashboard resolves the symbolic period and assembles the full
// dashboard. The five collaborator fetches run concurrently; any
// failure aborts the whole aggregation. There is no partial dashboard.
func (s *FinanceService) GetDashboard(ctx context.Context, userID string, period domain.Period) (*domain.Dashboard, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetDashboard")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	now := time.Now().UTC()
	from, to, err := domain.ResolvePeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	var (
		txs      []domain.Transaction
		cats     []domain.Category
		accounts []domain.Account
		goals    []domain.Goal
		budgets  []domain.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.categories(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID, now.Year(), int(now.Month()))
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrRequest("error")
		s.logger.Error("dashboard aggregation failed",
			zap.String("user_id", userID),
			zap.String("period", string(period)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("dashboard aggregation: %w", err)
	}

	daysElapsed := domain.DaysInRange(from, to)
	summary, err := CalculateFinancialSummary(txs, accounts, daysElapsed)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrRequest("success")
	s.logger.Info("dashboard assembled",
		zap.String("user_id", userID),
		zap.String("period", string(period)),
		zap.Int("transactions", len(txs)),
		zap.Int("accounts", len(accounts)),
	)

	return &domain.Dashboard{
		PeriodStart:  from,
		PeriodEnd:    to,
		KPIs:         BuildKPIs(summary),
		Summary:      summary,
		ByCategory:   AggregateExpensesByCategory(txs, cats),
		Transactions: txs,
		Categories:   cats,
		Accounts:     accounts,
		Goals:        goals,
		Budgets:      budgets,
	}, nil
}

// GetFinancialSummary returns the summary block alone for a period.
func (s *FinanceService) GetFinancialSummary(ctx context.Context, userID string, period domain.Period) (*domain.FinancialSummary, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetFinancialSummary")
	defer span.End()

	from, to, err := domain.ResolvePeriodRange(period, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return CalculateFinancialSummary(txs, accounts, domain.DaysInRange(from, to))
}

// GetExpenseBreakdown returns the expenses-by-category slices for a period.
func (s *FinanceService) GetExpenseBreakdown(ctx context.Context, userID string, period domain.Period) ([]domain.CategorySlice, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetExpenseBreakdown")
	defer span.End()

	from, to, err := domain.ResolvePeriodRange(period, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.categories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return AggregateExpensesByCategory(txs, cats), nil
}

// ListTransactions returns all transactions within a resolved period.
func (s *FinanceService) ListTransactions(ctx context.Context, userID string, period domain.Period) ([]domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListTransactions")
	defer span.End()

	from, to, err := domain.ResolvePeriodRange(period, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, userID, from, to)
}

// ConfirmTransaction moves a pending transaction to CONFIRMADO.
func (s *FinanceService) ConfirmTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ConfirmTransaction")
	defer span.End()

	tx, err := s.store.GetTransaction(ctx, userID, txID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if tx == nil {
		return &domain.ErrNotFound{Resource: "lançamento", ID: txID}
	}
	if tx.Status != domain.StatusPending {
		return &domain.ErrInvalidState{
			Entity:  "lançamento",
			Message: fmt.Sprintf("somente lançamentos pendentes podem ser confirmados (status atual: %s)", tx.Status),
		}
	}

	if err := s.store.UpdateTransactionStatus(ctx, userID, txID, domain.StatusConfirmed); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.logger.Info("transaction confirmed",
		zap.String("user_id", userID),
		zap.String("transaction_id", txID),
	)
	return nil
}

// CancelTransaction marks a transaction CANCELADO. The row is kept;
// cancellation is never a delete.
func (s *FinanceService) CancelTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CancelTransaction")
	defer span.End()

	tx, err := s.store.GetTransaction(ctx, userID, txID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if tx == nil {
		return &domain.ErrNotFound{Resource: "lançamento", ID: txID}
	}
	if tx.Status == domain.StatusCancelled {
		return &domain.ErrInvalidState{
			Entity:  "lançamento",
			Message: "lançamento já está cancelado",
		}
	}

	if err := s.store.UpdateTransactionStatus(ctx, userID, txID, domain.StatusCancelled); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.logger.Info("transaction cancelled",
		zap.String("user_id", userID),
		zap.String("transaction_id", txID),
	)
	return nil
}

// GetAccountOverview lists accounts with utilization figures for
// credit lines. Utilization above 80% raises the alert flag.
func (s *FinanceService) GetAccountOverview(ctx context.Context, userID string) ([]domain.AccountOverview, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetAccountOverview")
	defer span.End()

	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	overview := make([]domain.AccountOverview, 0, len(accounts))
	for _, a := range accounts {
		row := domain.AccountOverview{Account: a}
		if a.IsCreditLine() {
			used := a.Balance.Abs()
			utilization := domain.Percent(used, *a.CreditLimit)
			available := a.CreditLimit.Sub(used)
			row.Utilization = &utilization
			row.AvailableLimit = &available
			row.OverThreshold = utilization.GreaterThan(domain.UtilizationAlertThreshold)
		}
		overview = append(overview, row)
	}
	return overview, nil
}

// categories returns the user's categories, served from the TTL cache
// when warm.
func (s *FinanceService) categories(ctx context.Context, userID string) ([]domain.Category, error) {
	if cached, ok := s.catCache.Get(userID); ok {
		s.metrics.IncrCacheHit("categories")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("categories")

	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.catCache.Set(userID, cats)
	return cats, nil
}
