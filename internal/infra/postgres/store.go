package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/infra/observability"
	"github.com/grana-app/grana-api-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Store implements port.FinanceStore and port.Pinger. Reads go through
// the circuit breaker with retry; writes go through the breaker only,
// since retrying a non-idempotent statement is worse than failing it.
type Store struct {
	db      *sql.DB
	cb      *gobreaker.CircuitBreaker
	rcfg    resilience.Config
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewStore creates a postgres-backed store.
func NewStore(db *sql.DB, cb *gobreaker.CircuitBreaker, rcfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Store {
	return &Store{db: db, cb: cb, rcfg: rcfg, metrics: metrics, logger: logger}
}

// IsDomainRejection reports whether the error is a business rejection
// rather than an infrastructure failure. Rejections propagate to the
// caller but must not count as circuit-breaker failures: a burst of
// user errors would otherwise open the breaker and refuse healthy
// traffic.
func IsDomainRejection(err error) bool {
	var validation *domain.ErrValidation
	var notFound *domain.ErrNotFound
	var conflict *domain.ErrConflict
	var invalidState *domain.ErrInvalidState
	return errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &conflict) ||
		errors.As(err, &invalidState)
}

// BreakerPolicy is the IsSuccessful policy for the store's breaker.
func BreakerPolicy(err error) bool {
	return err == nil || IsDomainRejection(err)
}

// Ping reports database connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) read(ctx context.Context, op string, fn func() error) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.rcfg, fn)
	})
	return s.mapBreakerErr(op, err)
}

func (s *Store) write(ctx context.Context, op string, fn func() error) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	return s.mapBreakerErr(op, err)
}

func (s *Store) mapBreakerErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		s.metrics.IncrStoreError(op)
		s.logger.Error("store circuit open", zap.String("operation", op))
		return &domain.ErrCircuitOpen{Service: "postgres"}
	}
	if !IsDomainRejection(err) {
		s.metrics.IncrStoreError(op)
	}
	return err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const transactionColumns = `
	id, user_id, description, amount, date, kind, status, account_id,
	COALESCE(category_id::text, ''), method, COALESCE(credit_card_id::text, ''),
	installment_num, installment_total, COALESCE(purchase_group_id::text, ''),
	created_at, updated_at
`

func scanTransaction(sc scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var kind, status, method string

	if err := sc.Scan(
		&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Date, &kind, &status,
		&t.AccountID, &t.CategoryID, &method, &t.CreditCardID,
		&t.InstallmentNum, &t.InstallmentTotal, &t.PurchaseGroupID,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Kind = domain.TransactionKind(kind)
	t.Status = domain.TransactionStatus(status)
	t.Method = domain.PaymentMethod(method)
	return &t, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// ListTransactions returns all transactions dated within [from, to].
// The bounds are cast to date so the inclusive end holds regardless of
// the session time zone.
func (s *Store) ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date DESC, created_at DESC`

	var txs []domain.Transaction
	err := s.read(ctx, "list_transactions", func() error {
		var err error
		txs, err = s.queryTransactions(ctx, query, userID, from, to)
		return err
	})
	return txs, err
}

// GetTransaction returns nil when the id is unknown.
func (s *Store) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND id = $2`

	var t *domain.Transaction
	err := s.read(ctx, "get_transaction", func() error {
		var err error
		t, err = scanTransaction(s.db.QueryRowContext(ctx, query, userID, txID))
		if errors.Is(err, sql.ErrNoRows) {
			t = nil
			return nil
		}
		return err
	})
	return t, err
}

// UpdateTransactionStatus moves a transaction to the given status.
func (s *Store) UpdateTransactionStatus(ctx context.Context, userID, txID string, status domain.TransactionStatus) error {
	query := `UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = $3`

	return s.write(ctx, "update_transaction_status", func() error {
		res, err := s.db.ExecContext(ctx, query, status, userID, txID)
		if err != nil {
			return fmt.Errorf("updating status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &domain.ErrNotFound{Resource: "lançamento", ID: txID}
		}
		return nil
	})
}

func scanAccount(sc scanner) (*domain.Account, error) {
	var a domain.Account
	var accType, color string

	if err := sc.Scan(
		&a.ID, &a.UserID, &a.Name, &accType, &a.Balance,
		&a.CreditLimit, &a.InvestedAmount, &color, &a.CreatedAt,
	); err != nil {
		return nil, err
	}

	a.Type = domain.AccountType(accType)
	a.Color = color
	return &a, nil
}

const accountColumns = `id, user_id, name, type, balance, credit_limit, invested_amount, color, created_at`

// ListAccounts returns all accounts of the user.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at`

	var accounts []domain.Account
	err := s.read(ctx, "list_accounts", func() error {
		rows, err := s.db.QueryContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("querying accounts: %w", err)
		}
		defer rows.Close()

		accounts = accounts[:0]
		for rows.Next() {
			a, err := scanAccount(rows)
			if err != nil {
				return fmt.Errorf("scanning account: %w", err)
			}
			accounts = append(accounts, *a)
		}
		return rows.Err()
	})
	return accounts, err
}

// GetAccount returns nil when the id is unknown.
func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND id = $2`

	var a *domain.Account
	err := s.read(ctx, "get_account", func() error {
		var err error
		a, err = scanAccount(s.db.QueryRowContext(ctx, query, userID, accountID))
		if errors.Is(err, sql.ErrNoRows) {
			a = nil
			return nil
		}
		return err
	})
	return a, err
}

// ListCategories returns all categories of the user.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT id, user_id, name, kind, color, icon FROM categories WHERE user_id = $1 ORDER BY name`

	var cats []domain.Category
	err := s.read(ctx, "list_categories", func() error {
		rows, err := s.db.QueryContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("querying categories: %w", err)
		}
		defer rows.Close()

		cats = cats[:0]
		for rows.Next() {
			var c domain.Category
			var kind string
			if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.Color, &c.Icon); err != nil {
				return fmt.Errorf("scanning category: %w", err)
			}
			c.Kind = domain.TransactionKind(kind)
			cats = append(cats, c)
		}
		return rows.Err()
	})
	return cats, err
}

// ListGoals returns all goals of the user.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	query := `SELECT id, user_id, name, target, current, deadline, status, color, created_at
		FROM goals WHERE user_id = $1 ORDER BY created_at`

	var goals []domain.Goal
	err := s.read(ctx, "list_goals", func() error {
		rows, err := s.db.QueryContext(ctx, query, userID)
		if err != nil {
			return fmt.Errorf("querying goals: %w", err)
		}
		defer rows.Close()

		goals = goals[:0]
		for rows.Next() {
			var g domain.Goal
			if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current,
				&g.Deadline, &g.Status, &g.Color, &g.CreatedAt); err != nil {
				return fmt.Errorf("scanning goal: %w", err)
			}
			goals = append(goals, g)
		}
		return rows.Err()
	})
	return goals, err
}

// ListBudgets returns the budgets of one month.
func (s *Store) ListBudgets(ctx context.Context, userID string, year, month int) ([]domain.Budget, error) {
	query := `SELECT id, user_id, category_id, year, month, planned, alert_pct
		FROM budgets WHERE user_id = $1 AND year = $2 AND month = $3`

	var budgets []domain.Budget
	err := s.read(ctx, "list_budgets", func() error {
		rows, err := s.db.QueryContext(ctx, query, userID, year, month)
		if err != nil {
			return fmt.Errorf("querying budgets: %w", err)
		}
		defer rows.Close()

		budgets = budgets[:0]
		for rows.Next() {
			var b domain.Budget
			if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Year, &b.Month,
				&b.Planned, &b.AlertPct); err != nil {
				return fmt.Errorf("scanning budget: %w", err)
			}
			budgets = append(budgets, b)
		}
		return rows.Err()
	})
	return budgets, err
}
