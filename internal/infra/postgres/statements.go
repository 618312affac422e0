package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"

	"github.com/google/uuid"
)

// Statement settlement persistence. The settlement itself (funding
// debit, outstanding reduction, settlement record) is one database
// transaction; concurrent settlements of the same statement serialize
// on a per-statement advisory lock.

// ListStatementCharges returns confirmed credit charges attributable
// to the account within [from, to]. Rows with the credit-card
// identifier unset fall back to matching on the owning account.
func (s *Store) ListStatementCharges(ctx context.Context, userID, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND status = 'CONFIRMADO'
		  AND kind = 'DESPESA'
		  AND (credit_card_id = $2 OR (credit_card_id IS NULL AND account_id = $2))
		  AND date >= $3::date AND date <= $4::date
		ORDER BY date, created_at`

	var txs []domain.Transaction
	err := s.read(ctx, "list_statement_charges", func() error {
		var err error
		txs, err = s.queryTransactions(ctx, query, userID, accountID, from, to)
		return err
	})
	return txs, err
}

// ListSettlements returns payments applied to a statement period.
func (s *Store) ListSettlements(ctx context.Context, userID, accountID string, from, to time.Time) ([]domain.Settlement, error) {
	query := `SELECT id, user_id, statement_account_id, funding_account_id, amount, partial,
			period_start, period_end, created_at
		FROM settlements
		WHERE user_id = $1 AND statement_account_id = $2
		  AND period_start = $3::date AND period_end = $4::date
		ORDER BY created_at`

	var settlements []domain.Settlement
	err := s.read(ctx, "list_settlements", func() error {
		rows, err := s.db.QueryContext(ctx, query, userID, accountID, from, to)
		if err != nil {
			return fmt.Errorf("querying settlements: %w", err)
		}
		defer rows.Close()

		settlements = settlements[:0]
		for rows.Next() {
			var st domain.Settlement
			if err := rows.Scan(&st.ID, &st.UserID, &st.StatementAccountID, &st.FundingAccountID,
				&st.Amount, &st.Partial, &st.PeriodStart, &st.PeriodEnd, &st.CreatedAt); err != nil {
				return fmt.Errorf("scanning settlement: %w", err)
			}
			settlements = append(settlements, st)
		}
		return rows.Err()
	})
	return settlements, err
}

// statementLockKey derives the advisory lock key for one statement.
func statementLockKey(accountID string, periodStart time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(accountID))
	h.Write([]byte{0})
	h.Write([]byte(periodStart.Format("2006-01-02")))
	return int64(h.Sum64())
}

// ApplySettlement debits the funding account, credits the statement
// account and records the settlement plus its expense transaction,
// all inside one transaction. Funds are re-checked under the lock so
// two racing payments cannot both pass the service-level validation.
func (s *Store) ApplySettlement(ctx context.Context, userID string, st *domain.Settlement) error {
	return s.write(ctx, "apply_settlement", func() error {
		dbTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning settlement tx: %w", err)
		}
		defer dbTx.Rollback()

		lockKey := statementLockKey(st.StatementAccountID, st.PeriodStart)
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
			return fmt.Errorf("acquiring statement lock: %w", err)
		}

		row := dbTx.QueryRowContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND id = $2 FOR UPDATE`,
			userID, st.FundingAccountID)
		funding, err := scanAccount(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "conta", ID: st.FundingAccountID}
		}
		if err != nil {
			return fmt.Errorf("locking funding account: %w", err)
		}

		if !funding.IsCreditLine() && funding.Balance.LessThan(st.Amount) {
			return &domain.ErrValidation{
				Reason: domain.ReasonInsufficientFunds,
				Message: fmt.Sprintf("Saldo insuficiente: disponível %s, necessário %s",
					domain.FormatAmount(funding.Balance), domain.FormatAmount(st.Amount)),
			}
		}

		if _, err := dbTx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance - $1 WHERE user_id = $2 AND id = $3`,
			st.Amount, userID, st.FundingAccountID); err != nil {
			return fmt.Errorf("debiting funding account: %w", err)
		}

		// Outstanding charges are stored negative; the payment moves
		// the card balance toward zero.
		if _, err := dbTx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance + $1 WHERE user_id = $2 AND id = $3`,
			st.Amount, userID, st.StatementAccountID); err != nil {
			return fmt.Errorf("crediting statement account: %w", err)
		}

		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO settlements (id, user_id, statement_account_id, funding_account_id,
				amount, partial, period_start, period_end, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::date, $9)`,
			st.ID, userID, st.StatementAccountID, st.FundingAccountID,
			st.Amount, st.Partial, st.PeriodStart, st.PeriodEnd, st.CreatedAt); err != nil {
			return fmt.Errorf("inserting settlement: %w", err)
		}

		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, description, amount, date, kind, status,
				account_id, method, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5::date, 'DESPESA', 'CONFIRMADO', $6, 'DEBITO', NOW(), NOW())`,
			uuid.NewString(), userID, "Pagamento de fatura", st.Amount,
			st.CreatedAt, st.FundingAccountID); err != nil {
			return fmt.Errorf("recording settlement transaction: %w", err)
		}

		if err := dbTx.Commit(); err != nil {
			return fmt.Errorf("committing settlement: %w", err)
		}
		return nil
	})
}
