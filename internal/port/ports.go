// Package port defines the interfaces between the service layer and
// infrastructure adapters (hexagonal architecture).
package port

import (
	"context"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
)

// FinanceStore provides user-scoped access to financial data. Every
// method takes the authenticated user id; there is no ambient user
// state anywhere in the service.
type FinanceStore interface {
	// ListTransactions returns transactions dated within [from, to],
	// all statuses, ordered by date.
	ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// GetTransaction returns nil (no error) when the id is unknown.
	GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error)

	UpdateTransactionStatus(ctx context.Context, userID, txID string, status domain.TransactionStatus) error

	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// GetAccount returns nil (no error) when the id is unknown.
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)

	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	ListBudgets(ctx context.Context, userID string, year int, month int) ([]domain.Budget, error)

	// ListStatementCharges returns confirmed credit charges attributable
	// to the given credit account within [from, to]. A charge matches
	// when its credit-card identifier equals accountID, or, for rows
	// where the identifier is unset, when the owning account matches.
	ListStatementCharges(ctx context.Context, userID, accountID string, from, to time.Time) ([]domain.Transaction, error)

	ListSettlements(ctx context.Context, userID, accountID string, from, to time.Time) ([]domain.Settlement, error)

	// ApplySettlement atomically debits the funding account, credits the
	// statement account and records the settlement. The store owns the
	// transaction boundary and serializes concurrent settlements of the
	// same statement.
	ApplySettlement(ctx context.Context, userID string, s *domain.Settlement) error
}

// AuthStore persists users, credentials and refresh tokens.
type AuthStore interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) error

	// GetUserByEmail returns nil (no error) when the email is unknown.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	GetPasswordHash(ctx context.Context, userID string) (string, error)

	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.StoredRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

// Pinger reports store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache is a simple key/value cache with TTL semantics.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
