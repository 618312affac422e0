package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/handler"
	"github.com/grana-app/grana-api-go/internal/infra/cache"
	"github.com/grana-app/grana-api-go/internal/infra/observability"
	"github.com/grana-app/grana-api-go/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubStore backs the router tests with in-memory data. It satisfies
// both port.FinanceStore and port.AuthStore.
type stubStore struct {
	transactions []domain.Transaction
	accounts     []domain.Account
	categories   []domain.Category

	users         map[string]*domain.User
	hashes        map[string]string
	refreshTokens map[string]*domain.StoredRefreshToken
}

func newStubStore() *stubStore {
	return &stubStore{
		users:         map[string]*domain.User{},
		hashes:        map[string]string{},
		refreshTokens: map[string]*domain.StoredRefreshToken{},
	}
}

func (s *stubStore) ListTransactions(_ context.Context, _ string, _, _ time.Time) ([]domain.Transaction, error) {
	return s.transactions, nil
}

func (s *stubStore) GetTransaction(_ context.Context, _, txID string) (*domain.Transaction, error) {
	for i := range s.transactions {
		if s.transactions[i].ID == txID {
			return &s.transactions[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) UpdateTransactionStatus(_ context.Context, _, txID string, status domain.TransactionStatus) error {
	for i := range s.transactions {
		if s.transactions[i].ID == txID {
			s.transactions[i].Status = status
		}
	}
	return nil
}

func (s *stubStore) ListAccounts(_ context.Context, _ string) ([]domain.Account, error) {
	return s.accounts, nil
}

func (s *stubStore) GetAccount(_ context.Context, _, accountID string) (*domain.Account, error) {
	for i := range s.accounts {
		if s.accounts[i].ID == accountID {
			return &s.accounts[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) ListCategories(_ context.Context, _ string) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubStore) ListGoals(_ context.Context, _ string) ([]domain.Goal, error) {
	return nil, nil
}

func (s *stubStore) ListBudgets(_ context.Context, _ string, _, _ int) ([]domain.Budget, error) {
	return nil, nil
}

func (s *stubStore) ListStatementCharges(_ context.Context, _, _ string, _, _ time.Time) ([]domain.Transaction, error) {
	return nil, nil
}

func (s *stubStore) ListSettlements(_ context.Context, _, _ string, _, _ time.Time) ([]domain.Settlement, error) {
	return nil, nil
}

func (s *stubStore) ApplySettlement(_ context.Context, _ string, _ *domain.Settlement) error {
	return nil
}

func (s *stubStore) CreateUser(_ context.Context, user *domain.User, passwordHash string) error {
	s.users[user.ID] = user
	s.hashes[user.ID] = passwordHash
	return nil
}

func (s *stubStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	return s.users[userID], nil
}

func (s *stubStore) GetPasswordHash(_ context.Context, userID string) (string, error) {
	return s.hashes[userID], nil
}

func (s *stubStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.refreshTokens[tokenHash] = &domain.StoredRefreshToken{
		TokenHash: tokenHash, UserID: userID, ExpiresAt: expiresAt,
	}
	return nil
}

func (s *stubStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.StoredRefreshToken, error) {
	return s.refreshTokens[tokenHash], nil
}

func (s *stubStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	delete(s.refreshTokens, tokenHash)
	return nil
}

func (s *stubStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for hash, t := range s.refreshTokens {
		if t.UserID == userID {
			delete(s.refreshTokens, hash)
		}
	}
	return nil
}

func newTestRouter(store *stubStore) http.Handler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	catCache := cache.New[[]domain.Category](time.Minute)
	financeSvc := service.NewFinanceService(store, catCache, metrics, logger)
	authSvc := service.NewAuthService(store, "test-secret", 15*time.Minute, time.Hour, logger)
	return handler.NewRouter(financeSvc, authSvc, nil, metrics, logger)
}

func TestOperationalEndpoints(t *testing.T) {
	router := newTestRouter(newStubStore())

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(newStubStore())

	for _, path := range []string{"/v1/dashboard", "/v1/summary", "/v1/accounts", "/v1/transactions"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	router := newTestRouter(newStubStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func registerAndLogin(t *testing.T, router http.Handler) string {
	t.Helper()

	body := `{"nome":"Maria","email":"maria@example.com","senha":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	login := `{"email":"maria@example.com","senha":"supersecret"}`
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString(login))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestDashboardFlow(t *testing.T) {
	store := newStubStore()
	store.accounts = []domain.Account{
		{ID: "acc-1", Name: "Conta Corrente", Type: domain.AccountChecking, Balance: decimal.NewFromInt(5000)},
	}
	store.transactions = []domain.Transaction{
		{
			ID: "tx-1", Description: "Salário", Amount: decimal.NewFromInt(3000),
			Date: time.Now().UTC(), Kind: domain.KindIncome, Status: domain.StatusConfirmed,
			AccountID: "acc-1",
		},
	}
	router := newTestRouter(store)
	token := registerAndLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dash domain.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Len(t, dash.Transactions, 1)
	assert.Len(t, dash.Accounts, 1)
	assert.Len(t, dash.KPIs, 4)
}

func TestDashboardUnknownPeriod(t *testing.T) {
	router := newTestRouter(newStubStore())
	token := registerAndLogin(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?period=last_decade", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	store := newStubStore()
	router := newTestRouter(store)
	token := registerAndLogin(t, router)
	require.NotEmpty(t, store.refreshTokens)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.refreshTokens)
}
