package postgres

import (
	"errors"
	"testing"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/infra/observability"
	"github.com/grana-app/grana-api-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsDomainRejection(t *testing.T) {
	assert.True(t, IsDomainRejection(&domain.ErrValidation{Reason: domain.ReasonInsufficientFunds, Message: "Saldo insuficiente"}))
	assert.True(t, IsDomainRejection(&domain.ErrNotFound{Resource: "conta", ID: "acc-1"}))
	assert.True(t, IsDomainRejection(&domain.ErrConflict{Message: "E-mail já cadastrado"}))
	assert.True(t, IsDomainRejection(&domain.ErrInvalidState{Entity: "conta", Message: "sem limite"}))

	assert.False(t, IsDomainRejection(nil))
	assert.False(t, IsDomainRejection(errors.New("connection refused")))
	assert.False(t, IsDomainRejection(&domain.ErrCircuitOpen{Service: "postgres"}))
}

// A burst of business rejections must not open the breaker; only
// infrastructure failures count.
func TestBreakerIgnoresDomainRejections(t *testing.T) {
	cb := resilience.NewCircuitBreakerWithPolicy("test", BreakerPolicy)

	rejection := &domain.ErrValidation{Reason: domain.ReasonInsufficientFunds, Message: "Saldo insuficiente"}
	for i := 0; i < 20; i++ {
		_, err := cb.Execute(func() (any, error) { return nil, rejection })
		require.ErrorIs(t, err, rejection)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	// Same volume of infrastructure failures trips a fresh breaker.
	cb = resilience.NewCircuitBreakerWithPolicy("test-infra", BreakerPolicy)
	infraErr := errors.New("connection refused")
	for i := 0; i < 20; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, infraErr })
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func storeErrorCount(t *testing.T, m *observability.Metrics) float64 {
	t.Helper()

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "grana_store_errors_total" {
			var total float64
			for _, metric := range f.GetMetric() {
				total += metric.GetCounter().GetValue()
			}
			return total
		}
	}
	return 0
}

func TestMapBreakerErrCountsInfrastructureErrors(t *testing.T) {
	metrics := observability.NewMetrics()
	s := &Store{metrics: metrics, logger: zap.NewNop()}

	// Business rejections pass through uncounted.
	rejection := &domain.ErrNotFound{Resource: "lançamento", ID: "tx-1"}
	assert.ErrorIs(t, s.mapBreakerErr("update_transaction_status", rejection), rejection)
	assert.Equal(t, float64(0), storeErrorCount(t, metrics))

	// Infrastructure failures are counted.
	require.Error(t, s.mapBreakerErr("list_transactions", errors.New("connection refused")))
	assert.Equal(t, float64(1), storeErrorCount(t, metrics))

	// Breaker states map to ErrCircuitOpen and are counted too.
	err := s.mapBreakerErr("list_accounts", gobreaker.ErrOpenState)
	var circuitOpen *domain.ErrCircuitOpen
	require.ErrorAs(t, err, &circuitOpen)
	assert.Equal(t, float64(2), storeErrorCount(t, metrics))

	assert.NoError(t, s.mapBreakerErr("list_accounts", nil))
	assert.Equal(t, float64(2), storeErrorCount(t, metrics))
}
