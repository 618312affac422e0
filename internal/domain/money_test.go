package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dot separator", input: "1234.56", want: "1234.56"},
		{name: "comma separator", input: "1234,56", want: "1234.56"},
		{name: "integer", input: "500", want: "500"},
		{name: "surrounding whitespace", input: " 42,10 ", want: "42.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestParseAmount_Rejections(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "12,34,56", "0", "-10", "-0,01"} {
		t.Run("input="+input, func(t *testing.T) {
			_, err := ParseAmount(input)
			require.Error(t, err)

			var validation *ErrValidation
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, ReasonMissingAmount, validation.Reason)
		})
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(75), decimal.NewFromInt(100))
	assert.True(t, got.Equal(decimal.NewFromInt(75)))

	got = Percent(decimal.NewFromInt(1), decimal.NewFromInt(3))
	assert.Equal(t, "33.3", got.StringFixed(1))
}

func TestPercent_ZeroTotal(t *testing.T) {
	got := Percent(decimal.NewFromInt(50), decimal.Zero)
	assert.True(t, got.IsZero())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1234.50", FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "33.3%", FormatPercent(decimal.RequireFromString("33.333")))
}

func TestDeriveStatementStatus(t *testing.T) {
	total := decimal.NewFromInt(1000)

	assert.Equal(t, StatementOpen, DeriveStatementStatus(total, decimal.Zero))
	assert.Equal(t, StatementPartiallyPaid, DeriveStatementStatus(total, decimal.NewFromInt(400)))
	assert.Equal(t, StatementSettled, DeriveStatementStatus(total, total))
	assert.Equal(t, StatementSettled, DeriveStatementStatus(total, decimal.NewFromInt(1200)))
}
