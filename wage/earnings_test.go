package wage_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/wage-watcher/wage"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func config(salary, days string) wage.WageConfig {
	in := wage.DefaultInputs()
	in.MonthlySalary = salary
	in.WorkDaysPerMonth = days
	return in.Config()
}

// =============================================================================
// CONFIG
// =============================================================================

func TestWageConfig_DailySalary(t *testing.T) {
	assertDecimal(t, "200", config("4400", "22").DailySalary())
	assertDecimal(t, "0", config("", "22").DailySalary())
	assertDecimal(t, "0", config("4400", "0").DailySalary())
	assertDecimal(t, "0", config("-10", "22").DailySalary())
}

func TestWageConfig_Validate(t *testing.T) {
	assert.NoError(t, config("4400", "22").Validate())

	err := config("0", "22").Validate()
	assert.ErrorIs(t, err, wage.ErrInvalidConfig)
	var cfgErr *wage.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, wage.FieldMonthlySalary, cfgErr.Field)

	err = config("4400", "abc").Validate()
	assert.ErrorIs(t, err, wage.ErrInvalidConfig)
}

func TestInputs_Config_DecimalPlacesFallback(t *testing.T) {
	in := wage.DefaultInputs()
	in.DecimalPlaces = "50"
	assert.Equal(t, int32(2), in.Config().DecimalPlaces)

	in.DecimalPlaces = "0"
	assert.Equal(t, int32(0), in.Config().DecimalPlaces)
}

// =============================================================================
// RATES
// =============================================================================

func TestComputeRates_ReferenceScenario(t *testing.T) {
	// GIVEN: 4400 per month over 22 days, 09:00-17:00
	rates := wage.ComputeRates(config("4400", "22"), dayShift())

	// THEN: 200 per day over 28800 seconds
	assertDecimal(t, "200", rates.DailySalary)
	assertDecimal(t, "200", rates.ExpectedTotal)
	assert.Equal(t, 28800*time.Second, rates.ShiftDuration)
	assertDecimal(t, "0.006944", rates.PerSecond.Round(6))

	// AND: One hour in earns 25.00
	assertDecimal(t, "25", rates.Earnings(time.Hour))
	assertDecimal(t, "12.5", rates.Progress(rates.Earnings(time.Hour)))
}

func TestComputeRates_Degenerate(t *testing.T) {
	midnight := at(10, 0, 0)
	rates := wage.ComputeRates(config("4400", "22"), wage.Shift{Start: midnight, End: midnight})

	assert.True(t, rates.PerSecond.IsZero())
	assert.True(t, rates.ExpectedTotal.IsZero())
	assert.True(t, rates.Earnings(time.Hour).IsZero())
	assert.True(t, rates.Progress(decimal.NewFromInt(10)).IsZero())
}

func TestComputeRates_InvalidSalary(t *testing.T) {
	rates := wage.ComputeRates(config("", "22"), dayShift())

	assert.True(t, rates.Earnings(time.Hour).IsZero())
	assert.True(t, rates.ExpectedTotal.IsZero())
}

func TestRates_OvertimeIsNotCapped(t *testing.T) {
	rates := wage.ComputeRates(config("4400", "22"), dayShift())

	earnings := rates.Earnings(10 * time.Hour)

	assertDecimal(t, "250", earnings)
	assertDecimal(t, "100", rates.Progress(earnings), "progress is capped")
}

func TestRates_MillisecondPrecision(t *testing.T) {
	rates := wage.ComputeRates(config("4400", "22"), dayShift())

	// 200 * 1.5 / 28800
	assertDecimal(t, "0.0104166666666667", rates.Earnings(1500*time.Millisecond).Round(16))
}

// =============================================================================
// FORMATTING
// =============================================================================

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", wage.FormatElapsed(0))
	assert.Equal(t, "01:01:01", wage.FormatElapsed(3661*time.Second))
	assert.Equal(t, "08:00:00", wage.FormatElapsed(8*time.Hour+900*time.Millisecond))
	assert.Equal(t, "100:00:00", wage.FormatElapsed(100*time.Hour))
	assert.Equal(t, "00:00:00", wage.FormatElapsed(-time.Second))
}
