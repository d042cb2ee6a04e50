package billing

import (
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCalculator(t *testing.T, p Policy, s AddonStrategy) *Calculator {
	t.Helper()
	c, err := NewCalculator(p, s)
	require.NoError(t, err)
	return c
}

func TestNewCalculator_RejectsUnknownValues(t *testing.T) {
	_, err := NewCalculator("weekly", AddonsPerLine)
	assert.Error(t, err)

	_, err = NewCalculator(PolicyInclusive, "grouped")
	assert.Error(t, err)
}

func TestBillableDays(t *testing.T) {
	returned := date(2024, 1, 2)

	testCases := []struct {
		name     string
		policy   Policy
		start    time.Time
		end      time.Time
		returned *time.Time
		expected int
	}{
		{"inclusive counts both ends", PolicyInclusive, date(2024, 1, 1), date(2024, 1, 4), nil, 4},
		{"inclusive same day", PolicyInclusive, date(2024, 1, 1), date(2024, 1, 1), nil, 1},
		{"inclusive missing end", PolicyInclusive, date(2024, 1, 1), time.Time{}, nil, 1},
		{"inclusive end before start", PolicyInclusive, date(2024, 1, 4), date(2024, 1, 1), nil, 1},
		{"inclusive ignores return", PolicyInclusive, date(2024, 1, 1), date(2024, 1, 4), &returned, 4},
		{"clamped counts nights", PolicyClamped, date(2024, 1, 1), date(2024, 1, 4), nil, 3},
		{"clamped same day", PolicyClamped, date(2024, 1, 1), date(2024, 1, 1), nil, 1},
		{"clamped uses actual return", PolicyClamped, date(2024, 1, 1), date(2024, 1, 4), &returned, 1},
		{"clamped end before start", PolicyClamped, date(2024, 1, 4), date(2024, 1, 1), nil, 1},
		{"clamped ignores time of day", PolicyClamped, date(2024, 1, 1), time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC), nil, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCalculator(t, tc.policy, AddonsPerLine)
			assert.Equal(t, tc.expected, c.BillableDays(tc.start, tc.end, tc.returned))
		})
	}
}

func TestCompute_TaxAndGrandTotal(t *testing.T) {
	c := mustCalculator(t, PolicyInclusive, AddonsPerLine)
	b := &domain.Booking{
		CarName:   "Swift",
		StartDate: date(2024, 1, 1),
		EndDate:   date(2024, 1, 1),
		DailyRate: dec("1000"),
	}

	got := c.Compute(b, nil)

	assert.Equal(t, 1, got.Days)
	assert.Equal(t, "1000.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "180.00", got.Tax.StringFixed(2))
	assert.Equal(t, "1180.00", got.GrandTotal.StringFixed(2))
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, "Vehicle Rental Charges - Swift", got.Lines[0].Description)
}

func TestCompute_AddonStrategiesAgreeOnTotals(t *testing.T) {
	b := &domain.Booking{
		CarName:   "Innova",
		StartDate: date(2024, 1, 1),
		EndDate:   date(2024, 1, 4),
		DailyRate: dec("1500.50"),
	}
	addons := []domain.BookingAddOn{
		{Name: "GPS", DailyRate: dec("100.10")},
		{Name: "Child Seat", DailyRate: dec("50.20")},
	}

	perLine := mustCalculator(t, PolicyInclusive, AddonsPerLine).Compute(b, addons)
	aggregated := mustCalculator(t, PolicyInclusive, AddonsAggregated).Compute(b, addons)

	assert.Len(t, perLine.Lines, 3)
	assert.Equal(t, "Add-on Service - GPS", perLine.Lines[1].Description)
	assert.Equal(t, "400.40", perLine.Lines[1].Amount.StringFixed(2))
	assert.Len(t, aggregated.Lines, 2)
	assert.Equal(t, "150.30", aggregated.Lines[1].Rate.StringFixed(2))

	assert.True(t, perLine.AddonsTotal.Equal(aggregated.AddonsTotal))
	assert.Equal(t, "601.20", perLine.AddonsTotal.StringFixed(2))
	assert.Equal(t, "6002.00", perLine.RentalSubtotal.StringFixed(2))
	assert.Equal(t, "6603.20", perLine.Subtotal.StringFixed(2))
	assert.Equal(t, "1188.58", perLine.Tax.StringFixed(2))
	assert.Equal(t, "7791.78", perLine.GrandTotal.StringFixed(2))
}

func TestCompute_IsDeterministic(t *testing.T) {
	c := mustCalculator(t, PolicyClamped, AddonsPerLine)
	b := &domain.Booking{StartDate: date(2024, 3, 1), EndDate: date(2024, 3, 5), DailyRate: dec("999.99")}
	addons := []domain.BookingAddOn{{Name: "Driver", DailyRate: dec("300")}}

	assert.Equal(t, c.Compute(b, addons), c.Compute(b, addons))
}

func TestVehicleName(t *testing.T) {
	assert.Equal(t, "Swift", VehicleName(&domain.Booking{CarName: "Swift"}))
	assert.Equal(t, "Hatchback", VehicleName(&domain.Booking{CarType: &domain.CarType{Name: "Hatchback"}}))
	assert.Equal(t, "Vehicle", VehicleName(&domain.Booking{}))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "Rs 1180.00", FormatCurrency(dec("1180")))
	assert.Equal(t, "Rs 1234567.50", FormatCurrency(dec("1234567.5")))
	assert.Equal(t, "Rs 0.00", FormatCurrency(decimal.Zero))
}
