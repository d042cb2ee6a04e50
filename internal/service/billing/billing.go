// Package billing turns a booking snapshot into billable days and totals.
package billing

import (
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/shopspring/decimal"
)

// Policy selects how billable days are counted.
type Policy string

const (
	// PolicyInclusive counts both the start and the end date.
	PolicyInclusive Policy = "inclusive"
	// PolicyClamped counts nights between start and the actual return
	// (or the planned end), with a one-day minimum.
	PolicyClamped Policy = "clamped"
)

// AddonStrategy selects how add-ons appear as line items.
type AddonStrategy string

const (
	AddonsPerLine    AddonStrategy = "per_line"
	AddonsAggregated AddonStrategy = "aggregated"
)

var TaxRate = decimal.RequireFromString("0.18")

type LineItem struct {
	Description string
	Days        int
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

type Breakdown struct {
	Days           int
	Lines          []LineItem
	RentalSubtotal decimal.Decimal
	AddonsTotal    decimal.Decimal
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	GrandTotal     decimal.Decimal
}

type Calculator struct {
	policy   Policy
	strategy AddonStrategy
}

func NewCalculator(policy Policy, strategy AddonStrategy) (*Calculator, error) {
	switch policy {
	case PolicyInclusive, PolicyClamped:
	default:
		return nil, fmt.Errorf("unknown billing policy %q", policy)
	}
	switch strategy {
	case AddonsPerLine, AddonsAggregated:
	default:
		return nil, fmt.Errorf("unknown add-on strategy %q", strategy)
	}
	return &Calculator{policy: policy, strategy: strategy}, nil
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// BillableDays is always at least 1.
func (c *Calculator) BillableDays(start, end time.Time, returnedAt *time.Time) int {
	switch c.policy {
	case PolicyClamped:
		if returnedAt != nil && !returnedAt.IsZero() {
			end = *returnedAt
		}
		if start.IsZero() || end.IsZero() {
			return 1
		}
		days := calendarDays(start, end)
		if days <= 0 {
			return 1
		}
		return days
	default:
		if start.IsZero() || end.IsZero() {
			return 1
		}
		raw := calendarDays(start, end)
		if raw <= 0 {
			return 1
		}
		return raw + 1
	}
}

// Compute prices a booking from its snapshot rates and add-on lines.
// The result depends only on its inputs.
func (c *Calculator) Compute(b *domain.Booking, addons []domain.BookingAddOn) Breakdown {
	days := c.BillableDays(b.StartDate, b.EndDate, b.ReturnedAt)
	d := decimal.NewFromInt(int64(days))

	rental := d.Mul(b.DailyRate)
	lines := []LineItem{{
		Description: "Vehicle Rental Charges - " + VehicleName(b),
		Days:        days,
		Rate:        b.DailyRate,
		Amount:      rental,
	}}

	perDay := decimal.Zero
	for _, a := range addons {
		perDay = perDay.Add(a.DailyRate)
	}
	addonsTotal := d.Mul(perDay)

	switch c.strategy {
	case AddonsAggregated:
		if len(addons) > 0 {
			lines = append(lines, LineItem{
				Description: "Add-on Services",
				Days:        days,
				Rate:        perDay,
				Amount:      addonsTotal,
			})
		}
	default:
		for _, a := range addons {
			lines = append(lines, LineItem{
				Description: "Add-on Service - " + a.Name,
				Days:        days,
				Rate:        a.DailyRate,
				Amount:      d.Mul(a.DailyRate),
			})
		}
	}

	subtotal := rental.Add(addonsTotal)
	tax := subtotal.Mul(TaxRate).Round(2)

	return Breakdown{
		Days:           days,
		Lines:          lines,
		RentalSubtotal: rental,
		AddonsTotal:    addonsTotal,
		Subtotal:       subtotal,
		Tax:            tax,
		GrandTotal:     subtotal.Add(tax),
	}
}

// VehicleName falls back from the snapshot car name to the car type name.
func VehicleName(b *domain.Booking) string {
	if b.CarName != "" {
		return b.CarName
	}
	if b.CarType != nil && b.CarType.Name != "" {
		return b.CarType.Name
	}
	return "Vehicle"
}

// FormatCurrency renders "Rs " and two decimals, without grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return "Rs " + amount.StringFixed(2)
}

func calendarDays(start, end time.Time) int {
	s := dateOf(start)
	e := dateOf(end)
	return int(e.Sub(s).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
