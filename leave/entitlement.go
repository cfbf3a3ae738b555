package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BaselineHoursPerYear is the full-time reference for hourly proration:
// 40 hours x 52 weeks.
var BaselineHoursPerYear = decimal.NewFromInt(2080)

var secondsPerHour = decimal.NewFromInt(3600)
var oneHundred = decimal.NewFromInt(100)

// EntitlementCalculator converts a base full-time entitlement into the
// actual annual entitlement for an employment type.
//
//	fulltime  base unchanged
//	parttime  base x workingTimePercentage/100
//	hourly    workedHours/2080 x base when external tracking is on,
//	          otherwise 0
//
// Results are never rounded here; presentation rounds to two decimals.
type EntitlementCalculator struct {
	Hours WorkedHoursSource
}

// AnnualEntitlement computes the entitlement for a year. A nil settings
// value means fulltime with the base entitlement.
func (c *EntitlementCalculator) AnnualEntitlement(ctx context.Context, user UserID, year int, baseAnnualDays decimal.Decimal, settings *UserSettings) (decimal.Decimal, error) {
	employmentType := EmploymentFulltime
	if settings != nil {
		employmentType = settings.EmploymentType
	}

	switch employmentType {
	case EmploymentHourly:
		if settings == nil || !settings.ExternalTimeTracking {
			return decimal.Zero, nil
		}
		return c.hourlyEntitlement(ctx, user, year, baseAnnualDays)

	case EmploymentParttime:
		percentage := oneHundred
		if settings != nil {
			percentage = settings.WorkingTimePercentage
		}
		return baseAnnualDays.Mul(percentage.Div(oneHundred)), nil

	default: // fulltime or unknown
		return baseAnnualDays, nil
	}
}

func (c *EntitlementCalculator) hourlyEntitlement(ctx context.Context, user UserID, year int, baseAnnualDays decimal.Decimal) (decimal.Decimal, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	seconds, err := c.Hours.WorkedSeconds(ctx, user, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	workedHours := decimal.NewFromInt(seconds).Div(secondsPerHour)
	return workedHours.Div(BaselineHoursPerYear).Mul(baseAnnualDays), nil
}
