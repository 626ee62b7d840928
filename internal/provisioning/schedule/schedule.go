// Package schedule derives invoice issue dates from a billing frequency.
package schedule

import (
	"errors"
	"time"

	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
)

var ErrUnknownFrequency = errors.New("unknown_billing_frequency")

// IssueDates returns the issue date of every invoice billed for frequency,
// anchored on start. Month arithmetic follows time.AddDate normalisation.
func IssueDates(frequency servicepackagedomain.BillingFrequency, start time.Time) ([]time.Time, error) {
	var count, stepMonths int
	switch frequency {
	case servicepackagedomain.BillingFrequencyOneTime, servicepackagedomain.BillingFrequencyYearly:
		count, stepMonths = 1, 0
	case servicepackagedomain.BillingFrequencyMonthly:
		count, stepMonths = 12, 1
	case servicepackagedomain.BillingFrequencyQuarterly:
		count, stepMonths = 4, 3
	default:
		return nil, ErrUnknownFrequency
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, start.AddDate(0, i*stepMonths, 0))
	}
	return dates, nil
}
