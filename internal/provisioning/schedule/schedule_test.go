package schedule

import (
	"testing"
	"time"

	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIssueDatesCounts(t *testing.T) {
	start := date(2025, 1, 1)
	cases := map[servicepackagedomain.BillingFrequency]int{
		servicepackagedomain.BillingFrequencyOneTime:   1,
		servicepackagedomain.BillingFrequencyMonthly:   12,
		servicepackagedomain.BillingFrequencyQuarterly: 4,
		servicepackagedomain.BillingFrequencyYearly:    1,
	}
	for frequency, want := range cases {
		t.Run(string(frequency), func(t *testing.T) {
			dates, err := IssueDates(frequency, start)
			require.NoError(t, err)
			assert.Len(t, dates, want)
			assert.True(t, dates[0].Equal(start))
		})
	}
}

func TestIssueDatesMonthly(t *testing.T) {
	start := date(2025, 3, 15)
	dates, err := IssueDates(servicepackagedomain.BillingFrequencyMonthly, start)
	require.NoError(t, err)
	for i, got := range dates {
		assert.True(t, got.Equal(start.AddDate(0, i, 0)), "installment %d: %s", i, got)
	}
	assert.True(t, dates[11].Equal(date(2026, 2, 15)))
}

func TestIssueDatesQuarterly(t *testing.T) {
	dates, err := IssueDates(servicepackagedomain.BillingFrequencyQuarterly, date(2025, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2025, 1, 1), date(2025, 4, 1), date(2025, 7, 1), date(2025, 10, 1)}, dates)
}

func TestIssueDatesUnknownFrequency(t *testing.T) {
	_, err := IssueDates("weekly", date(2025, 1, 1))
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}
