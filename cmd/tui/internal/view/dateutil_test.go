package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_DateRange(t *testing.T) {
	// Thursday
	now := time.Date(2026, 3, 12, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{tf: TimeframeAll},
		{
			tf:        TimeframeThisWeek,
			wantStart: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC),
			wantOK:    true,
		},
		{
			tf:        TimeframeThisMonth,
			wantStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC),
			wantOK:    true,
		},
		{
			tf:        TimeframeLastMonth,
			wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end, ok := tt.tf.DateRange(now)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframe_LastMonthOnThe31st(t *testing.T) {
	start, end, _ := TimeframeLastMonth.DateRange(time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), end)
}

func TestTimeframe_Next(t *testing.T) {
	assert.Equal(t, TimeframeThisWeek, TimeframeAll.Next())
	assert.Equal(t, TimeframeAll, TimeframeLastMonth.Next())
}
