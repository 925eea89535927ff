package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestEvaluateBoundaries(t *testing.T) {
	t.Parallel()

	start := fixedNow.AddDate(-1, 0, 0)

	tests := []struct {
		name       string
		end        time.Time
		wantStatus Status
		wantDays   int
	}{
		{
			name:       "end equals now is active",
			end:        fixedNow,
			wantStatus: StatusActive,
			wantDays:   0,
		},
		{
			name:       "one millisecond past end is expired",
			end:        fixedNow.Add(-time.Millisecond),
			wantStatus: StatusExpired,
			wantDays:   0,
		},
		{
			name:       "thirty days out is expiring",
			end:        fixedNow.Add(30 * 24 * time.Hour),
			wantStatus: StatusExpiring,
			wantDays:   30,
		},
		{
			name:       "thirty one days out is active",
			end:        fixedNow.Add(31 * 24 * time.Hour),
			wantStatus: StatusActive,
			wantDays:   31,
		},
		{
			name:       "partial day rounds up",
			end:        fixedNow.Add(36 * time.Hour),
			wantStatus: StatusExpiring,
			wantDays:   2,
		},
		{
			name:       "long expired",
			end:        fixedNow.Add(-10*24*time.Hour - time.Hour),
			wantStatus: StatusExpired,
			wantDays:   -10,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ev := Evaluate(fixedNow, start, tc.end)
			assert.Equal(t, tc.wantStatus, ev.Status)
			assert.Equal(t, tc.wantDays, ev.DaysUntilExpiry)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()

	start := fixedNow.AddDate(0, -6, 0)
	end := fixedNow.Add(12 * 24 * time.Hour)

	first := Evaluate(fixedNow, start, end)
	second := Evaluate(fixedNow, start, end)
	require.Equal(t, first, second)

	assert.Equal(t, DisplayText(first, i18n.English), DisplayText(second, i18n.English))
	assert.Equal(t, DisplayText(first, i18n.Arabic), DisplayText(second, i18n.Arabic))
}

func TestDisplayText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ev     Evaluation
		locale i18n.Locale
		want   string
	}{
		{"expired plural", Evaluation{Status: StatusExpired, DaysUntilExpiry: -5}, i18n.English, "Expired 5 days ago"},
		{"expired singular", Evaluation{Status: StatusExpired, DaysUntilExpiry: -1}, i18n.English, "Expired 1 day ago"},
		{"expiring plural", Evaluation{Status: StatusExpiring, DaysUntilExpiry: 12}, i18n.English, "Expires in 12 days"},
		{"expiring singular", Evaluation{Status: StatusExpiring, DaysUntilExpiry: 1}, i18n.English, "Expires in 1 day"},
		{"active plural", Evaluation{Status: StatusActive, DaysUntilExpiry: 90}, i18n.English, "90 days remaining"},
		{"active singular arabic", Evaluation{Status: StatusActive, DaysUntilExpiry: 1}, i18n.Arabic, "متبقي يوم واحد"},
		{"expiring arabic", Evaluation{Status: StatusExpiring, DaysUntilExpiry: 3}, i18n.Arabic, "ينتهي خلال 3 يوم"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DisplayText(tc.ev, tc.locale))
		})
	}
}
