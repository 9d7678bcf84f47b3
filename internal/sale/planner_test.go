package sale

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_Plan(t *testing.T) {
	p := NewPlanner(0, "", rand.New(rand.NewSource(7)))
	now := time.Date(2025, time.March, 4, 2, 17, 0, 0, time.UTC)

	plan := p.Plan(now, TriggerManual)

	_, err := uuid.Parse(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, plan.Percentage)
	assert.Equal(t, "2025-03-04", plan.StartDate)
	assert.Equal(t, "2025-03-04", plan.EndDate)
	assert.Equal(t, "03/04/2025", plan.StartDateDisplay)
	assert.Equal(t, "03/04/2025", plan.EndDateDisplay)
	assert.Equal(t, DefaultCreateURL, plan.CreateURL)
	assert.Equal(t, TriggerManual, plan.Trigger)

	require.True(t, strings.HasPrefix(plan.CouponCode, "MAR4"), plan.CouponCode)
	assert.Contains(t, Nouns, strings.TrimPrefix(plan.CouponCode, "MAR4"))
}

func TestPlanner_CustomSettings(t *testing.T) {
	p := NewPlanner(30, "https://example.test/create", nil)
	plan := p.Plan(time.Date(2025, time.December, 25, 3, 0, 0, 0, time.UTC), TriggerSchedule)

	assert.Equal(t, 30, plan.Percentage)
	assert.Equal(t, "https://example.test/create", plan.CreateURL)
	assert.True(t, strings.HasPrefix(plan.CouponCode, "DEC25"))
}

func TestCouponCode(t *testing.T) {
	tests := []struct {
		day  time.Time
		noun string
		want string
	}{
		{day: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), noun: "TABLE", want: "MAR4TABLE"},
		{day: time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), noun: "CANDLE", want: "JAN31CANDLE"},
		{day: time.Date(2025, time.September, 9, 0, 0, 0, 0, time.UTC), noun: "CUP", want: "SEP9CUP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CouponCode(tt.day, tt.noun))
	}
}

func TestNextRunTime(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name        string
		now         time.Time
		wantSameDay bool
	}{
		{name: "just after midnight runs today", now: time.Date(2025, 6, 10, 0, 30, 0, 0, loc), wantSameDay: true},
		{name: "afternoon runs tomorrow", now: time.Date(2025, 6, 10, 14, 0, 0, 0, loc), wantSameDay: false},
		{name: "exactly five runs tomorrow", now: time.Date(2025, 6, 10, 5, 0, 0, 0, loc), wantSameDay: false},
		{name: "end of month rolls over", now: time.Date(2025, 6, 30, 23, 59, 0, 0, loc), wantSameDay: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 100; seed++ {
				next := NextRunTime(tt.now, rand.New(rand.NewSource(seed)))

				assert.True(t, next.After(tt.now))
				assert.GreaterOrEqual(t, next.Hour(), 1)
				assert.LessOrEqual(t, next.Hour(), 4)
				assert.Equal(t, 0, next.Second())

				wantDay := tt.now
				if !tt.wantSameDay {
					wantDay = tt.now.AddDate(0, 0, 1)
				}
				assert.Equal(t, wantDay.Format("2006-01-02"), next.Format("2006-01-02"))
			}
		})
	}
}

func TestNextRunTime_InsideWindowNeverInThePast(t *testing.T) {
	now := time.Date(2025, 6, 10, 3, 30, 0, 0, time.UTC)
	sawToday, sawTomorrow := false, false

	for seed := int64(0); seed < 200; seed++ {
		next := NextRunTime(now, rand.New(rand.NewSource(seed)))
		require.True(t, next.After(now), "seed %d produced %s", seed, next)
		assert.Less(t, next.Sub(now), 25*time.Hour)

		switch next.Day() {
		case 10:
			sawToday = true
		case 11:
			sawTomorrow = true
		}
	}
	assert.True(t, sawToday)
	assert.True(t, sawTomorrow)
}
