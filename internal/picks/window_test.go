package picks

import (
	"testing"
	"time"

	"quantumbetlab/web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := models.ParseTimestamp(v)
	require.NoError(t, err)
	return ts
}

func TestDateWindow_CalendarBoundaries(t *testing.T) {
	now := mustParse(t, "2024-06-01T00:00:00+00:00")
	lateToday := mustParse(t, "2024-06-01T23:59:00+00:00")
	earlyTomorrow := mustParse(t, "2024-06-02T00:01:00+00:00")
	dayAfter := mustParse(t, "2024-06-03T00:00:00+00:00")
	yesterday := mustParse(t, "2024-05-31T23:59:59+00:00")

	assert.True(t, Today.Contains(lateToday, now, time.UTC))
	assert.False(t, Today.Contains(earlyTomorrow, now, time.UTC))
	assert.False(t, Today.Contains(yesterday, now, time.UTC))

	assert.True(t, TodayOrTomorrow.Contains(lateToday, now, time.UTC))
	assert.True(t, TodayOrTomorrow.Contains(earlyTomorrow, now, time.UTC))
	assert.False(t, TodayOrTomorrow.Contains(dayAfter, now, time.UTC))
	assert.False(t, TodayOrTomorrow.Contains(yesterday, now, time.UTC))
}

func TestDateWindow_ConvertsOffsetsToReferenceZone(t *testing.T) {
	now := mustParse(t, "2024-06-01T12:00:00Z")
	// 20:30 in New York on June 1st is 00:30 UTC on June 2nd
	start := mustParse(t, "2024-06-01T20:30:00-04:00")

	assert.False(t, Today.Contains(start, now, time.UTC))
	assert.True(t, TodayOrTomorrow.Contains(start, now, time.UTC))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.True(t, Today.Contains(start, now, ny))
}

func TestDateWindow_Filter(t *testing.T) {
	now := mustParse(t, "2024-06-01T00:00:00+00:00")
	matches := []models.Match{
		{EventID: "a", StartTime: "2024-06-01T23:59:00+00:00"},
		{EventID: "b", StartTime: "2024-06-02T00:01:00+00:00"},
		{EventID: "c", StartTime: "2024-06-01T10:00:00Z"},
	}

	today, err := Today.Filter(matches, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, models.EventID("a"), today[0].EventID)
	assert.Equal(t, models.EventID("c"), today[1].EventID)

	both, err := TodayOrTomorrow.Filter(matches, now, time.UTC)
	require.NoError(t, err)
	assert.Len(t, both, 3)
}

func TestDateWindow_FilterMissingStartTime(t *testing.T) {
	now := mustParse(t, "2024-06-01T00:00:00+00:00")
	matches := []models.Match{
		{EventID: "a", StartTime: "2024-06-01T10:00:00Z"},
		{EventID: "b"},
	}

	_, err := Today.Filter(matches, now, time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_time")
}

func TestParseDateWindow(t *testing.T) {
	w, err := ParseDateWindow("today_tomorrow")
	require.NoError(t, err)
	assert.Equal(t, TodayOrTomorrow, w)
	assert.Equal(t, "today_tomorrow", w.String())

	w, err = ParseDateWindow("today")
	require.NoError(t, err)
	assert.Equal(t, Today, w)

	_, err = ParseDateWindow("weekend")
	assert.Error(t, err)
}
