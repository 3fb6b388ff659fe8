package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDates_ParseDay(t *testing.T) {
	t.Parallel()

	t.Run("valid day", func(t *testing.T) {
		t.Parallel()

		day, err := ParseDay("2024-02-29")
		require.NoError(t, err)

		assert.Equal(
			t,
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			day,
		)
	})

	t.Run("malformed day", func(t *testing.T) {
		t.Parallel()

		for _, value := range []string{
			"",
			"02-01-2024",
			"2024/01/02",
			"2024-13-01",
			"not-a-date",
		} {
			_, err := ParseDay(value)

			assert.Error(t, err)
		}
	})
}

func TestDates_DateRange(t *testing.T) {
	t.Parallel()

	t.Run("range ends today", func(t *testing.T) {
		t.Parallel()

		// For any start S <= today, the range holds exactly
		// (today - S).days + 1 consecutive days
		for _, back := range []int{0, 1, 7, 30, 365} {
			var (
				today = Day(time.Now())
				start = today.AddDate(0, 0, -back)

				days = DateRange(start, time.Now())
			)

			require.Len(t, days, back+1)

			assert.True(t, days[0].Equal(start))
			assert.True(t, days[len(days)-1].Equal(today))

			// Ascending, no gaps, no duplicates
			for i := 1; i < len(days); i++ {
				assert.True(t, days[i].Equal(days[i-1].AddDate(0, 0, 1)))
			}
		}
	})

	t.Run("start after end", func(t *testing.T) {
		t.Parallel()

		tomorrow := Day(time.Now()).AddDate(0, 0, 1)

		assert.Empty(t, DateRange(tomorrow, time.Now()))
	})

	t.Run("single day range", func(t *testing.T) {
		t.Parallel()

		day := Day(time.Now())

		days := DateRange(day, day)

		require.Len(t, days, 1)
		assert.True(t, days[0].Equal(day))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		t.Parallel()

		var (
			from = time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
			to   = time.Date(2024, time.January, 3, 0, 1, 0, 0, time.UTC)
		)

		days := DateRange(from, to)

		require.Len(t, days, 3)

		for _, day := range days {
			assert.Equal(t, day, Day(day))
		}
	})
}
