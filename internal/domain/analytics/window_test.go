package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{
			name:      "mid year",
			now:       time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december",
			now:       time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "non utc clock",
			now:       time.Date(2024, time.February, 1, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
			wantStart: time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWindow(tt.now)
			require.Equal(t, tt.wantStart, w.Start)
			require.True(t, w.End.Equal(tt.now))
		})
	}
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(&start, nil, now)
	require.NoError(t, err)
	require.Equal(t, start, w.Start)
	require.Equal(t, now, w.End)

	w, err = ResolveWindow(nil, &end, now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), w.Start)
	require.Equal(t, end, w.End)

	_, err = ResolveWindow(&end, &start, now)
	require.ErrorIs(t, err, ErrInvalidWindow)

	same, err := ResolveWindow(&start, &start, now)
	require.NoError(t, err)
	require.True(t, same.Contains(start))
}

func TestWindowPrevious(t *testing.T) {
	w := Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}

	prev := w.Previous()
	require.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	require.True(t, prev.End.Before(w.Start))
	require.Equal(t, w.Duration(), prev.Duration())
	require.False(t, prev.Contains(w.Start))
}

func TestWindowDailyAndTrailingYear(t *testing.T) {
	end := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	w := Window{Start: end.AddDate(0, 0, -1), End: end}

	require.Equal(t, time.Date(2024, time.February, 9, 0, 0, 0, 0, time.UTC), w.Daily().Start)
	require.Equal(t, end, w.Daily().End)
	require.Equal(t, time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC), w.TrailingYear().Start)
}
