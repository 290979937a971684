package timesource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("13:07")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(13*60+7), c)
	assert.Equal(t, "13:07", c.String())

	for _, bad := range []string{"24:00", "7", "aa:bb", "12:60"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestWindow(t *testing.T) {
	night := Window{Off: 23 * 60, On: 6 * 60}
	assert.True(t, night.Contains(23*60))
	assert.True(t, night.Contains(2*60))
	assert.False(t, night.Contains(6*60))
	assert.False(t, night.Contains(12*60))

	day := Window{Off: 9 * 60, On: 17 * 60}
	assert.True(t, day.Contains(9*60))
	assert.False(t, day.Contains(17*60))

	assert.False(t, Window{}.Contains(0))
}

func TestSystemNow(t *testing.T) {
	at := time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC)
	s, err := NewSystem("UTC",
		WithClock(func() time.Time { return at }),
		WithNight(Window{Off: 23 * 60, On: 6 * 60}))
	require.NoError(t, err)

	power, h, m := s.Now()
	assert.True(t, power)
	assert.Equal(t, 22, h)
	assert.Equal(t, 30, m)

	at = at.Add(45 * time.Minute)
	power, h, m = s.Now()
	assert.False(t, power)
	assert.Equal(t, 23, h)
	assert.Equal(t, 15, m)
}

func TestSystemLocation(t *testing.T) {
	_, err := NewSystem("Not/AZone")
	assert.Error(t, err)

	s, err := NewSystem("Local")
	require.NoError(t, err)
	power, _, _ := s.Now()
	assert.True(t, power)

	var src Source = Fixed{Power: true, Hour: 1, Minute: 2}
	p, h, m := src.Now()
	assert.Equal(t, []any{true, 1, 2}, []any{p, h, m})
}
