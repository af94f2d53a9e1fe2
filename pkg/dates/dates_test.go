package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTimeConvertsBeforeTruncating(t *testing.T) {
	dhaka, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)

	// 2024-01-01 20:30 UTC is already 2024-01-02 02:30 in Dhaka (UTC+6).
	instant := time.Date(2024, 1, 1, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, New(2024, time.January, 2), FromTime(instant, dhaka))

	// Two instants on the same Dhaka day compare equal regardless of time.
	morning := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 2, 15, 59, 0, 0, time.UTC)
	assert.Equal(t, FromTime(morning, dhaka), FromTime(evening, dhaka))
}

func TestAddDaysNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		start Date
		days  int
		want  Date
	}{
		{"within month", New(2024, time.January, 1), 7, New(2024, time.January, 8)},
		{"crosses month", New(2024, time.January, 31), 30, New(2024, time.March, 1)},
		{"leap february", New(2024, time.February, 28), 1, New(2024, time.February, 29)},
		{"crosses year", New(2023, time.December, 31), 1, New(2024, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.start.AddDays(tt.days))
		})
	}
}

func TestMonthsSince(t *testing.T) {
	start := New(2024, time.March, 15)
	assert.Equal(t, 0, New(2024, time.March, 1).MonthsSince(start))
	assert.Equal(t, 1, New(2024, time.April, 1).MonthsSince(start))
	assert.Equal(t, 12, New(2025, time.March, 31).MonthsSince(start))
	assert.Equal(t, -2, New(2024, time.January, 31).MonthsSince(start))
}

func TestOrdering(t *testing.T) {
	a := New(2024, time.January, 31)
	b := New(2024, time.February, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(New(2024, time.January, 31)))
}

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.March, 1), d)
	assert.Equal(t, "2024-03-01", d.String())

	_, err = Parse("01/03/2024")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2024, time.March, 1)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01"`, string(raw))

	var decoded Date
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, d, decoded)

	var zero Date
	require.NoError(t, json.Unmarshal([]byte("null"), &zero))
	assert.True(t, zero.IsZero())
}

func TestScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, New(2024, time.March, 1), d)

	require.NoError(t, d.Scan("2024-04-02"))
	assert.Equal(t, New(2024, time.April, 2), d)

	assert.Error(t, d.Scan(42))
}
