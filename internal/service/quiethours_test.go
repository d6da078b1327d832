package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"21:00", "21:00"},
		{"9:5", "09:05"},
		{"09:30 PM", "21:30"},
		{"9:30 pm", "21:30"},
		{"12:15 AM", "00:15"},
		{"12:15 PM", "12:15"},
		{"8.00", "00:00"},
		{"", "00:00"},
		{"garbage", "00:00"},
		{"21:00 WIB", "21:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTime(tt.input))
		})
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	for _, input := range []string{"21:00", "09:30 PM", "", "7:45"} {
		once := NormalizeTime(input)
		assert.Equal(t, once, NormalizeTime(once))
	}
}

func TestIsWithinQuietHours(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
	}

	t.Run("window crossing midnight", func(t *testing.T) {
		start, end := "21:00", "08:00"

		assert.True(t, IsWithinQuietHours(start, end, at(21, 0)))
		assert.True(t, IsWithinQuietHours(start, end, at(22, 30)))
		assert.True(t, IsWithinQuietHours(start, end, at(0, 0)))
		assert.True(t, IsWithinQuietHours(start, end, at(8, 0)))

		assert.False(t, IsWithinQuietHours(start, end, at(8, 1)))
		assert.False(t, IsWithinQuietHours(start, end, at(9, 0)))
		assert.False(t, IsWithinQuietHours(start, end, at(20, 59)))
	})

	t.Run("same day window", func(t *testing.T) {
		start, end := "02:00", "06:00"

		assert.True(t, IsWithinQuietHours(start, end, at(2, 0)))
		assert.True(t, IsWithinQuietHours(start, end, at(4, 30)))
		assert.True(t, IsWithinQuietHours(start, end, at(6, 0)))

		assert.False(t, IsWithinQuietHours(start, end, at(1, 59)))
		assert.False(t, IsWithinQuietHours(start, end, at(6, 1)))
	})

	t.Run("equal bounds only match that minute", func(t *testing.T) {
		assert.True(t, IsWithinQuietHours("13:00", "13:00", at(13, 0)))
		assert.False(t, IsWithinQuietHours("13:00", "13:00", at(13, 1)))
	})

	t.Run("missing bound disables the window", func(t *testing.T) {
		assert.False(t, IsWithinQuietHours("", "08:00", at(23, 0)))
		assert.False(t, IsWithinQuietHours("21:00", "", at(23, 0)))
	})

	t.Run("12 hour bounds are normalized", func(t *testing.T) {
		assert.True(t, IsWithinQuietHours("09:00 PM", "08:00 AM", at(23, 0)))
		assert.False(t, IsWithinQuietHours("09:00 PM", "08:00 AM", at(12, 0)))
	})
}
