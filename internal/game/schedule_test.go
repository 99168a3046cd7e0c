package game

import (
	"testing"
	"time"
)

func TestNextDrawWeekly(t *testing.T) {
	from := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	got := NextDraw(CategoryWeekly, from)
	want := time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Weekly next draw: got %v want %v", got, want)
	}
}

func TestNextDrawMonthly(t *testing.T) {
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	got := NextDraw(CategoryMonthly, from)
	want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Monthly next draw: got %v want %v", got, want)
	}
}

func TestNextDrawMonthlyYearRollover(t *testing.T) {
	from := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	got := NextDraw(CategoryMonthly, from)
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 15 {
		t.Errorf("December rollover: got %v", got)
	}
}
