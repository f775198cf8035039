package domain

import (
	"math"
	"time"
)

// ProRata computes the first-period amount for a plan: the monthly price
// prorated by the days remaining in today's month, today included. On the
// first day of the month this equals the full monthly price; on the last
// day it equals a single day's rate.
//
// The result is intentionally not rounded here. Rounding happens once, at
// the point of persistence, so intermediate callers never compound
// rounding error.
func ProRata(monthlyPrice float64, today time.Time) float64 {
	days := DaysInMonth(today)
	remaining := days - today.Day() + 1

	dailyRate := monthlyPrice / float64(days)
	return dailyRate * float64(remaining)
}

// DaysInMonth returns the number of days in today's month.
func DaysInMonth(today time.Time) int {
	return EndOfMonth(today).Day()
}

// EndOfMonth returns the last day of today's month, at midnight UTC.
// Used as the due date of the pro-rata title.
func EndOfMonth(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// RoundMoney rounds a monetary value to two decimal places. Applied only
// when a value is persisted or rendered.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
