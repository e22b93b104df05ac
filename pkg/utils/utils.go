package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// CalculateDueDate returns the date a loan started on borrowDate falls due
func CalculateDueDate(borrowDate time.Time, loanPeriodDays int) time.Time {
	return borrowDate.AddDate(0, 0, loanPeriodDays)
}

// DaysOverdue counts whole calendar days between dueDate and returnDate, read
// in dueDate's location. Returns 0 when the item came back on or before the
// due date.
func DaysOverdue(dueDate time.Time, returnDate time.Time) int {
	due := calendarDay(dueDate)
	returned := calendarDay(returnDate.In(dueDate.Location()))
	if !returned.After(due) {
		return 0
	}

	return int(returned.Sub(due) / (24 * time.Hour))
}

// calendarDay maps t's wall-clock date onto UTC midnight so that day
// arithmetic is not skewed by DST transitions in t's location
func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CalculateOverdueFine charges finePerDay for every day past dueDate
func CalculateOverdueFine(dueDate time.Time, returnDate time.Time, finePerDay decimal.Decimal) decimal.Decimal {
	days := DaysOverdue(dueDate, returnDate)
	return finePerDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// IsDateOverdue reports whether dueDate is strictly before asOf
func IsDateOverdue(dueDate time.Time, asOf time.Time) bool {
	return dueDate.Before(asOf)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
