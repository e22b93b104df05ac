package borrow

import (
	"fmt"
	"log/slog"
	"time"

	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

// DefaultLoanPeriodDays is how long a book goes out for unless configured otherwise
const DefaultLoanPeriodDays = 7

// Option defines a functional option for configuring a Workflow.
type Option func(*Workflow) error

// WithClock replaces time.Now as the source of "today" for new loans.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) error {
		if now == nil {
			return customError.WrapValidation("clock cannot be nil")
		}
		w.now = now
		return nil
	}
}

// WithLoanPeriod sets the number of days between borrow date and due date.
func WithLoanPeriod(days int) Option {
	return func(w *Workflow) error {
		if days <= 0 {
			return customError.WrapValidation(fmt.Sprintf("loan period must be positive, got %d", days))
		}
		w.loanPeriod = days
		return nil
	}
}

// WithLogger sets the logger for the Workflow.
func WithLogger(log *slog.Logger) Option {
	return func(w *Workflow) error {
		if log == nil {
			return customError.WrapValidation("logger cannot be nil")
		}
		w.log = log
		return nil
	}
}
