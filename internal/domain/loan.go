package domain

import (
	"fmt"
	"time"

	customError "github.com/segyhp/circulation-desk/pkg/errors"
	"github.com/segyhp/circulation-desk/pkg/utils"
)

type LoanState string

const (
	LoanStatePending  LoanState = "PENDING"
	LoanStateCurrent  LoanState = "CURRENT"
	LoanStateOverdue  LoanState = "OVERDUE"
	LoanStateComplete LoanState = "COMPLETE"
)

func (s LoanState) String() string {
	return string(s)
}

const dateLayout = "02/01/2006"

// Loan represents one book lent to one member. The id stays 0 until the
// loan is committed.
type Loan struct {
	id         int
	book       *Book
	borrower   *Member
	borrowDate time.Time
	dueDate    time.Time
	state      LoanState
}

// NewLoan creates a PENDING loan. Checks run in order: book, borrower,
// borrow date, due date, then date order.
func NewLoan(book *Book, borrower *Member, borrowDate, dueDate time.Time) (*Loan, error) {
	if book == nil {
		return nil, customError.WrapValidation("book cannot be nil")
	}
	if borrower == nil {
		return nil, customError.WrapValidation("borrower cannot be nil")
	}
	if borrowDate.IsZero() {
		return nil, customError.WrapValidation("borrow date cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, customError.WrapValidation("due date cannot be empty")
	}
	if dueDate.Before(borrowDate) {
		return nil, customError.WrapValidation("Due date cannot be before Borrow date")
	}

	return &Loan{
		book:       book,
		borrower:   borrower,
		borrowDate: borrowDate,
		dueDate:    dueDate,
		state:      LoanStatePending,
	}, nil
}

func (l *Loan) ID() int               { return l.id }
func (l *Loan) Book() *Book           { return l.book }
func (l *Loan) Borrower() *Member     { return l.borrower }
func (l *Loan) BorrowDate() time.Time { return l.borrowDate }
func (l *Loan) DueDate() time.Time    { return l.dueDate }
func (l *Loan) State() LoanState      { return l.state }

func (l *Loan) IsPending() bool  { return l.state == LoanStatePending }
func (l *Loan) IsCurrent() bool  { return l.state == LoanStateCurrent }
func (l *Loan) IsOverDue() bool  { return l.state == LoanStateOverdue }
func (l *Loan) IsComplete() bool { return l.state == LoanStateComplete }

// IsActive reports whether the loan is committed and not yet complete
func (l *Loan) IsActive() bool {
	return l.state == LoanStateCurrent || l.state == LoanStateOverdue
}

// Commit assigns id and lends the book to the borrower. Every precondition
// is checked before anything is mutated, so a failed commit leaves the loan,
// the book and the member untouched.
func (l *Loan) Commit(id int) error {
	if l.state != LoanStatePending {
		return customError.WrapIllegalState("commit loan", l.state)
	}
	if id <= 0 {
		return customError.WrapValidation(fmt.Sprintf("loan id must be positive, got %d", id))
	}
	if !l.book.IsAvailable() {
		return customError.WrapIllegalState("commit loan for book", l.book.State())
	}
	if !l.borrower.CanBorrow() {
		return customError.WrapIllegalState("commit loan for member", l.borrower.State())
	}

	l.id = id
	l.state = LoanStateCurrent
	if err := l.book.Borrow(l); err != nil {
		return err
	}
	return l.borrower.AddLoan(l)
}

// CheckOverDue marks the loan OVERDUE once its due date is before asOf.
// Once OVERDUE it stays OVERDUE and keeps returning true.
func (l *Loan) CheckOverDue(asOf time.Time) (bool, error) {
	switch l.state {
	case LoanStateOverdue:
		return true, nil
	case LoanStateCurrent:
		if !utils.IsDateOverdue(l.dueDate, asOf) {
			return false, nil
		}
		l.state = LoanStateOverdue
		return true, nil
	default:
		return false, customError.WrapIllegalState("check overdue", l.state)
	}
}

func (l *Loan) Complete() error {
	if !l.IsActive() {
		return customError.WrapIllegalState("complete loan", l.state)
	}

	l.state = LoanStateComplete
	return nil
}

func (l *Loan) String() string {
	return fmt.Sprintf("Loan:  %d\nAuthor:   %s\nTitle:    %s\nBorrower: %s %s\nBorrowed: %s\nDue Date: %s",
		l.id,
		l.book.Author(),
		l.book.Title(),
		l.borrower.FirstName(),
		l.borrower.LastName(),
		l.borrowDate.Format(dateLayout),
		l.dueDate.Format(dateLayout),
	)
}
