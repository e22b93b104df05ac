package domain

import (
	"fmt"
	"strings"

	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

type BookState string

const (
	BookStateAvailable BookState = "AVAILABLE"
	BookStateOnLoan    BookState = "ON_LOAN"
	BookStateDamaged   BookState = "DAMAGED"
	BookStateLost      BookState = "LOST"
	BookStateDisposed  BookState = "DISPOSED"
)

func (s BookState) String() string {
	return string(s)
}

// Book is a physical copy on the shelves. It refers to its current loan
// without owning it; the loan repository owns committed loans.
type Book struct {
	id         int
	author     string
	title      string
	callNumber string
	state      BookState
	activeLoan *Loan
}

// NewBook creates an AVAILABLE book
func NewBook(id int, author, title, callNumber string) (*Book, error) {
	if id <= 0 {
		return nil, customError.WrapValidation(fmt.Sprintf("book id must be positive, got %d", id))
	}
	if strings.TrimSpace(author) == "" {
		return nil, customError.WrapValidation("author cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return nil, customError.WrapValidation("title cannot be empty")
	}
	if strings.TrimSpace(callNumber) == "" {
		return nil, customError.WrapValidation("call number cannot be empty")
	}

	return &Book{
		id:         id,
		author:     author,
		title:      title,
		callNumber: callNumber,
		state:      BookStateAvailable,
	}, nil
}

func (b *Book) ID() int            { return b.id }
func (b *Book) Author() string     { return b.author }
func (b *Book) Title() string      { return b.title }
func (b *Book) CallNumber() string { return b.callNumber }
func (b *Book) State() BookState   { return b.state }

// ActiveLoan is nil unless the book is ON_LOAN
func (b *Book) ActiveLoan() *Loan {
	if b.state != BookStateOnLoan {
		return nil
	}
	return b.activeLoan
}

func (b *Book) IsAvailable() bool { return b.state == BookStateAvailable }
func (b *Book) IsOnLoan() bool    { return b.state == BookStateOnLoan }
func (b *Book) IsDamaged() bool   { return b.state == BookStateDamaged }
func (b *Book) IsLost() bool      { return b.state == BookStateLost }
func (b *Book) IsDisposed() bool  { return b.state == BookStateDisposed }

// Borrow attaches loan to an AVAILABLE book
func (b *Book) Borrow(loan *Loan) error {
	if loan == nil {
		return customError.WrapValidation("loan cannot be nil")
	}
	if b.state != BookStateAvailable {
		return customError.WrapIllegalState("borrow book", b.state)
	}

	b.activeLoan = loan
	b.state = BookStateOnLoan
	return nil
}

// ReturnBook detaches the active loan and shelves the book, or sets it aside
// for repair when damaged.
func (b *Book) ReturnBook(damaged bool) error {
	if b.state != BookStateOnLoan {
		return customError.WrapIllegalState("return book", b.state)
	}

	b.activeLoan = nil
	if damaged {
		b.state = BookStateDamaged
	} else {
		b.state = BookStateAvailable
	}
	return nil
}

func (b *Book) Lose() error {
	if b.state != BookStateOnLoan {
		return customError.WrapIllegalState("lose book", b.state)
	}

	b.activeLoan = nil
	b.state = BookStateLost
	return nil
}

func (b *Book) Repair() error {
	if b.state != BookStateDamaged {
		return customError.WrapIllegalState("repair book", b.state)
	}

	b.state = BookStateAvailable
	return nil
}

func (b *Book) Dispose() error {
	switch b.state {
	case BookStateAvailable, BookStateDamaged, BookStateLost:
		b.state = BookStateDisposed
		return nil
	default:
		return customError.WrapIllegalState("dispose book", b.state)
	}
}

func (b *Book) String() string {
	return fmt.Sprintf("Book: %d\n  Title:  %s\n  Author: %s\n  CallNo: %s\n  State:  %s",
		b.id, b.title, b.author, b.callNumber, b.state)
}
