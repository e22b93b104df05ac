package repository

import (
	"time"

	"github.com/segyhp/circulation-desk/internal/domain"
)

// BookRepository defines the interface for book catalogue operations
type BookRepository interface {
	// AddBook creates a new book with the next free id
	AddBook(author, title, callNumber string) (*domain.Book, error)

	// GetBookByID returns nil when no book has that id
	GetBookByID(id int) *domain.Book

	// ListBooks returns every book ordered by id
	ListBooks() []*domain.Book

	// FindBooksByAuthor returns books whose author matches exactly
	FindBooksByAuthor(author string) []*domain.Book

	// FindBooksByTitle returns books whose title matches exactly
	FindBooksByTitle(title string) []*domain.Book

	// FindBooksByAuthorTitle returns books matching both author and title
	FindBooksByAuthorTitle(author, title string) []*domain.Book
}

// LoanRepository defines the interface for loan operations
type LoanRepository interface {
	// CreateLoan builds a PENDING loan without storing it
	CreateLoan(borrower *domain.Member, book *domain.Book, borrowDate, dueDate time.Time) (*domain.Loan, error)

	// CommitLoan assigns the next id, stores the loan and commits it
	CommitLoan(loan *domain.Loan) error

	// GetLoanByID returns nil when no committed loan has that id
	GetLoanByID(id int) *domain.Loan

	// ListLoans returns every committed loan ordered by id
	ListLoans() []*domain.Loan

	// FindLoansByBorrower returns committed loans held by borrower
	FindLoansByBorrower(borrower *domain.Member) []*domain.Loan

	// FindLoansByBookTitle returns committed loans for books with that title
	FindLoansByBookTitle(title string) []*domain.Loan

	// FindLoansByBook returns the loan history of one book
	FindLoansByBook(book *domain.Book) []*domain.Loan

	// UpdateOverDueStatus re-evaluates every active loan against asOf and
	// returns how many are overdue afterwards
	UpdateOverDueStatus(asOf time.Time) (int, error)

	// FindOverDueLoans returns loans currently in the OVERDUE state
	FindOverDueLoans() []*domain.Loan
}

// MemberRepository defines the interface for member operations
type MemberRepository interface {
	// AddMember creates a new member with the next free id
	AddMember(firstName, lastName, contactPhone, emailAddress string) (*domain.Member, error)

	// GetMemberByID returns nil when no member has that id
	GetMemberByID(id int) *domain.Member

	// ListMembers returns every member ordered by id
	ListMembers() []*domain.Member

	FindMembersByLastName(lastName string) []*domain.Member
	FindMembersByEmailAddress(emailAddress string) []*domain.Member
	FindMembersByNames(firstName, lastName string) []*domain.Member
}
