package repository

import (
	"sync"
	"time"

	"github.com/segyhp/circulation-desk/internal/domain"
	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

type loanRepository struct {
	mu    sync.RWMutex
	loans []*domain.Loan
}

func NewLoanRepository() LoanRepository {
	return &loanRepository{loans: make([]*domain.Loan, 0)}
}

func (r *loanRepository) CreateLoan(borrower *domain.Member, book *domain.Book, borrowDate, dueDate time.Time) (*domain.Loan, error) {
	return domain.NewLoan(book, borrower, borrowDate, dueDate)
}

func (r *loanRepository) CommitLoan(loan *domain.Loan) error {
	if loan == nil {
		return customError.WrapValidation("loan cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := loan.Commit(r.nextID()); err != nil {
		return err
	}

	r.loans = append(r.loans, loan)
	return nil
}

func (r *loanRepository) GetLoanByID(id int) *domain.Loan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, loan := range r.loans {
		if loan.ID() == id {
			return loan
		}
	}
	return nil
}

func (r *loanRepository) ListLoans() []*domain.Loan {
	return r.filter(func(*domain.Loan) bool { return true })
}

func (r *loanRepository) FindLoansByBorrower(borrower *domain.Member) []*domain.Loan {
	return r.filter(func(l *domain.Loan) bool { return l.Borrower() == borrower })
}

func (r *loanRepository) FindLoansByBookTitle(title string) []*domain.Loan {
	return r.filter(func(l *domain.Loan) bool { return l.Book().Title() == title })
}

func (r *loanRepository) FindLoansByBook(book *domain.Book) []*domain.Loan {
	return r.filter(func(l *domain.Loan) bool { return l.Book() == book })
}

func (r *loanRepository) UpdateOverDueStatus(asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, loan := range r.loans {
		if !loan.IsActive() {
			continue
		}
		overdue, err := loan.CheckOverDue(asOf)
		if err != nil {
			return count, err
		}
		if overdue {
			count++
		}
	}
	return count, nil
}

func (r *loanRepository) FindOverDueLoans() []*domain.Loan {
	return r.filter(func(l *domain.Loan) bool { return l.IsOverDue() })
}

func (r *loanRepository) filter(match func(*domain.Loan) bool) []*domain.Loan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loans := make([]*domain.Loan, 0)
	for _, loan := range r.loans {
		if match(loan) {
			loans = append(loans, loan)
		}
	}
	return loans
}

func (r *loanRepository) nextID() int {
	maxID := 0
	for _, loan := range r.loans {
		if loan.ID() > maxID {
			maxID = loan.ID()
		}
	}
	return maxID + 1
}
