package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/circulation-desk/internal/config"
	"github.com/segyhp/circulation-desk/internal/domain"
	"github.com/segyhp/circulation-desk/internal/logger"
	"github.com/segyhp/circulation-desk/internal/repository"
	customError "github.com/segyhp/circulation-desk/pkg/errors"
	"github.com/segyhp/circulation-desk/pkg/utils"
)

// CirculationService handles everything after a loan is committed: returns,
// losses, repairs, fines and the overdue sweep.
type CirculationService struct {
	BookRepo   repository.BookRepository
	LoanRepo   repository.LoanRepository
	MemberRepo repository.MemberRepository
	config     *config.Config
	now        func() time.Time
	log        *slog.Logger
}

// ReturnReceipt summarises what a return cost the borrower
type ReturnReceipt struct {
	Loan        *domain.Loan
	DaysOverdue int
	OverdueFine decimal.Decimal
	DamageFee   decimal.Decimal
}

// Total is the fine added to the borrower by the return
func (r *ReturnReceipt) Total() decimal.Decimal {
	return r.OverdueFine.Add(r.DamageFee)
}

func NewCirculationService(
	bookRepo repository.BookRepository,
	loanRepo repository.LoanRepository,
	memberRepo repository.MemberRepository,
	config *config.Config,
) *CirculationService {
	return &CirculationService{
		BookRepo:   bookRepo,
		LoanRepo:   loanRepo,
		MemberRepo: memberRepo,
		config:     config,
		now:        time.Now,
		log:        logger.WithService("circulation"),
	}
}

// ReturnBook closes the active loan of an ON_LOAN book and charges the
// borrower for lateness and damage.
func (s *CirculationService) ReturnBook(bookID int, damaged bool) (*ReturnReceipt, error) {
	book, loan, err := s.activeLoan(bookID, "return book")
	if err != nil {
		return nil, err
	}
	borrower := loan.Borrower()

	returnDate := utils.StartOfDay(s.now())
	receipt := &ReturnReceipt{
		Loan:        loan,
		DaysOverdue: utils.DaysOverdue(loan.DueDate(), returnDate),
		OverdueFine: utils.CalculateOverdueFine(loan.DueDate(), returnDate, s.config.GetFinePerDay()),
		DamageFee:   decimal.Zero,
	}
	if damaged {
		receipt.DamageFee = s.config.GetDamageFee()
	}

	if err := book.ReturnBook(damaged); err != nil {
		return nil, err
	}
	if err := loan.Complete(); err != nil {
		return nil, err
	}
	if err := borrower.RemoveLoan(loan); err != nil {
		return nil, err
	}
	if err := borrower.AddFine(receipt.Total()); err != nil {
		return nil, err
	}

	s.log.Info("book returned",
		"book_id", book.ID(),
		"loan_id", loan.ID(),
		"member_id", borrower.ID(),
		"days_overdue", receipt.DaysOverdue,
		"fine", receipt.Total().StringFixed(2),
		"damaged", damaged)

	return receipt, nil
}

// DeclareLost writes off an ON_LOAN book and charges the borrower the lost
// book fee. The fee charged is returned.
func (s *CirculationService) DeclareLost(bookID int) (decimal.Decimal, error) {
	book, loan, err := s.activeLoan(bookID, "declare book lost")
	if err != nil {
		return decimal.Zero, err
	}
	borrower := loan.Borrower()
	fee := s.config.GetLostBookFee()

	if err := book.Lose(); err != nil {
		return decimal.Zero, err
	}
	if err := loan.Complete(); err != nil {
		return decimal.Zero, err
	}
	if err := borrower.RemoveLoan(loan); err != nil {
		return decimal.Zero, err
	}
	if err := borrower.AddFine(fee); err != nil {
		return decimal.Zero, err
	}

	s.log.Warn("book declared lost",
		"book_id", book.ID(),
		"loan_id", loan.ID(),
		"member_id", borrower.ID(),
		"fee", fee.StringFixed(2))

	return fee, nil
}

func (s *CirculationService) RepairBook(bookID int) error {
	book := s.BookRepo.GetBookByID(bookID)
	if book == nil {
		return customError.WrapBookNotFound(bookID)
	}
	return book.Repair()
}

func (s *CirculationService) DisposeBook(bookID int) error {
	book := s.BookRepo.GetBookByID(bookID)
	if book == nil {
		return customError.WrapBookNotFound(bookID)
	}
	if err := book.Dispose(); err != nil {
		return err
	}

	s.log.Info("book disposed", "book_id", bookID)
	return nil
}

// PayFine records a payment and returns what the member still owes
func (s *CirculationService) PayFine(memberID int, amount decimal.Decimal) (decimal.Decimal, error) {
	member := s.MemberRepo.GetMemberByID(memberID)
	if member == nil {
		return decimal.Zero, customError.WrapMemberNotFound(memberID)
	}
	if err := member.PayFine(amount); err != nil {
		return decimal.Zero, err
	}

	s.log.Info("fine paid",
		"member_id", memberID,
		"amount", amount.StringFixed(2),
		"outstanding", member.FineAmount().StringFixed(2))

	return member.FineAmount(), nil
}

// SweepOverdue marks every loan due before asOf as OVERDUE and returns the
// overdue loans.
func (s *CirculationService) SweepOverdue(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count, err := s.LoanRepo.UpdateOverDueStatus(asOf)
	if err != nil {
		return nil, err
	}

	s.log.Info("overdue sweep finished", "as_of", asOf.Format(time.DateOnly), "overdue", count)
	return s.LoanRepo.FindOverDueLoans(), nil
}

func (s *CirculationService) activeLoan(bookID int, operation string) (*domain.Book, *domain.Loan, error) {
	book := s.BookRepo.GetBookByID(bookID)
	if book == nil {
		return nil, nil, customError.WrapBookNotFound(bookID)
	}

	loan := book.ActiveLoan()
	if loan == nil {
		return nil, nil, customError.WrapIllegalState(operation, book.State())
	}
	return book, loan, nil
}
