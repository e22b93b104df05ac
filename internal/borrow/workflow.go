package borrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/segyhp/circulation-desk/internal/domain"
	"github.com/segyhp/circulation-desk/internal/logger"
	"github.com/segyhp/circulation-desk/internal/repository"
	customError "github.com/segyhp/circulation-desk/pkg/errors"
	"github.com/segyhp/circulation-desk/pkg/utils"
)

// Notices shown on the desk display
const (
	MsgBorrowerNotFound    = "Borrower was not found in database"
	MsgBookNotFound        = "Book was not found in database"
	MsgBookNotAvailable    = "Book is not available"
	MsgBookAlreadyScanned  = "Book has already been scanned"
	MsgBorrowingRestricted = "Member cannot borrow at this time"
)

// Workflow drives one borrowing transaction at the desk: identify the member,
// collect scanned books as pending loans, then commit or discard them.
// Events are expected one at a time; Workflow does no locking of its own.
type Workflow struct {
	display Display
	reader  CardReader
	scanner Scanner
	printer Printer
	books   repository.BookRepository
	loans   repository.LoanRepository
	members repository.MemberRepository

	machine      *fsm.FSM
	sessionID    uuid.UUID
	borrower     *domain.Member
	scanCount    int
	pendingBooks []*domain.Book
	pendingLoans []*domain.Loan

	now        func() time.Time
	loanPeriod int
	log        *slog.Logger
}

// NewWorkflow wires a session to its collaborators and registers it as the
// listener of the card reader and the scanner.
func NewWorkflow(
	display Display,
	reader CardReader,
	scanner Scanner,
	printer Printer,
	books repository.BookRepository,
	loans repository.LoanRepository,
	members repository.MemberRepository,
	opts ...Option,
) (*Workflow, error) {
	collaborators := []struct {
		name    string
		missing bool
	}{
		{"display", display == nil},
		{"card reader", reader == nil},
		{"scanner", scanner == nil},
		{"printer", printer == nil},
		{"book repository", books == nil},
		{"loan repository", loans == nil},
		{"member repository", members == nil},
	}
	for _, c := range collaborators {
		if c.missing {
			return nil, customError.WrapValidation(c.name + " cannot be nil")
		}
	}

	w := &Workflow{
		display:      display,
		reader:       reader,
		scanner:      scanner,
		printer:      printer,
		books:        books,
		loans:        loans,
		members:      members,
		sessionID:    uuid.New(),
		pendingBooks: make([]*domain.Book, 0, domain.LoanLimit),
		pendingLoans: make([]*domain.Loan, 0, domain.LoanLimit),
		now:          time.Now,
		loanPeriod:   DefaultLoanPeriodDays,
		log:          logger.WithService("borrow"),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	w.machine = newSessionMachine(w.log)
	reader.AddListener(w)
	scanner.AddListener(w)

	return w, nil
}

func (w *Workflow) State() SessionState {
	return SessionState(w.machine.Current())
}

func (w *Workflow) SessionID() uuid.UUID     { return w.sessionID }
func (w *Workflow) Borrower() *domain.Member { return w.borrower }
func (w *Workflow) ScanCount() int           { return w.scanCount }

func (w *Workflow) PendingBooks() []*domain.Book {
	books := make([]*domain.Book, len(w.pendingBooks))
	copy(books, w.pendingBooks)
	return books
}

func (w *Workflow) PendingLoans() []*domain.Loan {
	loans := make([]*domain.Loan, len(w.pendingLoans))
	copy(loans, w.pendingLoans)
	return loans
}

// Initialise starts a fresh session from any state and waits for a card swipe.
func (w *Workflow) Initialise() error {
	w.sessionID = uuid.New()
	w.borrower = nil
	w.scanCount = 0
	w.clearPending()

	w.reader.SetEnabled(true)
	w.scanner.SetEnabled(false)

	return w.fire(eventInitialise)
}

// CardSwiped identifies the borrower and decides whether they may borrow.
// An unknown member is reported on the display and the session keeps waiting.
func (w *Workflow) CardSwiped(memberID int) error {
	if err := w.requireState("swipe card", StateInitialized); err != nil {
		return err
	}

	member := w.members.GetMemberByID(memberID)
	if member == nil {
		w.log.Info("card swiped for unknown member", "session_id", w.sessionID, "member_id", memberID)
		w.display.DisplayErrorMessage(MsgBorrowerNotFound)
		return nil
	}
	w.borrower = member

	overDue := member.HasOverDueLoans()
	atLoanLimit := member.HasReachedLoanLimit()
	overFineLimit := member.HasReachedFineLimit()

	if overDue {
		w.display.DisplayOverDueMessage()
	}
	limits := member.Limits()
	if atLoanLimit {
		w.display.DisplayAtLoanLimitMessage(limits.Loans)
	}
	if overFineLimit {
		w.display.DisplayOverFineLimitMessage(member.FineAmount(), limits.Fine)
	} else if member.HasOutstandingFine() {
		w.display.DisplayOutstandingFineMessage(member.FineAmount())
	}

	if overDue || atLoanLimit || overFineLimit {
		w.log.Info("borrowing restricted",
			"session_id", w.sessionID,
			"member_id", member.ID(),
			"overdue", overDue,
			"at_loan_limit", atLoanLimit,
			"over_fine_limit", overFineLimit)

		if err := w.fire(eventRestrict); err != nil {
			return err
		}
		w.reader.SetEnabled(false)
		w.scanner.SetEnabled(false)
		w.display.DisplayErrorMessage(MsgBorrowingRestricted)
	} else {
		if err := w.fire(eventAdmit); err != nil {
			return err
		}
		w.reader.SetEnabled(false)
		w.scanner.SetEnabled(true)
		w.display.DisplayScannedBookDetails("")
		w.display.DisplayPendingLoan("")
		w.scanCount = member.LoanCount()
	}

	w.displayBorrower()
	return nil
}

// BookScanned turns an available book into a pending loan for the borrower.
// Unknown, unavailable and repeated barcodes are reported and ignored.
func (w *Workflow) BookScanned(barcode int) error {
	if err := w.requireState("scan book", StateScanningBooks); err != nil {
		return err
	}

	book := w.books.GetBookByID(barcode)
	if book == nil {
		w.display.DisplayErrorMessage(MsgBookNotFound)
		return nil
	}
	if !book.IsAvailable() {
		w.display.DisplayErrorMessage(MsgBookNotAvailable)
		return nil
	}
	if w.isPending(book) {
		w.display.DisplayErrorMessage(MsgBookAlreadyScanned)
		return nil
	}

	borrowDate := utils.StartOfDay(w.now())
	dueDate := utils.CalculateDueDate(borrowDate, w.loanPeriod)
	loan, err := w.loans.CreateLoan(w.borrower, book, borrowDate, dueDate)
	if err != nil {
		return err
	}

	w.scanCount++
	w.pendingBooks = append(w.pendingBooks, book)
	w.pendingLoans = append(w.pendingLoans, loan)

	w.display.DisplayErrorMessage("")
	w.display.DisplayScannedBookDetails(book.String())
	w.display.DisplayPendingLoan(loan.String())

	if w.scanCount >= w.borrower.Limits().Loans {
		w.scanner.SetEnabled(false)
		if err := w.fire(eventFinishScanning); err != nil {
			return err
		}
		w.displayConfirmingLoans()
	}
	return nil
}

// ScansCompleted moves to confirmation with whatever has been scanned so far.
func (w *Workflow) ScansCompleted() error {
	if err := w.requireState("complete scans", StateScanningBooks); err != nil {
		return err
	}

	if err := w.fire(eventFinishScanning); err != nil {
		return err
	}
	w.displayConfirmingLoans()
	w.reader.SetEnabled(false)
	w.scanner.SetEnabled(false)
	return nil
}

// LoansConfirmed commits every pending loan, prints a slip for each and
// closes the session. Loans committed before a failing one stay committed and
// leave the pending list, so a retry only attempts the rest. The session stays
// in CONFIRMING_LOANS on failure.
func (w *Workflow) LoansConfirmed() error {
	if err := w.requireState("confirm loans", StateConfirmingLoans); err != nil {
		return err
	}

	for len(w.pendingLoans) > 0 {
		loan := w.pendingLoans[0]
		if err := w.loans.CommitLoan(loan); err != nil {
			w.log.Error("loan commit failed",
				"session_id", w.sessionID,
				"book_id", loan.Book().ID(),
				"remaining", len(w.pendingLoans),
				"error", err)
			return fmt.Errorf("commit loan for book %d: %w", loan.Book().ID(), err)
		}
		w.dropPending(loan)

		w.printer.Print(loan.String())
		w.log.Info("loan committed",
			"session_id", w.sessionID,
			"loan_id", loan.ID(),
			"book_id", loan.Book().ID(),
			"member_id", w.borrower.ID())
	}

	w.reader.SetEnabled(false)
	w.scanner.SetEnabled(false)
	if err := w.fire(eventConfirm); err != nil {
		return err
	}
	w.display.Close()
	return nil
}

// LoansRejected discards the pending loans and lets the borrower scan again.
func (w *Workflow) LoansRejected() error {
	if err := w.requireState("reject loans", StateConfirmingLoans); err != nil {
		return err
	}

	w.clearPending()
	if err := w.fire(eventReject); err != nil {
		return err
	}

	w.display.DisplayScannedBookDetails("")
	w.display.DisplayPendingLoan("")
	w.displayBorrower()
	w.scanCount = w.borrower.LoanCount()

	w.reader.SetEnabled(false)
	w.scanner.SetEnabled(true)
	return nil
}

// Cancelled abandons the session without committing anything.
func (w *Workflow) Cancelled() error {
	state := w.State()
	if state == StateCompleted || state == StateCancelled {
		return customError.WrapIllegalState("cancel session", state)
	}

	w.clearPending()
	w.reader.SetEnabled(false)
	w.scanner.SetEnabled(false)
	if err := w.fire(eventCancel); err != nil {
		return err
	}
	w.display.Close()
	return nil
}

func (w *Workflow) requireState(operation string, expected SessionState) error {
	if state := w.State(); state != expected {
		return customError.WrapIllegalState(operation, state)
	}
	return nil
}

// fire applies event to the session machine and tells the display. Re-entering
// the current state is not an error.
func (w *Workflow) fire(event string) error {
	err := w.machine.Event(context.Background(), event)

	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return customError.WrapIllegalState(event, w.State())
	}

	w.display.SetState(w.State())
	return nil
}

func (w *Workflow) isPending(book *domain.Book) bool {
	for _, b := range w.pendingBooks {
		if b == book {
			return true
		}
	}
	return false
}

// dropPending removes a committed loan and its book from the pending lists
func (w *Workflow) dropPending(loan *domain.Loan) {
	for i, l := range w.pendingLoans {
		if l == loan {
			w.pendingLoans = append(w.pendingLoans[:i], w.pendingLoans[i+1:]...)
			break
		}
	}
	for i, b := range w.pendingBooks {
		if b == loan.Book() {
			w.pendingBooks = append(w.pendingBooks[:i], w.pendingBooks[i+1:]...)
			break
		}
	}
}

func (w *Workflow) clearPending() {
	w.pendingBooks = w.pendingBooks[:0]
	w.pendingLoans = w.pendingLoans[:0]
}

func (w *Workflow) displayBorrower() {
	w.display.DisplayMemberDetails(w.borrower.ID(), w.borrower.FullName(), w.borrower.ContactPhone())
	for _, loan := range w.borrower.Loans() {
		w.display.DisplayExistingLoan(loan.String())
	}
}

func (w *Workflow) displayConfirmingLoans() {
	for _, loan := range w.pendingLoans {
		w.display.DisplayConfirmingLoan(loan.String())
	}
}
