package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

type MemberState string

const (
	MemberStateBorrowingAllowed    MemberState = "BORROWING_ALLOWED"
	MemberStateBorrowingDisallowed MemberState = "BORROWING_DISALLOWED"
)

func (s MemberState) String() string {
	return string(s)
}

// Business rule limits
const (
	// LoanLimit is the default number of concurrent active loans a member may hold
	LoanLimit = 2
)

// FineLimit is the default accrued fine at which borrowing stops
var FineLimit = decimal.RequireFromString("2.00")

// Limits are the borrowing thresholds a member is held to
type Limits struct {
	Loans int
	Fine  decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{Loans: LoanLimit, Fine: FineLimit}
}

func (l Limits) Validate() error {
	if l.Loans <= 0 {
		return customError.WrapValidation(fmt.Sprintf("loan limit must be positive, got %d", l.Loans))
	}
	if !l.Fine.IsPositive() {
		return customError.WrapValidation(fmt.Sprintf("fine limit must be positive, got %s", l.Fine.String()))
	}
	return nil
}

// Member is a registered borrower. Its state is derived from its loans and
// fines every time it is read.
type Member struct {
	id           int
	firstName    string
	lastName     string
	contactPhone string
	emailAddress string
	loans        []*Loan
	fineAmount   decimal.Decimal
	limits       Limits
}

// NewMember creates a member with no loans and no fines
func NewMember(id int, firstName, lastName, contactPhone, emailAddress string) (*Member, error) {
	if id <= 0 {
		return nil, customError.WrapValidation(fmt.Sprintf("member id must be positive, got %d", id))
	}

	required := []struct {
		field string
		value string
	}{
		{"first name", firstName},
		{"last name", lastName},
		{"contact phone", contactPhone},
		{"email address", emailAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, customError.WrapValidation(r.field + " cannot be empty")
		}
	}

	return &Member{
		id:           id,
		firstName:    firstName,
		lastName:     lastName,
		contactPhone: contactPhone,
		emailAddress: emailAddress,
		loans:        make([]*Loan, 0, LoanLimit),
		fineAmount:   decimal.Zero,
		limits:       DefaultLimits(),
	}, nil
}

func (m *Member) ID() int                     { return m.id }
func (m *Member) FirstName() string           { return m.firstName }
func (m *Member) LastName() string            { return m.lastName }
func (m *Member) ContactPhone() string        { return m.contactPhone }
func (m *Member) EmailAddress() string        { return m.emailAddress }
func (m *Member) FineAmount() decimal.Decimal { return m.fineAmount }
func (m *Member) Limits() Limits              { return m.limits }

// SetLimits replaces the member's thresholds. Loans already held are kept
// even when they exceed the new loan limit.
func (m *Member) SetLimits(limits Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	m.limits = limits
	return nil
}

// FullName joins first and last name
func (m *Member) FullName() string {
	return m.firstName + " " + m.lastName
}

// Loans returns a copy of the member's active loans in the order they were added
func (m *Member) Loans() []*Loan {
	loans := make([]*Loan, len(m.loans))
	copy(loans, m.loans)
	return loans
}

func (m *Member) LoanCount() int { return len(m.loans) }

func (m *Member) HasOverDueLoans() bool {
	for _, loan := range m.loans {
		if loan.IsOverDue() {
			return true
		}
	}
	return false
}

func (m *Member) HasReachedLoanLimit() bool {
	return len(m.loans) >= m.limits.Loans
}

func (m *Member) HasReachedFineLimit() bool {
	return m.fineAmount.GreaterThanOrEqual(m.limits.Fine)
}

func (m *Member) HasOutstandingFine() bool {
	return m.fineAmount.IsPositive()
}

// State is BORROWING_DISALLOWED while any restriction holds
func (m *Member) State() MemberState {
	if m.HasOverDueLoans() || m.HasReachedLoanLimit() || m.HasReachedFineLimit() {
		return MemberStateBorrowingDisallowed
	}
	return MemberStateBorrowingAllowed
}

func (m *Member) CanBorrow() bool {
	return m.State() == MemberStateBorrowingAllowed
}

func (m *Member) HasLoan(loan *Loan) bool {
	return m.indexOf(loan) >= 0
}

func (m *Member) AddLoan(loan *Loan) error {
	if loan == nil {
		return customError.WrapValidation("loan cannot be nil")
	}
	if state := m.State(); state == MemberStateBorrowingDisallowed {
		return customError.WrapIllegalState("add loan", state)
	}
	if m.HasLoan(loan) {
		return customError.WrapValidation("loan is already held by member")
	}

	m.loans = append(m.loans, loan)
	return nil
}

func (m *Member) RemoveLoan(loan *Loan) error {
	if loan == nil {
		return customError.WrapValidation("loan cannot be nil")
	}
	idx := m.indexOf(loan)
	if idx < 0 {
		return customError.WrapValidation("loan is not held by member")
	}

	m.loans = append(m.loans[:idx], m.loans[idx+1:]...)
	return nil
}

func (m *Member) AddFine(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return customError.WrapInvalidFineAmount(amount)
	}

	m.fineAmount = m.fineAmount.Add(amount)
	return nil
}

func (m *Member) PayFine(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return customError.WrapInvalidFineAmount(amount)
	}
	if amount.GreaterThan(m.fineAmount) {
		return customError.WrapPaymentExceedsFines(amount, m.fineAmount)
	}

	m.fineAmount = m.fineAmount.Sub(amount)
	return nil
}

func (m *Member) indexOf(loan *Loan) int {
	for i, l := range m.loans {
		if l == loan {
			return i
		}
	}
	return -1
}

func (m *Member) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Member:  %d\n  Name:  %s, %s\n  Phone: %s\n  Email: %s\n  Fines Owed: $%s\n  State: %s",
		m.id, m.lastName, m.firstName, m.contactPhone, m.emailAddress,
		m.fineAmount.StringFixed(2), m.State())
	for _, loan := range m.loans {
		sb.WriteString("\n")
		sb.WriteString(loan.String())
	}
	return sb.String()
}
