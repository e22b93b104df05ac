package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/circulation-desk/internal/catalog"
	"github.com/segyhp/circulation-desk/internal/config"
	"github.com/segyhp/circulation-desk/internal/logger"
)

func seededStores(t *testing.T) *stores {
	t.Helper()
	logger.InitializeWithWriter(&bytes.Buffer{}, "error", "text")

	s, err := openStores(catalog.Default(), testConfig(), time.Now())
	require.NoError(t, err)
	return s
}

func testConfig() *config.Config {
	return &config.Config{Circulation: config.CirculationConfig{
		LoanPeriodDays: 14,
		LoanLimit:      2,
		FineLimit:      "2.00",
	}}
}

var openingLoans = len(catalog.Default().Loans)

func TestRunBorrow_Confirmed(t *testing.T) {
	s := seededStores(t)
	var out bytes.Buffer

	require.NoError(t, runBorrow(&out, testConfig(), s, 1, []int{1, 3, 4}, false))

	loans := s.loans.FindLoansByBorrower(s.members.GetMemberByID(1))
	require.Len(t, loans, 2)
	assert.True(t, loans[0].DueDate().Equal(loans[0].BorrowDate().AddDate(0, 0, 14)))
	assert.True(t, s.books.GetBookByID(1).IsOnLoan())
	assert.True(t, s.books.GetBookByID(3).IsOnLoan())
	assert.True(t, s.books.GetBookByID(4).IsAvailable())
	assert.Contains(t, out.String(), "barcode 4 not scanned")
	assert.Contains(t, out.String(), "== COMPLETED ==")
}

func TestRunBorrow_Rejected(t *testing.T) {
	s := seededStores(t)
	var out bytes.Buffer

	require.NoError(t, runBorrow(&out, testConfig(), s, 1, []int{2}, true))

	assert.Len(t, s.loans.ListLoans(), openingLoans)
	assert.True(t, s.books.GetBookByID(2).IsAvailable())
	assert.Contains(t, out.String(), "== CANCELLED ==")
}

func TestRunBorrow_RestrictedMember(t *testing.T) {
	s := seededStores(t)
	var out bytes.Buffer

	// the third bundled member owes more than the fine limit
	require.NoError(t, runBorrow(&out, testConfig(), s, 3, []int{1}, false))

	assert.Len(t, s.loans.ListLoans(), openingLoans)
	assert.Contains(t, out.String(), "== BORROWING_RESTRICTED ==")
	assert.Contains(t, out.String(), "Member owes $4.00, the limit is $2.00")
}

func TestRunBorrow_UnknownMember(t *testing.T) {
	s := seededStores(t)
	var out bytes.Buffer

	require.NoError(t, runBorrow(&out, testConfig(), s, 99, []int{1}, false))

	assert.Contains(t, out.String(), "Borrower was not found in database")
	assert.Len(t, s.loans.ListLoans(), openingLoans)
}

func TestRunBorrow_OverdueOpeningLoan(t *testing.T) {
	s := seededStores(t)
	var out bytes.Buffer

	// the fourth bundled member opened with a loan due in January 2024
	katherine := s.members.GetMemberByID(4)
	require.NotNil(t, katherine)
	require.True(t, katherine.HasOverDueLoans())

	require.NoError(t, runBorrow(&out, testConfig(), s, katherine.ID(), []int{1}, false))

	assert.Contains(t, out.String(), "! Member has overdue loans")
	assert.Contains(t, out.String(), "== BORROWING_RESTRICTED ==")
	assert.True(t, s.books.GetBookByID(1).IsAvailable())
	assert.Len(t, s.loans.ListLoans(), openingLoans)
}

func TestRunBorrow_ConfiguredLoanLimit(t *testing.T) {
	logger.InitializeWithWriter(&bytes.Buffer{}, "error", "text")
	cfg := testConfig()
	cfg.Circulation.LoanLimit = 3
	s, err := openStores(catalog.Default(), cfg, time.Now())
	require.NoError(t, err)
	var out bytes.Buffer

	require.NoError(t, runBorrow(&out, cfg, s, 1, []int{1, 2, 3, 4}, false))

	assert.Len(t, s.loans.FindLoansByBorrower(s.members.GetMemberByID(1)), 3)
	assert.True(t, s.books.GetBookByID(4).IsAvailable())
	assert.Contains(t, out.String(), "barcode 4 not scanned")
}
