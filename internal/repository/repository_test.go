package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/circulation-desk/internal/domain"
	customError "github.com/segyhp/circulation-desk/pkg/errors"
)

var borrowDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBookRepository_AddBook(t *testing.T) {
	repo := NewBookRepository()

	first, err := repo.AddBook("Le Guin", "The Dispossessed", "813.54 LEG")
	require.NoError(t, err)
	second, err := repo.AddBook("Le Guin", "The Lathe of Heaven", "813.54 LEG 2")
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID())
	assert.Equal(t, 2, second.ID())
	assert.Same(t, second, repo.GetBookByID(2))
	assert.Nil(t, repo.GetBookByID(3))
	assert.Len(t, repo.ListBooks(), 2)
}

func TestBookRepository_AddBookValidation(t *testing.T) {
	repo := NewBookRepository()

	tests := []struct {
		name          string
		author        string
		title         string
		callNumber    string
		errorContains string
	}{
		{name: "missing author", title: "T", callNumber: "C", errorContains: "author is required"},
		{name: "missing title", author: "A", callNumber: "C", errorContains: "title is required"},
		{name: "missing call number", author: "A", title: "T", errorContains: "callnumber is required"},
		{name: "blank author", author: "  ", title: "T", callNumber: "C", errorContains: "author cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := repo.AddBook(tt.author, tt.title, tt.callNumber)
			assert.Nil(t, book)
			assert.True(t, errors.Is(err, customError.ErrValidation))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	assert.Empty(t, repo.ListBooks())
}

func TestBookRepository_Queries(t *testing.T) {
	repo := NewBookRepository()
	for _, b := range [][2]string{
		{"Le Guin", "The Dispossessed"},
		{"Le Guin", "The Word for World Is Forest"},
		{"Banks", "The Player of Games"},
		{"Banks", "The Dispossessed"},
	} {
		_, err := repo.AddBook(b[0], b[1], "000")
		require.NoError(t, err)
	}

	byAuthor := repo.FindBooksByAuthor("Le Guin")
	require.Len(t, byAuthor, 2)
	assert.Equal(t, 1, byAuthor[0].ID())
	assert.Equal(t, 2, byAuthor[1].ID())

	byTitle := repo.FindBooksByTitle("The Dispossessed")
	require.Len(t, byTitle, 2)
	assert.Equal(t, 4, byTitle[1].ID())

	both := repo.FindBooksByAuthorTitle("Banks", "The Dispossessed")
	require.Len(t, both, 1)
	assert.Equal(t, 4, both[0].ID())

	assert.Empty(t, repo.FindBooksByAuthor("Nobody"))
}

func TestMemberRepository(t *testing.T) {
	repo := NewMemberRepository()

	ada, err := repo.AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	require.NoError(t, err)
	byron, err := repo.AddMember("Byron", "Lovelace", "555-0101", "byron@example.org")
	require.NoError(t, err)

	assert.Equal(t, 1, ada.ID())
	assert.Equal(t, 2, byron.ID())
	assert.Same(t, ada, repo.GetMemberByID(1))
	assert.Nil(t, repo.GetMemberByID(99))
	assert.Len(t, repo.FindMembersByLastName("Lovelace"), 2)
	assert.Equal(t, []*domain.Member{byron}, repo.FindMembersByEmailAddress("byron@example.org"))
	assert.Equal(t, []*domain.Member{ada}, repo.FindMembersByNames("Ada", "Lovelace"))
	assert.Len(t, repo.ListMembers(), 2)

	_, err = repo.AddMember("Ada", "Lovelace", "", "ada@example.org")
	assert.True(t, errors.Is(err, customError.ErrValidation))
	assert.Contains(t, err.Error(), "contactphone is required")
}

func TestMemberRepository_Limits(t *testing.T) {
	limits := domain.Limits{Loans: 5, Fine: decimal.RequireFromString("7.50")}
	repo := NewMemberRepository(WithMemberLimits(limits))

	member, err := repo.AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	require.NoError(t, err)
	assert.Equal(t, limits, member.Limits())

	defaults, err := NewMemberRepository().AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLimits(), defaults.Limits())

	invalid := NewMemberRepository(WithMemberLimits(domain.Limits{Loans: 0, Fine: decimal.NewFromInt(1)}))
	_, err = invalid.AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	assert.True(t, errors.Is(err, customError.ErrValidation))
	assert.Empty(t, invalid.ListMembers())
}

// TestRepositories_ConcurrentAdds checks that ids stay unique when several
// goroutines add to and list the same arenas.
func TestRepositories_ConcurrentAdds(t *testing.T) {
	books := NewBookRepository()
	members := NewMemberRepository()
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := books.AddBook("Le Guin", fmt.Sprintf("Title %d", i), "813.54 LEG")
			assert.NoError(t, err)
			_, err = members.AddMember("Ada", "Lovelace", "555-0100", fmt.Sprintf("ada%d@example.org", i))
			assert.NoError(t, err)
			_ = books.ListBooks()
			_ = members.FindMembersByLastName("Lovelace")
		}(i)
	}
	wg.Wait()

	bookIDs := make(map[int]bool)
	for _, b := range books.ListBooks() {
		bookIDs[b.ID()] = true
	}
	memberIDs := make(map[int]bool)
	for _, m := range members.ListMembers() {
		memberIDs[m.ID()] = true
	}
	assert.Len(t, bookIDs, workers)
	assert.Len(t, memberIDs, workers)
}

func TestLoanRepository_CreateAndCommit(t *testing.T) {
	books := NewBookRepository()
	members := NewMemberRepository()
	loans := NewLoanRepository()

	book, err := books.AddBook("Le Guin", "The Dispossessed", "813.54 LEG")
	require.NoError(t, err)
	member, err := members.AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	require.NoError(t, err)

	loan, err := loans.CreateLoan(member, book, borrowDate, borrowDate.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.True(t, loan.IsPending())
	assert.Empty(t, loans.ListLoans(), "pending loans are not stored")

	require.NoError(t, loans.CommitLoan(loan))
	assert.Equal(t, 1, loan.ID())
	assert.Same(t, loan, loans.GetLoanByID(1))
	assert.Same(t, loan, book.ActiveLoan())
	assert.Equal(t, []*domain.Loan{loan}, loans.FindLoansByBorrower(member))
	assert.Equal(t, []*domain.Loan{loan}, loans.FindLoansByBookTitle("The Dispossessed"))
	assert.Equal(t, []*domain.Loan{loan}, loans.FindLoansByBook(book))
	assert.Nil(t, loans.GetLoanByID(2))

	second, err := books.AddBook("Le Guin", "Always Coming Home", "813.54 LEG 3")
	require.NoError(t, err)
	next, err := loans.CreateLoan(member, second, borrowDate, borrowDate.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NoError(t, loans.CommitLoan(next))
	assert.Equal(t, 2, next.ID())
}

func TestLoanRepository_CommitFailureStoresNothing(t *testing.T) {
	loans := NewLoanRepository()
	book, err := domain.NewBook(1, "A", "T", "C")
	require.NoError(t, err)
	member, err := domain.NewMember(1, "F", "L", "P", "E")
	require.NoError(t, err)
	require.NoError(t, book.Dispose())

	loan, err := loans.CreateLoan(member, book, borrowDate, borrowDate)
	require.NoError(t, err)

	err = loans.CommitLoan(loan)
	assert.True(t, errors.Is(err, customError.ErrIllegalState))
	assert.Empty(t, loans.ListLoans())

	assert.True(t, errors.Is(loans.CommitLoan(nil), customError.ErrValidation))
}

func TestLoanRepository_CreateLoanValidation(t *testing.T) {
	loans := NewLoanRepository()
	member, err := domain.NewMember(1, "F", "L", "P", "E")
	require.NoError(t, err)

	_, err = loans.CreateLoan(member, nil, borrowDate, borrowDate)
	assert.True(t, errors.Is(err, customError.ErrValidation))
	assert.Contains(t, err.Error(), "book cannot be nil")
}

func TestLoanRepository_OverdueSweep(t *testing.T) {
	books := NewBookRepository()
	members := NewMemberRepository()
	loans := NewLoanRepository()

	member, err := members.AddMember("Ada", "Lovelace", "555-0100", "ada@example.org")
	require.NoError(t, err)

	commit := func(title string, due time.Time) *domain.Loan {
		book, err := books.AddBook("Author", title, "000")
		require.NoError(t, err)
		loan, err := loans.CreateLoan(member, book, borrowDate, due)
		require.NoError(t, err)
		require.NoError(t, loans.CommitLoan(loan))
		return loan
	}

	early := commit("Early", borrowDate.AddDate(0, 0, 3))
	late := commit("Late", borrowDate.AddDate(0, 0, 14))

	count, err := loans.UpdateOverDueStatus(borrowDate.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []*domain.Loan{early}, loans.FindOverDueLoans())
	assert.Equal(t, domain.LoanStateCurrent, late.State())

	require.NoError(t, early.Complete())
	count, err = loans.UpdateOverDueStatus(borrowDate.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count, "completed loans are skipped")
	assert.Equal(t, []*domain.Loan{late}, loans.FindOverDueLoans())
}
