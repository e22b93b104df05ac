package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/segyhp/circulation-desk/internal/borrow"
	"github.com/segyhp/circulation-desk/internal/catalog"
	"github.com/segyhp/circulation-desk/internal/config"
	"github.com/segyhp/circulation-desk/internal/console"
	"github.com/segyhp/circulation-desk/internal/logger"
	"github.com/segyhp/circulation-desk/internal/repository"
)

type stores struct {
	books   repository.BookRepository
	loans   repository.LoanRepository
	members repository.MemberRepository
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var catalogPath string

	root := &cobra.Command{
		Use:          "desk",
		Short:        "Library circulation desk",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalogue YAML file (defaults to CATALOG_PATH, then the bundled catalogue)")

	root.AddCommand(
		newBorrowCommand(&catalogPath),
		newBooksCommand(&catalogPath),
		newMembersCommand(&catalogPath),
	)
	return root
}

func newBorrowCommand(catalogPath *string) *cobra.Command {
	var (
		memberID int
		barcodes []int
		reject   bool
	)

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Run one borrowing session: swipe a card, scan books, confirm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, s, err := setup(*catalogPath)
			if err != nil {
				return err
			}
			return runBorrow(cmd.OutOrStdout(), cfg, s, memberID, barcodes, reject)
		},
	}
	cmd.Flags().IntVar(&memberID, "member", 0, "member card number")
	cmd.Flags().IntSliceVar(&barcodes, "book", nil, "book barcode to scan (repeatable)")
	cmd.Flags().BoolVar(&reject, "reject", false, "reject the loans instead of confirming them")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func newBooksCommand(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the book catalogue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, err := setup(*catalogPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-30s %-25s %-14s %s\n", "ID", "Title", "Author", "Call No.", "State")
			for _, b := range s.books.ListBooks() {
				fmt.Fprintf(out, "%-5d %-30s %-25s %-14s %s\n", b.ID(), b.Title(), b.Author(), b.CallNumber(), b.State())
			}
			return nil
		},
	}
}

func newMembersCommand(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List registered members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, err := setup(*catalogPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-25s %-12s %-25s %-8s %s\n", "ID", "Name", "Phone", "Email", "Fines", "State")
			for _, m := range s.members.ListMembers() {
				fmt.Fprintf(out, "%-5d %-25s %-12s %-25s %-8s %s\n",
					m.ID(), m.FullName(), m.ContactPhone(), m.EmailAddress(), m.FineAmount().StringFixed(2), m.State())
			}
			return nil
		},
	}
}

// setup loads configuration, starts logging on stderr and opens fresh
// in-memory stores from the catalogue.
func setup(catalogPath string) (*config.Config, *stores, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.InitializeWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if catalogPath == "" {
		catalogPath = cfg.App.CatalogPath
	}
	c, err := catalog.Open(catalogPath)
	if err != nil {
		return nil, nil, err
	}

	s, err := openStores(c, cfg, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

// openStores seeds the catalogue and marks opening loans that fell due
// before asOf, so members with overdue books are restricted at the desk.
func openStores(c *catalog.Catalog, cfg *config.Config, asOf time.Time) (*stores, error) {
	s := &stores{
		books:   repository.NewBookRepository(),
		loans:   repository.NewLoanRepository(),
		members: repository.NewMemberRepository(repository.WithMemberLimits(cfg.GetMemberLimits())),
	}
	if err := catalog.Seed(c, s.books, s.members, s.loans); err != nil {
		return nil, err
	}

	overdue, err := s.loans.UpdateOverDueStatus(asOf)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalogue opened",
		"books", len(c.Books),
		"members", len(c.Members),
		"loans", len(c.Loans),
		"overdue", overdue)
	return s, nil
}

func runBorrow(out io.Writer, cfg *config.Config, s *stores, memberID int, barcodes []int, reject bool) error {
	display := console.NewDisplay(out)
	reader := console.NewCardReader()
	scanner := console.NewScanner()

	workflow, err := borrow.NewWorkflow(display, reader, scanner, console.NewPrinter(out),
		s.books, s.loans, s.members,
		borrow.WithLoanPeriod(cfg.Circulation.LoanPeriodDays),
		borrow.WithLogger(logger.WithService("desk")),
	)
	if err != nil {
		return err
	}
	if err := workflow.Initialise(); err != nil {
		return err
	}

	if err := reader.Swipe(memberID); err != nil {
		return err
	}
	if workflow.State() != borrow.StateScanningBooks {
		// unknown card or restricted borrower; the display has said why
		return workflow.Cancelled()
	}

	for _, barcode := range barcodes {
		err := scanner.Scan(barcode)
		if errors.Is(err, console.ErrDeviceDisabled) {
			fmt.Fprintf(out, "! Loan limit reached, barcode %d not scanned\n", barcode)
			continue
		}
		if err != nil {
			return err
		}
	}

	if workflow.State() == borrow.StateScanningBooks {
		if len(workflow.PendingLoans()) == 0 {
			return workflow.Cancelled()
		}
		if err := workflow.ScansCompleted(); err != nil {
			return err
		}
	}

	if reject {
		if err := workflow.LoansRejected(); err != nil {
			return err
		}
		return workflow.Cancelled()
	}
	return workflow.LoansConfirmed()
}
