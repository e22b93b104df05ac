// Package console renders a borrow session as plain text and simulates the
// desk's card reader and barcode scanner.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/circulation-desk/internal/borrow"
)

// Display writes every session update to w as it happens
type Display struct {
	w      io.Writer
	state  borrow.SessionState
	closed bool
}

func NewDisplay(w io.Writer) *Display {
	return &Display{w: w, state: borrow.StateCreated}
}

func (d *Display) State() borrow.SessionState { return d.state }
func (d *Display) Closed() bool               { return d.closed }

func (d *Display) SetState(state borrow.SessionState) {
	d.state = state
	d.closed = false
	fmt.Fprintf(d.w, "== %s ==\n", state)
}

func (d *Display) DisplayMemberDetails(memberID int, name, phone string) {
	fmt.Fprintf(d.w, "Member %d: %s (%s)\n", memberID, name, phone)
}

func (d *Display) DisplayExistingLoan(loanDetails string) {
	d.block("Existing loan", loanDetails)
}

func (d *Display) DisplayOverDueMessage() {
	fmt.Fprintln(d.w, "! Member has overdue loans")
}

func (d *Display) DisplayAtLoanLimitMessage(limit int) {
	fmt.Fprintf(d.w, "! Member has reached the limit of %d loans\n", limit)
}

func (d *Display) DisplayOutstandingFineMessage(amount decimal.Decimal) {
	fmt.Fprintf(d.w, "Member owes $%s in fines\n", amount.StringFixed(2))
}

func (d *Display) DisplayOverFineLimitMessage(amount, limit decimal.Decimal) {
	fmt.Fprintf(d.w, "! Member owes $%s, the limit is $%s\n", amount.StringFixed(2), limit.StringFixed(2))
}

func (d *Display) DisplayScannedBookDetails(bookDetails string) {
	d.block("Scanned", bookDetails)
}

func (d *Display) DisplayPendingLoan(loanDetails string) {
	d.block("Pending", loanDetails)
}

func (d *Display) DisplayConfirmingLoan(loanDetails string) {
	d.block("Confirm", loanDetails)
}

func (d *Display) DisplayErrorMessage(message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(d.w, "! %s\n", message)
}

func (d *Display) Close() {
	d.closed = true
	fmt.Fprintln(d.w, "== session closed ==")
}

// block prints a titled, indented multi-line panel. Empty details clear the
// panel, which on a line-oriented console means printing nothing.
func (d *Display) block(title, details string) {
	if details == "" {
		return
	}
	fmt.Fprintf(d.w, "%s:\n", title)
	for _, line := range strings.Split(details, "\n") {
		fmt.Fprintf(d.w, "    %s\n", line)
	}
}

// Printer prints loan slips to w
type Printer struct {
	w     io.Writer
	slips int
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Print(text string) {
	p.slips++
	fmt.Fprintln(p.w, strings.Repeat("-", 32))
	fmt.Fprintln(p.w, text)
	fmt.Fprintln(p.w, strings.Repeat("-", 32))
}

// Slips is the number of slips printed so far
func (p *Printer) Slips() int { return p.slips }
