package borrow

import "github.com/shopspring/decimal"

// Display is the desk screen a borrow session reports to. Rendering is up to
// the implementation; an empty string clears the corresponding panel.
type Display interface {
	SetState(state SessionState)
	DisplayMemberDetails(memberID int, name, phone string)
	DisplayExistingLoan(loanDetails string)
	DisplayOverDueMessage()
	DisplayAtLoanLimitMessage(limit int)
	DisplayOutstandingFineMessage(amount decimal.Decimal)
	DisplayOverFineLimitMessage(amount, limit decimal.Decimal)
	DisplayScannedBookDetails(bookDetails string)
	DisplayPendingLoan(loanDetails string)
	DisplayConfirmingLoan(loanDetails string)
	DisplayErrorMessage(message string)

	// Close ends the session and restores whatever the desk showed before it
	Close()
}

// CardReaderListener receives member card swipes
type CardReaderListener interface {
	CardSwiped(memberID int) error
}

type CardReader interface {
	SetEnabled(enabled bool)
	AddListener(listener CardReaderListener)
}

// ScannerListener receives book barcodes
type ScannerListener interface {
	BookScanned(barcode int) error
}

type Scanner interface {
	SetEnabled(enabled bool)
	AddListener(listener ScannerListener)
}

// Printer prints loan slips
type Printer interface {
	Print(text string)
}
