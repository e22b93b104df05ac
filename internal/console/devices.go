package console

import (
	"errors"
	"fmt"

	"github.com/segyhp/circulation-desk/internal/borrow"
)

// ErrDeviceDisabled is returned when input arrives at a switched off device
var ErrDeviceDisabled = errors.New("device is disabled")

// CardReader forwards swiped member cards to its listeners while enabled
type CardReader struct {
	enabled   bool
	listeners []borrow.CardReaderListener
}

func NewCardReader() *CardReader {
	return &CardReader{}
}

func (r *CardReader) Enabled() bool { return r.enabled }

func (r *CardReader) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *CardReader) AddListener(listener borrow.CardReaderListener) {
	r.listeners = append(r.listeners, listener)
}

func (r *CardReader) Swipe(memberID int) error {
	if !r.enabled {
		return fmt.Errorf("card reader: %w", ErrDeviceDisabled)
	}
	for _, l := range r.listeners {
		if err := l.CardSwiped(memberID); err != nil {
			return err
		}
	}
	return nil
}

// Scanner forwards scanned barcodes to its listeners while enabled
type Scanner struct {
	enabled   bool
	listeners []borrow.ScannerListener
}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) Enabled() bool { return s.enabled }

func (s *Scanner) SetEnabled(enabled bool) {
	s.enabled = enabled
}

func (s *Scanner) AddListener(listener borrow.ScannerListener) {
	s.listeners = append(s.listeners, listener)
}

func (s *Scanner) Scan(barcode int) error {
	if !s.enabled {
		return fmt.Errorf("scanner: %w", ErrDeviceDisabled)
	}
	for _, l := range s.listeners {
		if err := l.BookScanned(barcode); err != nil {
			return err
		}
	}
	return nil
}
