package library

import (
	"time"

	"go.uber.org/zap"
)

// PaymentStatus discriminates the outcome of a fine payment.
type PaymentStatus int

const (
	PaymentCleared PaymentStatus = iota
	PaymentPartial
	PaymentNoFineDue
)

// PaymentResult reports what a payment did. Remaining is non-zero only for
// PaymentPartial.
type PaymentResult struct {
	Status    PaymentStatus
	Remaining float64
}

// lending is the kind-independent borrow / overdue / fine algorithm. Book and
// CD services embed it with their own row selector, loan period and policy.
type lending struct {
	store    *Store
	policy   FinePolicy
	loanDays int
	kind     string
	// guardBorrower enables the cross-item preconditions (unpaid fine,
	// overdue loan); books enforce them, CDs do not.
	guardBorrower bool
	rows          func(*Document) []Lendable
	log           *zap.Logger
}

func (l *lending) find(doc *Document, key string) Lendable {
	for _, r := range l.rows(doc) {
		if r.Key() == key {
			return r
		}
	}
	return nil
}

// borrow runs the guards in a fixed order, first failure wins, and persists the
// whole document on success. Returns the computed due date.
func (l *lending) borrow(key string, user User) (time.Time, error) {
	doc, err := l.store.Load()
	if err != nil {
		return time.Time{}, err
	}

	if l.guardBorrower {
		for _, r := range l.rows(doc) {
			ln := r.Loan()
			if ln.Owner() == user.UserID() && ln.Fine > 0 {
				return time.Time{}, ErrUnpaidFine
			}
		}
		today := Today()
		for _, r := range l.rows(doc) {
			ln := r.Loan()
			if ln.Owner() != user.UserID() || !ln.Borrowed {
				continue
			}
			if due, ok := ln.DueOn(); ok && due.Before(today) {
				return time.Time{}, ErrOverdueLoan
			}
		}
	}

	target := l.find(doc, key)
	if target == nil {
		return time.Time{}, ErrNotFound
	}
	if !target.InStock() {
		return time.Time{}, ErrOutOfStock
	}
	if target.Loan().Borrowed {
		return time.Time{}, ErrAlreadyBorrowed
	}

	target.TakeCopy()
	due := Today().AddDate(0, 0, l.loanDays)
	target.Loan().setBorrowed(user.UserID(), due)

	if err := l.store.Save(doc); err != nil {
		return time.Time{}, err
	}
	l.log.Debug("item borrowed",
		zap.String("kind", l.kind),
		zap.String("key", key),
		zap.Int("user", user.UserID()),
		zap.String("due", FormatDate(due)),
	)
	return due, nil
}

// detectOverdue recomputes the fine for every borrowed, past-due row from its
// original due date. Repeated runs with no time passing are idempotent: the
// fine is overwritten, never accumulated. Rows without a usable due date are
// skipped. Returns the number of rows fined.
func (l *lending) detectOverdue() (int, error) {
	doc, err := l.store.Load()
	if err != nil {
		return 0, err
	}

	today := Today()
	fined := 0
	for _, r := range l.rows(doc) {
		ln := r.Loan()
		if !ln.Borrowed {
			continue
		}
		due, ok := ln.DueOn()
		if !ok {
			continue
		}
		if daysLate := daysBetween(due, today); daysLate > 0 {
			ln.Fine = l.policy.CalculateFine(daysLate)
			fined++
		}
	}

	if err := l.store.Save(doc); err != nil {
		return 0, err
	}
	l.log.Info("overdue detection complete",
		zap.String("kind", l.kind),
		zap.Int("fined", fined),
	)
	return fined, nil
}

// payFine applies a payment against a row's fine. A payment covering the full
// fine clears it; a smaller one leaves the remainder. The amount is not
// validated: a negative payment increases the fine, a known quirk kept
// rather than silently fixed.
func (l *lending) payFine(key string, amount float64) (PaymentResult, error) {
	doc, err := l.store.Load()
	if err != nil {
		return PaymentResult{}, err
	}

	target := l.find(doc, key)
	if target == nil {
		return PaymentResult{}, ErrNotFound
	}

	ln := target.Loan()
	if ln.Fine == 0 {
		return PaymentResult{Status: PaymentNoFineDue}, nil
	}

	remaining := ln.Fine - amount
	res := PaymentResult{Status: PaymentCleared}
	if remaining <= 0 {
		ln.Fine = 0
	} else {
		ln.Fine = remaining
		res = PaymentResult{Status: PaymentPartial, Remaining: remaining}
	}

	if err := l.store.Save(doc); err != nil {
		return PaymentResult{}, err
	}
	return res, nil
}

// totalFineForUser sums fines across every row the user currently holds.
// Pure read, no write.
func (l *lending) totalFineForUser(userID int) (float64, error) {
	doc, err := l.store.Load()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range l.rows(doc) {
		if r.Loan().Owner() == userID {
			total += r.Loan().Fine
		}
	}
	return total, nil
}

// overdueForUser returns the rows the user holds past their due date.
func (l *lending) overdueForUser(userID int) ([]Lendable, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	today := Today()
	var out []Lendable
	for _, r := range l.rows(doc) {
		ln := r.Loan()
		if ln.Owner() != userID || !ln.Borrowed {
			continue
		}
		if due, ok := ln.DueOn(); ok && due.Before(today) {
			out = append(out, r)
		}
	}
	return out, nil
}

func bookRows(doc *Document) []Lendable {
	out := make([]Lendable, len(doc.Books))
	for i := range doc.Books {
		out[i] = &doc.Books[i]
	}
	return out
}

func cdRows(doc *Document) []Lendable {
	out := make([]Lendable, len(doc.CDs))
	for i := range doc.CDs {
		out[i] = &doc.CDs[i]
	}
	return out
}

// BookLending orchestrates the borrowing, overdue and fine lifecycle for
// books. Books enforce the cross-item guards: a user owing a fine or holding
// an overdue book cannot borrow another one.
type BookLending struct {
	core lending
}

// NewBookLending wires the book lifecycle against the store. A nil logger is
// replaced with a no-op one.
func NewBookLending(store *Store, cfg Config, log *zap.Logger) *BookLending {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookLending{core: lending{
		store:         store,
		policy:        PerDayFine(cfg.BookFinePerDay),
		loanDays:      cfg.BookLoanDays,
		kind:          "book",
		guardBorrower: true,
		rows:          bookRows,
		log:           log,
	}}
}

// Borrow lends the book with the given ISBN to the user and returns the due
// date.
func (s *BookLending) Borrow(isbn string, user User) (time.Time, error) {
	return s.core.borrow(isbn, user)
}

// DetectOverdue recomputes fines for all past-due books. Returns how many
// rows were fined.
func (s *BookLending) DetectOverdue() (int, error) { return s.core.detectOverdue() }

// PayFine applies a payment against the fine on the given ISBN.
func (s *BookLending) PayFine(isbn string, amount float64) (PaymentResult, error) {
	return s.core.payFine(isbn, amount)
}

// TotalFineForUser sums book fines across everything the user holds.
func (s *BookLending) TotalFineForUser(userID int) (float64, error) {
	return s.core.totalFineForUser(userID)
}

// OverdueBooksForUser lists the user's past-due books.
func (s *BookLending) OverdueBooksForUser(userID int) ([]Book, error) {
	rows, err := s.core.overdueForUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]Book, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.(*Book))
	}
	return out, nil
}

// CDLending orchestrates the borrowing, overdue and fine lifecycle for CDs.
// CDs lend without the cross-item borrow guards that books enforce.
type CDLending struct {
	core lending
}

// NewCDLending wires the CD lifecycle against the store.
func NewCDLending(store *Store, cfg Config, log *zap.Logger) *CDLending {
	if log == nil {
		log = zap.NewNop()
	}
	return &CDLending{core: lending{
		store:    store,
		policy:   PerDayFine(cfg.CDFinePerDay),
		loanDays: cfg.CDLoanDays,
		kind:     "cd",
		rows:     cdRows,
		log:      log,
	}}
}

// Borrow lends the CD with the given id to the user and returns the due date.
func (s *CDLending) Borrow(id string, user User) (time.Time, error) {
	return s.core.borrow(id, user)
}

// DetectOverdue recomputes fines for all past-due CDs.
func (s *CDLending) DetectOverdue() (int, error) { return s.core.detectOverdue() }

// PayFine applies a payment against the fine on the given CD.
func (s *CDLending) PayFine(id string, amount float64) (PaymentResult, error) {
	return s.core.payFine(id, amount)
}

// TotalFineForUser sums CD fines across everything the user holds.
func (s *CDLending) TotalFineForUser(userID int) (float64, error) {
	return s.core.totalFineForUser(userID)
}

// OverdueCDsForUser lists the user's past-due CDs.
func (s *CDLending) OverdueCDsForUser(userID int) ([]CD, error) {
	rows, err := s.core.overdueForUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]CD, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.(*CD))
	}
	return out, nil
}
