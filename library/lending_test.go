package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookLending(t *testing.T) (*BookLending, *Store) {
	t.Helper()
	s := tempStore(t)
	return NewBookLending(s, DefaultConfig(), nil), s
}

func newCDLending(t *testing.T) (*CDLending, *Store) {
	t.Helper()
	s := tempStore(t)
	return NewCDLending(s, DefaultConfig(), nil), s
}

func client(id int) User {
	return User{ID: intPtr(id), Username: "client", Password: "pw", Role: RoleClient, Email: "c@mail.com"}
}

func TestBorrowBookSuccess(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{Title: "1984", Author: "Orwell", ISBN: "111", Quantity: 2, Available: true}}})

	due, err := svc.Borrow("111", client(5))
	require.NoError(t, err)
	assert.Equal(t, Today().AddDate(0, 0, 28), due)

	doc, err := s.Load()
	require.NoError(t, err)
	b := doc.Books[0]
	assert.Equal(t, 1, b.Quantity)
	assert.True(t, b.Available)
	assert.True(t, b.Borrowed)
	assert.Equal(t, 5, b.Owner())
	assert.Equal(t, 0.0, b.Fine)
	d, ok := b.DueOn()
	require.True(t, ok)
	assert.Equal(t, due, d)
}

func TestBorrowLastCopyFlipsAvailability(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "000", Title: "X", Quantity: 1, Available: true}}})

	_, err := svc.Borrow("000", client(5))
	require.NoError(t, err)

	doc, _ := s.Load()
	assert.Equal(t, 0, doc.Books[0].Quantity)
	assert.False(t, doc.Books[0].Available)
}

func TestBorrowNotFound(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{})

	_, err := svc.Borrow("missing", client(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBorrowOutOfStock(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "111", Title: "X", Quantity: 0, Available: false}}})

	_, err := svc.Borrow("111", client(1))
	assert.ErrorIs(t, err, ErrOutOfStock)

	// No write happened.
	doc, _ := s.Load()
	assert.False(t, doc.Books[0].Borrowed)
	assert.Equal(t, 0, doc.Books[0].Quantity)
}

func TestBorrowAlreadyBorrowed(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "X", Quantity: 2, Available: true,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(10), BorrowedBy: intPtr(9)},
	}}})

	_, err := svc.Borrow("111", client(1))
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
}

func TestBorrowBlockedByUnpaidFine(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{
			ISBN: "111", Title: "Held", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(3), Fine: 6.0, BorrowedBy: intPtr(5)},
		},
		{ISBN: "222", Title: "Wanted", Quantity: 1, Available: true},
	}})

	_, err := svc.Borrow("222", client(5))
	assert.ErrorIs(t, err, ErrUnpaidFine)

	// The second item is untouched.
	doc, _ := s.Load()
	assert.False(t, doc.Books[1].Borrowed)
	assert.Equal(t, 1, doc.Books[1].Quantity)
}

func TestBorrowBlockedByOverdueLoan(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{
			ISBN: "111", Title: "Late", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-2), BorrowedBy: intPtr(5)},
		},
		{ISBN: "222", Title: "Wanted", Quantity: 1, Available: true},
	}})

	_, err := svc.Borrow("222", client(5))
	assert.ErrorIs(t, err, ErrOverdueLoan)
}

func TestBorrowGuardOrderFineBeforeOverdue(t *testing.T) {
	svc, s := newBookLending(t)
	// The held row is both fined and overdue; the fine guard must win.
	seed(t, s, &Document{Books: []Book{
		{
			ISBN: "111", Title: "Held", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-5), Fine: 2.5, BorrowedBy: intPtr(5)},
		},
		{ISBN: "222", Title: "Wanted", Quantity: 1, Available: true},
	}})

	_, err := svc.Borrow("222", client(5))
	assert.ErrorIs(t, err, ErrUnpaidFine)
}

func TestBorrowGuardsIgnoreOtherUsers(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{
			ISBN: "111", Title: "Held", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-5), Fine: 9.0, BorrowedBy: intPtr(8)},
		},
		{ISBN: "222", Title: "Wanted", Quantity: 1, Available: true},
	}})

	_, err := svc.Borrow("222", client(5))
	require.NoError(t, err)
}

func TestBorrowCDUsesSevenDayLoan(t *testing.T) {
	svc, s := newCDLending(t)
	seed(t, s, &Document{CDs: []CD{{ID: "CD-1", Title: "X", Artist: "Y", Quantity: 1, Available: true}}})

	due, err := svc.Borrow("CD-1", client(5))
	require.NoError(t, err)
	assert.Equal(t, Today().AddDate(0, 0, 7), due)
}

func TestBorrowCDSkipsCrossItemGuards(t *testing.T) {
	svc, s := newCDLending(t)
	// CDs never block borrowing on fines or overdue loans.
	seed(t, s, &Document{CDs: []CD{
		{
			ID: "CD-1", Title: "Held", Artist: "Y", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-3), Fine: 40, BorrowedBy: intPtr(5)},
		},
		{ID: "CD-2", Title: "Wanted", Artist: "Y", Quantity: 1, Available: true},
	}})

	_, err := svc.Borrow("CD-2", client(5))
	require.NoError(t, err)
}

func TestDetectOverdueComputesFine(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "Late", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-10), BorrowedBy: intPtr(5)},
	}}})

	fined, err := svc.DetectOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, fined)

	doc, _ := s.Load()
	assert.Equal(t, 5.0, doc.Books[0].Fine) // 10 days at 0.5/day
}

func TestDetectOverdueIsIdempotent(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "Late", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-4), BorrowedBy: intPtr(5)},
	}}})

	_, err := svc.DetectOverdue()
	require.NoError(t, err)
	_, err = svc.DetectOverdue()
	require.NoError(t, err)

	doc, _ := s.Load()
	assert.Equal(t, 2.0, doc.Books[0].Fine) // recomputed, not accumulated
}

func TestDetectOverdueSkipsRows(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{ISBN: "1", Title: "not borrowed", Quantity: 1, Available: true,
			LoanState: LoanState{DueDate: dateStr(-9)}},
		{ISBN: "2", Title: "no due date", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, BorrowedBy: intPtr(1)}},
		{ISBN: "3", Title: "literal null", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: strPtr("null"), BorrowedBy: intPtr(1)}},
		{ISBN: "4", Title: "due today", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(0), BorrowedBy: intPtr(1)}},
		{ISBN: "5", Title: "due later", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(14), BorrowedBy: intPtr(1)}},
	}})

	fined, err := svc.DetectOverdue()
	require.NoError(t, err)
	assert.Equal(t, 0, fined)

	doc, _ := s.Load()
	for _, b := range doc.Books {
		assert.Equal(t, 0.0, b.Fine, "book %s must not be fined", b.ISBN)
	}
}

func TestDetectOverdueCDRate(t *testing.T) {
	svc, s := newCDLending(t)
	seed(t, s, &Document{CDs: []CD{{
		ID: "CD-1", Title: "Late", Artist: "Y", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-3), BorrowedBy: intPtr(5)},
	}}})

	_, err := svc.DetectOverdue()
	require.NoError(t, err)

	doc, _ := s.Load()
	assert.Equal(t, 60.0, doc.CDs[0].Fine) // 3 days at 20/day
}

func TestPayFineCleared(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "555", Title: "X",
		LoanState: LoanState{Borrowed: true, Fine: 10, BorrowedBy: intPtr(1)}}}})

	res, err := svc.PayFine("555", 10)
	require.NoError(t, err)
	assert.Equal(t, PaymentCleared, res.Status)

	doc, _ := s.Load()
	assert.Equal(t, 0.0, doc.Books[0].Fine)
}

func TestPayFineOverpaymentClears(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "555", Title: "X",
		LoanState: LoanState{Borrowed: true, Fine: 10, BorrowedBy: intPtr(1)}}}})

	res, err := svc.PayFine("555", 25)
	require.NoError(t, err)
	assert.Equal(t, PaymentCleared, res.Status)

	doc, _ := s.Load()
	assert.Equal(t, 0.0, doc.Books[0].Fine)
}

func TestPayFinePartial(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "555", Title: "X",
		LoanState: LoanState{Borrowed: true, Fine: 10, BorrowedBy: intPtr(1)}}}})

	res, err := svc.PayFine("555", 4)
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, res.Status)
	assert.Equal(t, 6.0, res.Remaining)

	doc, _ := s.Load()
	assert.Equal(t, 6.0, doc.Books[0].Fine)
}

func TestPayFineNegativeAmountIncreasesFine(t *testing.T) {
	svc, s := newBookLending(t)
	// Amounts are not validated: paying a negative amount grows the fine.
	seed(t, s, &Document{Books: []Book{{ISBN: "555", Title: "X",
		LoanState: LoanState{Borrowed: true, Fine: 10, BorrowedBy: intPtr(1)}}}})

	res, err := svc.PayFine("555", -5)
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, res.Status)
	assert.Equal(t, 15.0, res.Remaining)

	doc, _ := s.Load()
	assert.Equal(t, 15.0, doc.Books[0].Fine)
}

func TestPayFineCD(t *testing.T) {
	svc, s := newCDLending(t)
	seed(t, s, &Document{CDs: []CD{{ID: "CD-1", Title: "X", Artist: "Y",
		LoanState: LoanState{Borrowed: true, Fine: 40, BorrowedBy: intPtr(1)}}}})

	res, err := svc.PayFine("CD-1", 15)
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, res.Status)
	assert.Equal(t, 25.0, res.Remaining)

	doc, _ := s.Load()
	assert.Equal(t, 25.0, doc.CDs[0].Fine)
}

func TestPayFineNoFineDue(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{{ISBN: "555", Title: "X", Quantity: 1, Available: true}}})

	res, err := svc.PayFine("555", 4)
	require.NoError(t, err)
	assert.Equal(t, PaymentNoFineDue, res.Status)
}

func TestPayFineNotFound(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{})

	_, err := svc.PayFine("nope", 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTotalFineForUser(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{ISBN: "1", Title: "A", LoanState: LoanState{Borrowed: true, Fine: 4, BorrowedBy: intPtr(10)}},
		{ISBN: "2", Title: "B", LoanState: LoanState{Borrowed: true, Fine: 6, BorrowedBy: intPtr(10)}},
		{ISBN: "3", Title: "C", LoanState: LoanState{Borrowed: true, Fine: 9, BorrowedBy: intPtr(11)}},
		{ISBN: "4", Title: "D", Quantity: 1, Available: true},
	}})

	total, err := svc.TotalFineForUser(10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, total)
}

func TestOverdueBooksForUser(t *testing.T) {
	svc, s := newBookLending(t)
	seed(t, s, &Document{Books: []Book{
		{ISBN: "late", Title: "Late", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-3), BorrowedBy: intPtr(7)}},
		{ISBN: "due-today", Title: "Today", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(0), BorrowedBy: intPtr(7)}},
		{ISBN: "returned", Title: "Back", Quantity: 1, Available: true,
			LoanState: LoanState{DueDate: dateStr(-5), BorrowedBy: intPtr(7)}},
		{ISBN: "other-user", Title: "Other", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-5), BorrowedBy: intPtr(8)}},
	}})

	got, err := svc.OverdueBooksForUser(7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "late", got[0].ISBN)
}

func TestOverdueBooksForUserRepairsSloppyDate(t *testing.T) {
	svc, s := newBookLending(t)
	// A past date stored without zero padding must be repaired, not rejected.
	seed(t, s, &Document{Books: []Book{{
		ISBN: "bad-date", Title: "X", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: strPtr("2025-1-3"), BorrowedBy: intPtr(1)},
	}}})

	got, err := svc.OverdueBooksForUser(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bad-date", got[0].ISBN)
}
