package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminders(t *testing.T, notifiers ...Notifier) (*ReminderService, *Store) {
	t.Helper()
	s := tempStore(t)
	books := NewBookLending(s, DefaultConfig(), nil)
	cds := NewCDLending(s, DefaultConfig(), nil)
	return NewReminderService(books, cds, notifiers, nil), s
}

func TestSendReminderFansOut(t *testing.T) {
	var calls []string
	rec := NotifierFunc(func(u User, msg string) {
		calls = append(calls, u.Username+": "+msg)
	})

	svc, s := newReminders(t, rec, rec)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "Late", Author: "A", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-3), BorrowedBy: intPtr(5)},
	}}})

	require.NoError(t, svc.SendReminder(client(5)))

	// Both subscribers got the same summary.
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "ISBN 111")
	assert.Contains(t, calls[0], "1 overdue item(s)")
	assert.Equal(t, calls[0], calls[1])
}

func TestSendReminderSkipsUsersWithNothingOverdue(t *testing.T) {
	called := false
	svc, s := newReminders(t, NotifierFunc(func(User, string) { called = true }))
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "On time", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(10), BorrowedBy: intPtr(5)},
	}}})

	require.NoError(t, svc.SendReminder(client(5)))
	assert.False(t, called)
}

func TestReportCoversBooksAndCDs(t *testing.T) {
	svc, s := newReminders(t)
	seed(t, s, &Document{
		Books: []Book{{ISBN: "111", Title: "Late Book", Author: "A", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-2), BorrowedBy: intPtr(5)}}},
		CDs: []CD{{ID: "CD-1", Title: "Late CD", Artist: "B", Quantity: 0, Available: false,
			LoanState: LoanState{Borrowed: true, DueDate: dateStr(-1), BorrowedBy: intPtr(5)}}},
	})

	report, err := svc.ReportForUser(client(5))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count())

	summary := report.Summary()
	assert.Contains(t, summary, "Late Book")
	assert.Contains(t, summary, "Late CD")
}

func TestSendRemindersToAllUsersCounts(t *testing.T) {
	svc, s := newReminders(t)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "Late", Author: "A", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-2), BorrowedBy: intPtr(1)},
	}}})

	u1 := User{ID: intPtr(1), Username: "a", Password: "x", Role: RoleClient, Email: "u1@mail.com"}
	u2 := User{ID: intPtr(2), Username: "b", Password: "x", Role: RoleClient, Email: "u2@mail.com"}

	sender := NewMemorySender()
	reminded, err := svc.SendRemindersToAllUsers([]User{u1, u2}, sender)
	require.NoError(t, err)
	assert.Equal(t, 1, reminded)

	require.Len(t, sender.Sent(), 1)
	assert.True(t, strings.HasPrefix(sender.Sent()[0], "TO: u1@mail.com"))
}

func TestSendRemindersToAllUsersNotifiesSubscribers(t *testing.T) {
	var notified []string
	rec := NotifierFunc(func(u User, msg string) {
		notified = append(notified, u.Username+": "+msg)
	})

	svc, s := newReminders(t, rec)
	seed(t, s, &Document{Books: []Book{{
		ISBN: "111", Title: "Late", Author: "A", Quantity: 0, Available: false,
		LoanState: LoanState{Borrowed: true, DueDate: dateStr(-2), BorrowedBy: intPtr(1)},
	}}})

	u1 := User{ID: intPtr(1), Username: "a", Password: "x", Role: RoleClient, Email: "u1@mail.com"}
	u2 := User{ID: intPtr(2), Username: "b", Password: "x", Role: RoleClient, Email: "u2@mail.com"}

	sender := NewMemorySender()
	reminded, err := svc.SendRemindersToAllUsers([]User{u1, u2}, sender)
	require.NoError(t, err)
	assert.Equal(t, 1, reminded)

	// The subscriber saw the same summary the email carried.
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0], "a: ")
	assert.Contains(t, notified[0], "ISBN 111")
	require.Len(t, sender.Sent(), 1)
	assert.Contains(t, sender.Sent()[0], "ISBN 111")
}

func TestMemorySenderRecordsEntries(t *testing.T) {
	m := NewMemorySender()
	require.NoError(t, m.SendEmail("user@mail.com", "Hello", "Test message"))

	require.Len(t, m.Sent(), 1)
	assert.Contains(t, m.Sent()[0], "user@mail.com")
	assert.Contains(t, m.Sent()[0], "Test message")
}

func TestReminderHTMLEscapesNewlines(t *testing.T) {
	html := reminderHTML("line one\nline two")
	assert.Contains(t, html, "line one<br>line two")
	assert.Contains(t, html, "Library Reminder")
}
