package library

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Notifier receives overdue summaries for a user. Implementations deliver
// however they like; the reminder sweep never inspects the outcome.
type Notifier interface {
	Notify(user User, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(User, string)

func (f NotifierFunc) Notify(u User, message string) { f(u, message) }

// OverdueReport summarizes one user's overdue items across both collections.
type OverdueReport struct {
	User  User
	Books []Book
	CDs   []CD
}

func (r OverdueReport) Count() int { return len(r.Books) + len(r.CDs) }

// Summary renders the report as a plain-text reminder message.
func (r OverdueReport) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d overdue item(s):\n", r.Count())
	for _, b := range r.Books {
		due := "unknown"
		if d, ok := b.DueOn(); ok {
			due = FormatDate(d)
		}
		fmt.Fprintf(&sb, "- %s, due %s\n", b.Label(), due)
	}
	for _, c := range r.CDs {
		due := "unknown"
		if d, ok := c.DueOn(); ok {
			due = FormatDate(d)
		}
		fmt.Fprintf(&sb, "- %s, due %s\n", c.Label(), due)
	}
	return sb.String()
}

// ReminderService drives overdue reminders. Subscribers are passed in
// explicitly at construction; the service knows nothing about how they
// deliver.
type ReminderService struct {
	books     *BookLending
	cds       *CDLending
	notifiers []Notifier
	log       *zap.Logger
}

func NewReminderService(books *BookLending, cds *CDLending, notifiers []Notifier, log *zap.Logger) *ReminderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderService{books: books, cds: cds, notifiers: notifiers, log: log}
}

// ReportForUser collects the user's overdue books and CDs.
func (r *ReminderService) ReportForUser(u User) (OverdueReport, error) {
	books, err := r.books.OverdueBooksForUser(u.UserID())
	if err != nil {
		return OverdueReport{}, err
	}
	cds, err := r.cds.OverdueCDsForUser(u.UserID())
	if err != nil {
		return OverdueReport{}, err
	}
	return OverdueReport{User: u, Books: books, CDs: cds}, nil
}

// SendReminder fans an overdue summary out to every subscriber. Users with
// nothing overdue get no notification.
func (r *ReminderService) SendReminder(u User) error {
	report, err := r.ReportForUser(u)
	if err != nil {
		return err
	}
	if report.Count() == 0 {
		return nil
	}
	msg := report.Summary()
	for _, n := range r.notifiers {
		n.Notify(u, msg)
	}
	return nil
}

// SendRemindersToAllUsers walks the caller-supplied user list, fans each
// overdue summary out to the subscriber list, emails the user, and returns
// how many users were reminded. Delivery failures are logged, not retried:
// email is a best-effort collaborator.
func (r *ReminderService) SendRemindersToAllUsers(users []User, sender EmailSender) (int, error) {
	reminded := 0
	for _, u := range users {
		report, err := r.ReportForUser(u)
		if err != nil {
			return reminded, err
		}
		if report.Count() == 0 {
			continue
		}
		reminded++
		msg := report.Summary()
		for _, n := range r.notifiers {
			n.Notify(u, msg)
		}
		if err := sender.SendEmail(u.Email, "Library overdue reminder", msg); err != nil {
			r.log.Warn("reminder email failed",
				zap.String("to", u.Email),
				zap.Error(err),
			)
		}
	}
	r.log.Info("reminder sweep complete", zap.Int("reminded", reminded))
	return reminded, nil
}
