package library

import (
	"go.uber.org/zap"
)

// Manager is a thin façade over the store and services, keeping CLI code
// simple: the menu layer talks to one object.
type Manager struct {
	Store     *Store
	Books     *BookLending
	CDs       *CDLending
	Access    *AccessControl
	Reminders *ReminderService
	Mailer    EmailSender
}

// NewManager opens (or creates) the JSON database at dbPath and wires every
// service against it. Notifiers are the explicit subscriber list for the
// reminder sweep; mailer delivers the reminder emails (a MemorySender when no
// relay is configured).
func NewManager(dbPath string, cfg Config, mailer EmailSender, notifiers []Notifier, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	books := NewBookLending(store, cfg, log)
	cds := NewCDLending(store, cfg, log)

	return &Manager{
		Store:     store,
		Books:     books,
		CDs:       cds,
		Access:    NewAccessControl(store, log),
		Reminders: NewReminderService(books, cds, notifiers, log),
		Mailer:    mailer,
	}, nil
}

// TotalFineForUser sums the user's fines across books and CDs.
func (m *Manager) TotalFineForUser(userID int) (books, cds, total float64, err error) {
	books, err = m.Books.TotalFineForUser(userID)
	if err != nil {
		return 0, 0, 0, err
	}
	cds, err = m.CDs.TotalFineForUser(userID)
	if err != nil {
		return 0, 0, 0, err
	}
	return books, cds, books + cds, nil
}

// DetectOverdueMedia runs overdue detection across both collections.
func (m *Manager) DetectOverdueMedia() (int, error) {
	booksFined, err := m.Books.DetectOverdue()
	if err != nil {
		return 0, err
	}
	cdsFined, err := m.CDs.DetectOverdue()
	if err != nil {
		return booksFined, err
	}
	return booksFined + cdsFined, nil
}

// SendReminders emails every stored user with overdue items and returns the
// count of users reminded.
func (m *Manager) SendReminders() (int, error) {
	users, err := m.Access.AllUsers()
	if err != nil {
		return 0, err
	}
	return m.Reminders.SendRemindersToAllUsers(users, m.Mailer)
}
