package library

import (
	"fmt"
	"strings"
	"time"
)

// Role gates menu access; it carries no data-ownership semantics.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleClient    Role = "client"
)

// User represents a registered account. Passwords are stored and compared in
// plaintext, which mirrors the persisted document contract; this is a known
// limitation of the system, not an oversight.
type User struct {
	ID       *int   `json:"id,omitempty"` // legacy admin/librarian rows have no id
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Email    string `json:"email,omitempty"`
}

// UserID returns the numeric id, or -1 for legacy rows without one.
func (u User) UserID() int {
	if u.ID == nil {
		return -1
	}
	return *u.ID
}

func (u User) HasID() bool { return u.ID != nil }

func (u User) IsAdmin() bool { return strings.EqualFold(string(u.Role), string(RoleAdmin)) }

// LoanState tracks the single outstanding loan a catalog row can carry.
// DueDate stays a raw string because historical documents contain the literal
// "null" and non-zero-padded dates; both are repaired on read, never rejected.
type LoanState struct {
	Borrowed   bool    `json:"borrowed"`
	DueDate    *string `json:"dueDate"`
	Fine       float64 `json:"fine"`
	BorrowedBy *int    `json:"borrowedBy"`
}

// Owner returns the borrowing user's id, or -1 when the row is not on loan.
func (l *LoanState) Owner() int {
	if l.BorrowedBy == nil {
		return -1
	}
	return *l.BorrowedBy
}

// DueOn parses the due date, repairing sloppy formats first. The second
// return is false when no usable due date is present.
func (l *LoanState) DueOn() (time.Time, bool) {
	if l.DueDate == nil || *l.DueDate == "" || *l.DueDate == "null" {
		return time.Time{}, false
	}
	d, err := ParseDate(*l.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (l *LoanState) setBorrowed(userID int, due time.Time) {
	s := FormatDate(due)
	l.Borrowed = true
	l.DueDate = &s
	l.Fine = 0
	l.BorrowedBy = &userID
}

// Book represents one catalog row for a title. Quantity counts physical
// copies in stock; the loan state tracks at most one outstanding loan.
type Book struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
	LoanState
}

func (b *Book) Key() string      { return b.ISBN }
func (b *Book) Label() string    { return fmt.Sprintf("%s by %s (ISBN %s)", b.Title, b.Author, b.ISBN) }
func (b *Book) InStock() bool    { return b.Available }
func (b *Book) Loan() *LoanState { return &b.LoanState }

// TakeCopy removes one copy from stock, flipping availability at zero.
func (b *Book) TakeCopy() {
	b.Quantity--
	if b.Quantity <= 0 {
		b.Quantity = 0
		b.Available = false
	}
}

// AddCopies restocks a row and restores availability.
func (b *Book) AddCopies(n int) {
	b.Quantity += n
	if b.Quantity > 0 {
		b.Available = true
	}
}

// CD represents one catalog row for a compact disc.
type CD struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
	LoanState
}

func (c *CD) Key() string      { return c.ID }
func (c *CD) Label() string    { return fmt.Sprintf("%s by %s (CD %s)", c.Title, c.Artist, c.ID) }
func (c *CD) InStock() bool    { return c.Available }
func (c *CD) Loan() *LoanState { return &c.LoanState }

func (c *CD) TakeCopy() {
	c.Quantity--
	if c.Quantity <= 0 {
		c.Quantity = 0
		c.Available = false
	}
}

func (c *CD) AddCopies(n int) {
	c.Quantity += n
	if c.Quantity > 0 {
		c.Available = true
	}
}

// Lendable is the shared surface of Book and CD rows that the lending
// algorithm operates on.
type Lendable interface {
	Key() string
	Label() string
	InStock() bool
	TakeCopy()
	Loan() *LoanState
}

// Document is the aggregate root persisted as a single JSON file. Every
// collection is always present, even when empty.
type Document struct {
	Users []User `json:"users"`
	Books []Book `json:"books"`
	CDs   []CD   `json:"cds"`
}

// normalize guarantees non-nil collections so a saved document always
// contains all three arrays.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Books == nil {
		d.Books = []Book{}
	}
	if d.CDs == nil {
		d.CDs = []CD{}
	}
}

const dateLayout = "2006-01-02"

// NormalizeDate zero-pads sloppy ISO dates such as "2025-1-3" so they parse.
// Anything that does not look like year-month-day passes through unchanged.
func NormalizeDate(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return s
	}
	for i := 1; i < 3; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "-")
}

// ParseDate parses an ISO calendar date, repairing the format first.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, NormalizeDate(s))
}

// FormatDate renders a calendar date the way the document stores it.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// Today returns the current calendar date, truncated to midnight UTC so that
// day arithmetic against stored due dates is exact.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b (negative when b is
// earlier).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
