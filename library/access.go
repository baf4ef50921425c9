package library

import (
	"go.uber.org/zap"
)

// placeholderEmail fills in for legacy user rows that predate the email field.
const placeholderEmail = "unknown@mail.com"

// AccessControl handles login and user administration against the store.
type AccessControl struct {
	store *Store
	log   *zap.Logger
}

func NewAccessControl(store *Store, log *zap.Logger) *AccessControl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccessControl{store: store, log: log}
}

// Login matches the credentials against stored users, first exact hit wins.
// Comparison is case-sensitive plaintext; there is no lockout or rate
// limiting. Missing ids and emails on legacy rows get their defaults.
func (a *AccessControl) Login(username, password string) (User, error) {
	doc, err := a.store.Load()
	if err != nil {
		return User{}, err
	}
	for _, u := range doc.Users {
		if u.Username == username && u.Password == password {
			if u.Email == "" {
				u.Email = placeholderEmail
			}
			a.log.Info("login succeeded",
				zap.String("username", u.Username),
				zap.String("role", string(u.Role)),
			)
			return u, nil
		}
	}
	a.log.Info("login failed", zap.String("username", username))
	return User{}, ErrInvalidCredentials
}

// AllUsers returns every stored user row.
func (a *AccessControl) AllUsers() ([]User, error) {
	doc, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	var out []User
	out = append(out, doc.Users...)
	return out, nil
}

// AddUser appends a user row, assigning the next free id when the row has
// none. Only admins may add librarians.
func (a *AccessControl) AddUser(u User, requester User) error {
	if u.Role != RoleClient && !requester.IsAdmin() {
		return ErrForbidden
	}
	doc, err := a.store.Load()
	if err != nil {
		return err
	}
	if u.ID == nil {
		next := 1
		for _, existing := range doc.Users {
			if existing.HasID() && existing.UserID() >= next {
				next = existing.UserID() + 1
			}
		}
		u.ID = &next
	}
	doc.Users = append(doc.Users, u)
	return a.store.Save(doc)
}

// UnregisterUser permanently removes a non-admin user. Guards run in order,
// first failure wins: only admins may delete, the target must exist and not
// be an admin, and a target with an id must hold no active loans and owe no
// fines across books and CDs. Removal is by index and preserves the relative
// order of the remaining rows.
func (a *AccessControl) UnregisterUser(targetUsername string, requester User) error {
	if !requester.IsAdmin() {
		return ErrForbidden
	}

	doc, err := a.store.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i, u := range doc.Users {
		if u.Username == targetUsername {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	target := doc.Users[idx]
	if target.IsAdmin() {
		return ErrCannotDeleteAdmin
	}

	if target.HasID() {
		for _, rows := range [][]Lendable{bookRows(doc), cdRows(doc)} {
			for _, r := range rows {
				ln := r.Loan()
				if ln.Owner() != target.UserID() {
					continue
				}
				if ln.Borrowed {
					return ErrHasActiveLoans
				}
				if ln.Fine > 0 {
					return ErrHasUnpaidFines
				}
			}
		}
	}

	doc.Users = append(doc.Users[:idx], doc.Users[idx+1:]...)
	if err := a.store.Save(doc); err != nil {
		return err
	}
	a.log.Info("user unregistered", zap.String("username", targetUsername))
	return nil
}
