package library

import "errors"

// Sentinel errors for domain-rule violations. These are expected outcomes of
// normal use: callers discriminate with errors.Is and render a specific
// message for each. Only wrapped I/O errors from the Store are fatal.
var (
	// ErrNotFound indicates an item or user lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock indicates the row has no copies left to lend.
	ErrOutOfStock = errors.New("out of stock")

	// ErrAlreadyBorrowed indicates the row already carries an outstanding loan.
	ErrAlreadyBorrowed = errors.New("already borrowed")

	// ErrUnpaidFine blocks borrowing while the user owes a fine on any held item.
	ErrUnpaidFine = errors.New("unpaid fine")

	// ErrOverdueLoan blocks borrowing while the user holds a past-due item.
	ErrOverdueLoan = errors.New("overdue loan outstanding")

	// ErrForbidden indicates a non-admin attempted an admin-only action.
	ErrForbidden = errors.New("forbidden")

	// ErrCannotDeleteAdmin protects admin accounts from unregistration.
	ErrCannotDeleteAdmin = errors.New("cannot delete admin account")

	// ErrHasActiveLoans blocks unregistering a user with items on loan.
	ErrHasActiveLoans = errors.New("user has active loans")

	// ErrHasUnpaidFines blocks unregistering a user owing fines.
	ErrHasUnpaidFines = errors.New("user has unpaid fines")

	// ErrInvalidCredentials indicates a failed username/password match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
