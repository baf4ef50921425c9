package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"library-system/library"
)

// session tracks the logged-in user for the duration of a role menu.
type session struct {
	user   library.User
	active bool
}

func (s *session) login(u library.User) { s.user, s.active = u, true }
func (s *session) logout()              { s.active = false }

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func promptLine(sc *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func promptInt(sc *bufio.Scanner, prompt string) int {
	n, err := strconv.Atoi(promptLine(sc, prompt))
	if err != nil {
		return -1
	}
	return n
}

func promptFloat(sc *bufio.Scanner, prompt string) float64 {
	f, err := strconv.ParseFloat(promptLine(sc, prompt), 64)
	if err != nil {
		return 0
	}
	return f
}

// errMessage maps domain errors to the specific, actionable message each
// guard deserves.
func errMessage(err error) string {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return "Item or user not found."
	case errors.Is(err, library.ErrOutOfStock):
		return "Item is out of stock."
	case errors.Is(err, library.ErrAlreadyBorrowed):
		return "This item is already borrowed."
	case errors.Is(err, library.ErrUnpaidFine):
		return "You have unpaid fines. Pay them before borrowing."
	case errors.Is(err, library.ErrOverdueLoan):
		return "You have overdue items. Return them before borrowing."
	case errors.Is(err, library.ErrForbidden):
		return "Only administrators can do that."
	case errors.Is(err, library.ErrCannotDeleteAdmin):
		return "You cannot unregister an admin account."
	case errors.Is(err, library.ErrHasActiveLoans):
		return "Cannot unregister user: they have active loans."
	case errors.Is(err, library.ErrHasUnpaidFines):
		return "Cannot unregister user: they have unpaid fines."
	case errors.Is(err, library.ErrInvalidCredentials):
		return "Login failed: wrong username or password."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func loginFlow(sc *bufio.Scanner, mgr *library.Manager) {
	username := promptLine(sc, "Enter username: ")
	password, err := readPassword("Enter password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	user, err := mgr.Access.Login(username, password)
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("Login successful (%s)\n", user.Username)

	sess := &session{}
	sess.login(user)
	defer sess.logout()

	switch user.Role {
	case library.RoleAdmin:
		adminMenu(sc, mgr, sess)
	case library.RoleLibrarian:
		librarianMenu(sc, mgr, sess)
	case library.RoleClient:
		clientMenu(sc, mgr, sess)
	default:
		fmt.Println("Unknown role. Logging out...")
	}
}

func adminMenu(sc *bufio.Scanner, mgr *library.Manager, sess *session) {
	for sess.active {
		fmt.Println("\n===== Admin Menu =====")
		fmt.Println("1) Add Librarian")
		fmt.Println("2) Add Book")
		fmt.Println("3) Search Book")
		fmt.Println("4) Show All Books")
		fmt.Println("5) Unregister User")
		fmt.Println("6) Logout")

		switch promptInt(sc, "Choose: ") {
		case 1:
			handleAddLibrarian(sc, mgr, sess.user)
		case 2:
			handleAddBook(sc, mgr)
		case 3:
			handleSearchBook(sc, mgr)
		case 4:
			showAllBooks(mgr)
		case 5:
			handleUnregister(sc, mgr, sess.user)
		case 6:
			return
		default:
			fmt.Println("Invalid option!")
		}
	}
}

func librarianMenu(sc *bufio.Scanner, mgr *library.Manager, sess *session) {
	for sess.active {
		fmt.Println("\n===== Librarian Menu =====")
		fmt.Println("1) Add Book")
		fmt.Println("2) Add CD")
		fmt.Println("3) Search Book")
		fmt.Println("4) Show All Books")
		fmt.Println("5) Show All CDs")
		fmt.Println("6) Check Overdue Media (Books + CDs)")
		fmt.Println("7) Send Overdue Reminders")
		fmt.Println("8) Logout")

		switch promptInt(sc, "Choose: ") {
		case 1:
			handleAddBook(sc, mgr)
		case 2:
			handleAddCD(sc, mgr)
		case 3:
			handleSearchBook(sc, mgr)
		case 4:
			showAllBooks(mgr)
		case 5:
			showAllCDs(mgr)
		case 6:
			handleCheckOverdue(mgr)
		case 7:
			handleSendReminders(mgr)
		case 8:
			return
		default:
			fmt.Println("Invalid option!")
		}
	}
}

func clientMenu(sc *bufio.Scanner, mgr *library.Manager, sess *session) {
	for sess.active {
		fmt.Println("\n===== Client Menu =====")
		fmt.Println("1) Search Book")
		fmt.Println("2) Search CD")
		fmt.Println("3) Show All Books")
		fmt.Println("4) Show All CDs")
		fmt.Println("5) Borrow Book")
		fmt.Println("6) Borrow CD")
		fmt.Println("7) Pay Fine")
		fmt.Println("8) Show Total Fine")
		fmt.Println("9) Logout")

		switch promptInt(sc, "Choose: ") {
		case 1:
			handleSearchBook(sc, mgr)
		case 2:
			handleSearchCD(sc, mgr)
		case 3:
			showAllBooks(mgr)
		case 4:
			showAllCDs(mgr)
		case 5:
			handleBorrowBook(sc, mgr, sess.user)
		case 6:
			handleBorrowCD(sc, mgr, sess.user)
		case 7:
			handlePayFine(sc, mgr)
		case 8:
			showTotalFine(mgr, sess.user)
		case 9:
			return
		default:
			fmt.Println("Invalid option!")
		}
	}
}

func handleAddLibrarian(sc *bufio.Scanner, mgr *library.Manager, current library.User) {
	username := promptLine(sc, "Enter librarian username: ")
	password, err := readPassword("Enter password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	email := promptLine(sc, "Enter email: ")

	u := library.User{Username: username, Password: password, Role: library.RoleLibrarian, Email: email}
	if err := mgr.Access.AddUser(u, current); err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("Librarian '%s' added successfully!\n", username)
}

func handleAddBook(sc *bufio.Scanner, mgr *library.Manager) {
	isbn := promptLine(sc, "Enter ISBN: ")

	if existing, err := mgr.Books.FindByISBN(isbn); err == nil {
		fmt.Println("\nBook already exists:")
		fmt.Printf("Title: %s\nAuthor: %s\nQuantity: %d\n", existing.Title, existing.Author, existing.Quantity)
		fmt.Println("\nOptions:")
		fmt.Println("1) Increase quantity")
		fmt.Println("2) Cancel")

		if promptInt(sc, "Choose: ") == 1 {
			n := promptInt(sc, "Copies to add: ")
			if n <= 0 {
				fmt.Println("Invalid quantity!")
				return
			}
			if err := mgr.Books.IncreaseQuantity(isbn, n); err != nil {
				fmt.Println(errMessage(err))
				return
			}
			fmt.Println("Quantity updated!")
		}
		return
	}

	title := promptLine(sc, "Enter title: ")
	author := promptLine(sc, "Enter author: ")
	qty := promptInt(sc, "Enter quantity: ")
	if qty < 0 {
		fmt.Println("Invalid quantity!")
		return
	}

	if err := mgr.Books.AddBook(library.Book{Title: title, Author: author, ISBN: isbn, Quantity: qty}); err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Println("Book added successfully!")
}

func handleAddCD(sc *bufio.Scanner, mgr *library.Manager) {
	id := promptLine(sc, "Enter CD ID: ")
	title := promptLine(sc, "Enter CD title: ")
	artist := promptLine(sc, "Enter artist name: ")
	qty := promptInt(sc, "Enter quantity: ")
	if qty < 0 {
		fmt.Println("Invalid quantity!")
		return
	}

	if err := mgr.CDs.AddCD(library.CD{ID: id, Title: title, Artist: artist, Quantity: qty}); err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Println("CD added successfully!")
}

func handleSearchBook(sc *bufio.Scanner, mgr *library.Manager) {
	fmt.Println("\nSearch Book by:")
	fmt.Println("1) ISBN")
	fmt.Println("2) Title")
	fmt.Println("3) Author")

	var (
		books []library.Book
		err   error
	)
	switch promptInt(sc, "Choose: ") {
	case 1:
		var b library.Book
		b, err = mgr.Books.FindByISBN(promptLine(sc, "Enter ISBN: "))
		if err == nil {
			books = []library.Book{b}
		} else if errors.Is(err, library.ErrNotFound) {
			err = nil
		}
	case 2:
		books, err = mgr.Books.SearchByTitle(promptLine(sc, "Enter title: "))
	case 3:
		books, err = mgr.Books.SearchByAuthor(promptLine(sc, "Enter author: "))
	default:
		fmt.Println("Invalid choice!")
		return
	}
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	printBooks(books)
}

func handleSearchCD(sc *bufio.Scanner, mgr *library.Manager) {
	id := promptLine(sc, "Enter CD ID: ")
	cd, err := mgr.CDs.FindByID(id)
	if errors.Is(err, library.ErrNotFound) {
		printCDs(nil)
		return
	}
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	printCDs([]library.CD{cd})
}

func showAllBooks(mgr *library.Manager) {
	books, err := mgr.Books.AllBooks()
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	printBooks(books)
}

func showAllCDs(mgr *library.Manager) {
	cds, err := mgr.CDs.AllCDs()
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	printCDs(cds)
}

func handleBorrowBook(sc *bufio.Scanner, mgr *library.Manager, user library.User) {
	isbn := promptLine(sc, "Enter ISBN to borrow: ")
	due, err := mgr.Books.Borrow(isbn, user)
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("Borrowed! Due date: %s\n", library.FormatDate(due))
}

func handleBorrowCD(sc *bufio.Scanner, mgr *library.Manager, user library.User) {
	id := promptLine(sc, "Enter CD ID to borrow: ")
	due, err := mgr.CDs.Borrow(id, user)
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("CD borrowed! Due date: %s\n", library.FormatDate(due))
}

func handlePayFine(sc *bufio.Scanner, mgr *library.Manager) {
	fmt.Println("\nPay fine for:")
	fmt.Println("1) Book")
	fmt.Println("2) CD")

	var (
		res library.PaymentResult
		err error
	)
	switch promptInt(sc, "Choose: ") {
	case 1:
		isbn := promptLine(sc, "Enter ISBN: ")
		res, err = mgr.Books.PayFine(isbn, promptFloat(sc, "Enter amount to pay: "))
	case 2:
		id := promptLine(sc, "Enter CD ID: ")
		res, err = mgr.CDs.PayFine(id, promptFloat(sc, "Enter amount to pay: "))
	default:
		fmt.Println("Invalid choice!")
		return
	}
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	switch res.Status {
	case library.PaymentCleared:
		fmt.Println("Fine fully paid!")
	case library.PaymentPartial:
		fmt.Printf("Remaining fine: %.2f\n", res.Remaining)
	case library.PaymentNoFineDue:
		fmt.Println("No fine to pay.")
	}
}

func showTotalFine(mgr *library.Manager, user library.User) {
	books, cds, total, err := mgr.TotalFineForUser(user.UserID())
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Println("\n===== Total Media Fines =====")
	fmt.Printf("Books Fine: %.2f NIS\n", books)
	fmt.Printf("CDs Fine: %.2f NIS\n", cds)
	fmt.Println("----------------------------")
	fmt.Printf("Total Fine: %.2f NIS\n", total)
}

func handleCheckOverdue(mgr *library.Manager) {
	fmt.Println("\nRunning overdue detection...")
	fined, err := mgr.DetectOverdueMedia()
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("Overdue detection completed for Books + CDs (%d item(s) fined).\n", fined)
}

func handleSendReminders(mgr *library.Manager) {
	reminded, err := mgr.SendReminders()
	if err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("Reminders sent to %d user(s) with overdue items.\n", reminded)
}

func handleUnregister(sc *bufio.Scanner, mgr *library.Manager, current library.User) {
	username := promptLine(sc, "Enter username to unregister: ")
	if err := mgr.Access.UnregisterUser(username, current); err != nil {
		fmt.Println(errMessage(err))
		return
	}
	fmt.Printf("User '%s' has been unregistered successfully.\n", username)
}

func printBooks(books []library.Book) {
	fmt.Println("\n===== Books =====")
	if len(books) == 0 {
		fmt.Println("No books found.")
		return
	}
	for _, b := range books {
		status := "available"
		if !b.Available {
			status = "out of stock"
		}
		fmt.Printf("- %s | %s | ISBN: %s | Qty: %d | %s\n", b.Title, b.Author, b.ISBN, b.Quantity, status)
	}
}

func printCDs(cds []library.CD) {
	fmt.Println("\n===== CDs =====")
	if len(cds) == 0 {
		fmt.Println("No CDs found.")
		return
	}
	for _, c := range cds {
		status := "available"
		if !c.Available {
			status = "out of stock"
		}
		fmt.Printf("- %s | %s | %s | Qty: %d | %s\n", c.ID, c.Title, c.Artist, c.Quantity, status)
	}
}
