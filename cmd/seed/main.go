// Command seed wipes the library database and loads sample users, books and
// CDs for manual testing.
package main

import (
	"fmt"
	"os"

	"library-system/library"
)

func main() {
	dbPath := "library.json"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	fmt.Printf("Resetting database at %s...\n", dbPath)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", dbPath, err)
	}

	mgr, err := library.NewManager(dbPath, library.DefaultConfig(), library.NewMemorySender(), nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}

	// Legacy-style admin and librarian rows carry no id, matching documents
	// produced before client ids existed.
	admin := library.User{Username: "admin", Password: "admin123", Role: library.RoleAdmin, Email: "admin@library.local"}
	doc, err := mgr.Store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading database: %v\n", err)
		os.Exit(1)
	}
	doc.Users = append(doc.Users,
		admin,
		library.User{Username: "librarian", Password: "lib123", Role: library.RoleLibrarian, Email: "librarian@library.local"},
	)
	if err := mgr.Store.Save(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving database: %v\n", err)
		os.Exit(1)
	}

	clients := []struct {
		username, password, email string
	}{
		{"dima", "dima123", "dima@mail.com"},
		{"asmaa", "asmaa123", "asmaa@mail.com"},
		{"omar", "omar123", "omar@mail.com"},
	}
	for _, c := range clients {
		u := library.User{Username: c.username, Password: c.password, Role: library.RoleClient, Email: c.email}
		if err := mgr.Access.AddUser(u, admin); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding client %s: %v\n", c.username, err)
			os.Exit(1)
		}
	}

	books := []library.Book{
		{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Quantity: 3},
		{Title: "Animal Farm", Author: "George Orwell", ISBN: "9780452284241", Quantity: 2},
		{Title: "The Art of War", Author: "Sun Tzu", ISBN: "9781590302255", Quantity: 1},
		{Title: "Romeo and Juliet", Author: "William Shakespeare", ISBN: "9780743477116", Quantity: 2},
		{Title: "The Three Musketeers", Author: "Alexandre Dumas", ISBN: "9780140367470", Quantity: 1},
	}
	for _, b := range books {
		if err := mgr.Books.AddBook(b); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding book %s: %v\n", b.ISBN, err)
			os.Exit(1)
		}
	}

	cds := []library.CD{
		{ID: "CD-001", Title: "Kind of Blue", Artist: "Miles Davis", Quantity: 2},
		{ID: "CD-002", Title: "Abbey Road", Artist: "The Beatles", Quantity: 1},
		{ID: "CD-003", Title: "Thriller", Artist: "Michael Jackson", Quantity: 2},
	}
	for _, c := range cds {
		if err := mgr.CDs.AddCD(c); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding CD %s: %v\n", c.ID, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seed complete: %d users, %d books, %d CDs.\n", 2+len(clients), len(books), len(cds))
}
