package library

import "strings"

// Catalog operations. Rows are never deleted; adding an existing identifier
// goes through IncreaseQuantity instead of inserting a duplicate.

// AddBook appends a new catalog row. Loan state always starts clean and
// availability is derived from the initial quantity.
func (s *BookLending) AddBook(b Book) error {
	doc, err := s.core.store.Load()
	if err != nil {
		return err
	}
	b.LoanState = LoanState{}
	b.Available = b.Quantity > 0
	doc.Books = append(doc.Books, b)
	return s.core.store.Save(doc)
}

// IncreaseQuantity restocks an existing row by n copies.
func (s *BookLending) IncreaseQuantity(isbn string, n int) error {
	doc, err := s.core.store.Load()
	if err != nil {
		return err
	}
	target := s.core.find(doc, isbn)
	if target == nil {
		return ErrNotFound
	}
	target.(*Book).AddCopies(n)
	return s.core.store.Save(doc)
}

// FindByISBN returns the row with the exact ISBN.
func (s *BookLending) FindByISBN(isbn string) (Book, error) {
	doc, err := s.core.store.Load()
	if err != nil {
		return Book{}, err
	}
	if target := s.core.find(doc, isbn); target != nil {
		return *target.(*Book), nil
	}
	return Book{}, ErrNotFound
}

// SearchByTitle matches titles by case-insensitive substring.
func (s *BookLending) SearchByTitle(q string) ([]Book, error) {
	return s.searchBooks(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Title), strings.ToLower(q))
	})
}

// SearchByAuthor matches authors by case-insensitive substring.
func (s *BookLending) SearchByAuthor(q string) ([]Book, error) {
	return s.searchBooks(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Author), strings.ToLower(q))
	})
}

// AllBooks returns every catalog row.
func (s *BookLending) AllBooks() ([]Book, error) {
	return s.searchBooks(func(Book) bool { return true })
}

func (s *BookLending) searchBooks(match func(Book) bool) ([]Book, error) {
	doc, err := s.core.store.Load()
	if err != nil {
		return nil, err
	}
	var out []Book
	for _, b := range doc.Books {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// AddCD appends a new CD row with clean loan state.
func (s *CDLending) AddCD(c CD) error {
	doc, err := s.core.store.Load()
	if err != nil {
		return err
	}
	c.LoanState = LoanState{}
	c.Available = c.Quantity > 0
	doc.CDs = append(doc.CDs, c)
	return s.core.store.Save(doc)
}

// IncreaseQuantity restocks an existing CD row by n copies.
func (s *CDLending) IncreaseQuantity(id string, n int) error {
	doc, err := s.core.store.Load()
	if err != nil {
		return err
	}
	target := s.core.find(doc, id)
	if target == nil {
		return ErrNotFound
	}
	target.(*CD).AddCopies(n)
	return s.core.store.Save(doc)
}

// FindByID returns the CD row with the exact id.
func (s *CDLending) FindByID(id string) (CD, error) {
	doc, err := s.core.store.Load()
	if err != nil {
		return CD{}, err
	}
	if target := s.core.find(doc, id); target != nil {
		return *target.(*CD), nil
	}
	return CD{}, ErrNotFound
}

// AllCDs returns every CD row.
func (s *CDLending) AllCDs() ([]CD, error) {
	doc, err := s.core.store.Load()
	if err != nil {
		return nil, err
	}
	var out []CD
	out = append(out, doc.CDs...)
	return out, nil
}
