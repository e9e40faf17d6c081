package models

import (
	"time"

	"github.com/google/uuid"
)

// Author of one or more books.
type Author struct {
	ID          uuid.UUID
	FirstName   string
	FamilyName  string
	DateOfBirth *time.Time
	DateOfDeath *time.Time
}

// Name is the display form used in lists and book pages.
func (a Author) Name() string {
	if a.FirstName == "" && a.FamilyName == "" {
		return ""
	}
	return a.FirstName + " " + a.FamilyName
}

// Lifespan renders "1920 - 1992" style dates for detail pages.
func (a Author) Lifespan() string {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	}
	return format(a.DateOfBirth) + " - " + format(a.DateOfDeath)
}

// Genre categorizes books.
type Genre struct {
	ID   uuid.UUID
	Name string
}

// Book is the catalog entry; physical items are Copies.
type Book struct {
	ID       uuid.UUID
	Title    string
	AuthorID uuid.UUID
	Summary  string
	ISBN     string
	GenreIDs []uuid.UUID
}

// CopyStatus tracks where a physical copy is.
type CopyStatus string

const (
	StatusAvailable   CopyStatus = "Available"
	StatusOnLoan      CopyStatus = "On loan"
	StatusMaintenance CopyStatus = "Maintenance"
	StatusReserved    CopyStatus = "Reserved"
)

// CopyStatuses lists the valid states for form validation and selects.
func CopyStatuses() []string {
	return []string{
		string(StatusAvailable),
		string(StatusOnLoan),
		string(StatusMaintenance),
		string(StatusReserved),
	}
}

// Copy is a physical book instance on the shelves.
type Copy struct {
	ID      uuid.UUID
	BookID  uuid.UUID
	Imprint string
	Status  CopyStatus
	DueBack *time.Time
}

// HomeCounts backs the landing page summary.
type HomeCounts struct {
	Books           int
	Copies          int
	AvailableCopies int
	Authors         int
	Genres          int
}

// BookSummary is a list row: the book plus its populated author name.
type BookSummary struct {
	Book       Book
	AuthorName string
}

// BookDetail is a fully populated book page.
type BookDetail struct {
	Book   Book
	Author Author
	Genres []Genre
	Copies []Copy
}

// AuthorDetail is an author page: the author plus their books.
type AuthorDetail struct {
	Author Author
	Books  []Book
}

// GenreDetail is a genre page: the genre plus the books filed under it.
type GenreDetail struct {
	Genre Genre
	Books []Book
}

// CopyDetail is a copy page: the copy plus its book.
type CopyDetail struct {
	Copy Copy
	Book Book
}
