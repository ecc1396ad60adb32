package models

import "time"

// Publisher maps to the `publisher` table. Name is unique.
type Publisher struct {
	PublisherID    int64     `db:"publisher_id" json:"publisher_id"`
	Name           string    `db:"name" json:"name"`
	Country        string    `db:"country" json:"country"`
	PublisherAdded time.Time `db:"publisher_added" json:"publisher_added"`
	Version        int64     `db:"version" json:"version"`
}

// DefaultPublisherID is the sentinel publisher seeded by the first migration.
// Books created without a publisher point at it.
const DefaultPublisherID int64 = 1

// Book maps to the `book` table.
type Book struct {
	BookID      int64     `db:"book_id" json:"book_id"`
	PublisherID *int64    `db:"publisher_id" json:"publisher_id,omitempty"`
	Title       string    `db:"title" json:"title"`
	Pages       int       `db:"pages" json:"pages"`
	ReleaseYear int       `db:"release_year" json:"release_year"`
	BookAdded   time.Time `db:"book_added" json:"book_added"`
	Version     int64     `db:"version" json:"version"`
}

// BookAuthor links a book to one of its authors.
type BookAuthor struct {
	BookID   int64 `db:"book_id" json:"BookId"`
	AuthorID int64 `db:"author_id" json:"AuthorId"`
}
