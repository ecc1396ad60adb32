package models

import "time"

// The view types below are the JSON representations exchanged over the REST API.
// Field names follow the public contract of the API, not the column names.

// AuthorView combines an Author with its Person row.
type AuthorView struct {
	AuthorID         int64     `json:"AuthorId"`
	FirstName        string    `json:"FirstName"`
	LastName         string    `json:"LastName"`
	Birthday         Date      `json:"Birthday"`
	Bio              string    `json:"Bio"`
	RegistrationDate time.Time `json:"RegistrationDate"`
}

// ReaderView combines a Reader with its Person row.
type ReaderView struct {
	ReaderID         int64     `json:"ReaderId"`
	FirstName        string    `json:"FirstName"`
	LastName         string    `json:"LastName"`
	Birthday         Date      `json:"Birthday"`
	Email            string    `json:"Email"`
	Address          string    `json:"Address"`
	RegistrationDate time.Time `json:"RegistrationDate"`
}

// EmployeeView combines an Employee with its Person row.
type EmployeeView struct {
	EmployeeID       int64     `json:"EmployeeId"`
	FirstName        string    `json:"FirstName"`
	LastName         string    `json:"LastName"`
	Birthday         Date      `json:"Birthday"`
	Salary           int64     `json:"Salary"`
	RegistrationDate time.Time `json:"RegistrationDate"`
}

type PublisherView struct {
	PublisherID    int64     `json:"PublisherId"`
	Name           string    `json:"Name"`
	Country        string    `json:"Country"`
	PublisherAdded time.Time `json:"PublisherAdded"`
}

type BookView struct {
	BookID      int64     `json:"BookId"`
	PublisherID *int64    `json:"PublisherId"`
	Title       string    `json:"Title"`
	Pages       int       `json:"Pages"`
	ReleaseYear int       `json:"ReleaseYear"`
	BookAdded   time.Time `json:"BookAdded"`
}
