// Package convert translates between storage rows and the API representations.
//
// Authors, readers and employees are stored as two rows sharing one identifier:
// a person row and a role row. Compose joins them into one view and Decompose
// splits an incoming view back into the two rows.
package convert

import (
	"errors"
	"fmt"

	"libraryManagement/models"
)

// ErrIdentityMismatch is returned when a role row and a person row do not share an id.
var ErrIdentityMismatch = errors.New("role and person identifiers differ")

func mismatch(role string, roleID, personID int64) error {
	return fmt.Errorf("%w: %s %d, person %d", ErrIdentityMismatch, role, roleID, personID)
}

func ComposeAuthor(a models.Author, p models.Person) (models.AuthorView, error) {
	if a.AuthorID != p.PersonID {
		return models.AuthorView{}, mismatch("author", a.AuthorID, p.PersonID)
	}
	return models.AuthorView{
		AuthorID:         a.AuthorID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Birthday:         p.Birthday,
		Bio:              a.Bio,
		RegistrationDate: p.RegistrationDate,
	}, nil
}

// DecomposeAuthor splits v into its role and person rows. Both carry v.AuthorID,
// which is zero for payloads that have not been stored yet.
func DecomposeAuthor(v models.AuthorView) (models.Author, models.Person) {
	return models.Author{AuthorID: v.AuthorID, Bio: v.Bio}, personOf(v.AuthorID, v.FirstName, v.LastName, v.Birthday)
}

func ComposeReader(r models.Reader, p models.Person) (models.ReaderView, error) {
	if r.ReaderID != p.PersonID {
		return models.ReaderView{}, mismatch("reader", r.ReaderID, p.PersonID)
	}
	return models.ReaderView{
		ReaderID:         r.ReaderID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Birthday:         p.Birthday,
		Email:            r.Email,
		Address:          r.Address,
		RegistrationDate: p.RegistrationDate,
	}, nil
}

func DecomposeReader(v models.ReaderView) (models.Reader, models.Person) {
	return models.Reader{ReaderID: v.ReaderID, Email: v.Email, Address: v.Address}, personOf(v.ReaderID, v.FirstName, v.LastName, v.Birthday)
}

func ComposeEmployee(e models.Employee, p models.Person) (models.EmployeeView, error) {
	if e.EmployeeID != p.PersonID {
		return models.EmployeeView{}, mismatch("employee", e.EmployeeID, p.PersonID)
	}
	return models.EmployeeView{
		EmployeeID:       e.EmployeeID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Birthday:         p.Birthday,
		Salary:           e.Salary,
		RegistrationDate: p.RegistrationDate,
	}, nil
}

func DecomposeEmployee(v models.EmployeeView) (models.Employee, models.Person) {
	return models.Employee{EmployeeID: v.EmployeeID, Salary: v.Salary}, personOf(v.EmployeeID, v.FirstName, v.LastName, v.Birthday)
}

// personOf leaves RegistrationDate and Version unset; storage owns them.
func personOf(id int64, first, last string, birthday models.Date) models.Person {
	return models.Person{PersonID: id, FirstName: first, LastName: last, Birthday: birthday}
}

func PublisherToView(p models.Publisher) models.PublisherView {
	return models.PublisherView{
		PublisherID:    p.PublisherID,
		Name:           p.Name,
		Country:        p.Country,
		PublisherAdded: p.PublisherAdded,
	}
}

func PublisherFromView(v models.PublisherView) models.Publisher {
	return models.Publisher{PublisherID: v.PublisherID, Name: v.Name, Country: v.Country}
}

func BookToView(b models.Book) models.BookView {
	return models.BookView{
		BookID:      b.BookID,
		PublisherID: b.PublisherID,
		Title:       b.Title,
		Pages:       b.Pages,
		ReleaseYear: b.ReleaseYear,
		BookAdded:   b.BookAdded,
	}
}

func BookFromView(v models.BookView) models.Book {
	return models.Book{
		BookID:      v.BookID,
		PublisherID: v.PublisherID,
		Title:       v.Title,
		Pages:       v.Pages,
		ReleaseYear: v.ReleaseYear,
	}
}
