// Package validation holds the predicates that gate every create and update.
package validation

import (
	"regexp"
	"strings"

	"libraryManagement/models"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]*@[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,63}$`)

// Email reports whether s looks like a deliverable address.
func Email(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func anyBlank(ss ...string) bool {
	for _, s := range ss {
		if blank(s) {
			return true
		}
	}
	return false
}

func Author(v models.AuthorView) bool {
	return !anyBlank(v.FirstName, v.LastName, v.Bio)
}

func Reader(v models.ReaderView) bool {
	return !anyBlank(v.FirstName, v.LastName, v.Address, v.Email) && Email(v.Email)
}

func Employee(v models.EmployeeView) bool {
	return !anyBlank(v.FirstName, v.LastName) && v.Salary > 0
}

func Publisher(v models.PublisherView) bool {
	return !anyBlank(v.Name, v.Country)
}

// BookFields checks the book's own fields. Book additionally needs to know
// whether the referenced publisher exists.
func BookFields(v models.BookView) bool {
	return !blank(v.Title) && v.Pages > 0 && v.ReleaseYear > 0
}

func Book(v models.BookView, publisherExists bool) bool {
	return BookFields(v) && publisherExists
}

// Messages returned to API callers when a predicate fails.
const (
	AuthorMessage    = "First name, last name and bio are required."
	ReaderMessage    = "Email isn't valid or empty values were entered."
	EmployeeMessage  = "First name and last name are required and salary must be positive."
	PublisherMessage = "Name and country are required."
	BookMessage      = "Title is required, pages and release year must be positive and the publisher must exist."
)
