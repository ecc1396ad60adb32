package models

import "time"

// Person is the shared identity row behind every author, reader and employee.
// It maps to the `person` table.
type Person struct {
	PersonID         int64     `db:"person_id" json:"person_id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Birthday         Date      `db:"birthday" json:"birthday"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	// Version is bumped on every update and guards against lost writes.
	Version int64 `db:"version" json:"version"`
}

// Author extends Person via AuthorID == PersonID.
type Author struct {
	AuthorID int64  `db:"author_id" json:"author_id"`
	Bio      string `db:"bio" json:"bio"`
}

// Reader extends Person via ReaderID == PersonID.
type Reader struct {
	ReaderID int64  `db:"reader_id" json:"reader_id"`
	Email    string `db:"email" json:"email"`
	Address  string `db:"address" json:"address"`
}

// Employee extends Person via EmployeeID == PersonID.
type Employee struct {
	EmployeeID int64 `db:"employee_id" json:"employee_id"`
	Salary     int64 `db:"salary" json:"salary"`
}
