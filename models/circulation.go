package models

// BookCondition describes the physical state of a copy.
type BookCondition string

const (
	ConditionPerfect BookCondition = "perfect"
	ConditionGood    BookCondition = "good"
	ConditionAverage BookCondition = "average"
	ConditionBad     BookCondition = "bad"
)

// Valid reports whether c is one of the known conditions.
func (c BookCondition) Valid() bool {
	switch c {
	case ConditionPerfect, ConditionGood, ConditionAverage, ConditionBad:
		return true
	}
	return false
}

// BookCopy is a physical copy of a book held in the inventory.
type BookCopy struct {
	InventoryID int64          `db:"inventory_id" json:"InventoryId"`
	BookID      int64          `db:"book_id" json:"BookId"`
	Condition   *BookCondition `db:"book_condition" json:"BookCondition"`
}

// LoanPeriodDays is the default distance between issue and due dates.
const LoanPeriodDays = 14

// Borrow records a copy issued to a reader by an employee.
type Borrow struct {
	BorrowID    int64 `db:"borrow_id" json:"BorrowId"`
	InventoryID int64 `db:"inventory_id" json:"InventoryId"`
	EmployeeID  int64 `db:"employee_id" json:"EmployeeId"`
	ReaderID    int64 `db:"reader_id" json:"ReaderId"`
	IssueDate   Date  `db:"issue_date" json:"IssueDate"`
	DueDate     Date  `db:"due_date" json:"DueDate"`
}

// ReturnedBorrow closes a Borrow.
type ReturnedBorrow struct {
	BorrowID   int64 `db:"borrow_id" json:"BorrowId"`
	ReturnDate Date  `db:"return_date" json:"ReturnDate"`
}

// AvailableBook is a row of the `available_book` view: a copy that is on the shelf.
type AvailableBook struct {
	InventoryID int64          `db:"inventory_id" json:"InventoryId"`
	BookID      int64          `db:"book_id" json:"BookId"`
	Title       string         `db:"title" json:"Title"`
	Pages       int            `db:"pages" json:"Pages"`
	ReleaseYear int            `db:"release_year" json:"ReleaseYear"`
	Condition   *BookCondition `db:"book_condition" json:"BookCondition"`
}
