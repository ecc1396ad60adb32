package repository

import (
	"context"
	"errors"
	"time"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

var (
	// ErrCopyOnLoan is returned when issuing a copy that has an open borrow.
	ErrCopyOnLoan = errors.New("copy is already on loan")
	// ErrBorrowNotFound is returned when returning a borrow that does not exist.
	ErrBorrowNotFound = errors.New("borrow not found")
	// ErrReturnBeforeIssue is returned when a return date precedes the borrow's issue date.
	ErrReturnBeforeIssue = errors.New("return date is before issue date")
)

// CirculationRepository stores book copies and their loans.
type CirculationRepository struct {
	base
}

func NewCirculationRepository(db *sqlx.DB) *CirculationRepository {
	return &CirculationRepository{base: newBase(db)}
}

func conditionValue(c *models.BookCondition) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

// AddCopy registers a physical copy of bookID.
func (r *CirculationRepository) AddCopy(ctx context.Context, bookID int64, cond *models.BookCondition) (*models.BookCopy, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	id, err := r.insert(ctx, r.db, r.qb.Insert("book_copy").Rows(goqu.Record{
		"book_id":        bookID,
		"book_condition": conditionValue(cond),
	}), "inventory_id")
	if err != nil {
		return nil, err
	}
	return &models.BookCopy{InventoryID: id, BookID: bookID, Condition: cond}, nil
}

func (r *CirculationRepository) ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.BookCopy{}
	err := r.selectAll(ctx, r.db, &out, r.qb.From("book_copy").
		Select("inventory_id", "book_id", "book_condition").
		Where(goqu.C("book_id").Eq(bookID)).
		Order(goqu.C("inventory_id").Asc()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// openBorrows selects borrows that have no returned_borrow row.
func (r *CirculationRepository) openBorrows() *goqu.SelectDataset {
	return r.qb.From(goqu.T("borrow").As("b")).
		LeftJoin(goqu.T("returned_borrow").As("rb"), goqu.On(goqu.I("rb.borrow_id").Eq(goqu.I("b.borrow_id")))).
		Select(
			goqu.I("b.borrow_id"),
			goqu.I("b.inventory_id"),
			goqu.I("b.employee_id"),
			goqu.I("b.reader_id"),
			goqu.I("b.issue_date"),
			goqu.I("b.due_date"),
		).
		Where(goqu.I("rb.borrow_id").IsNull()).
		Order(goqu.I("b.borrow_id").Asc())
}

// Issue lends a copy. A zero IssueDate means today and a zero DueDate means
// IssueDate plus the default loan period.
func (r *CirculationRepository) Issue(ctx context.Context, b models.Borrow) (*models.Borrow, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if b.IssueDate.IsZero() {
		t := time.Now().UTC()
		b.IssueDate = models.NewDate(t.Year(), t.Month(), t.Day())
	}
	if b.DueDate.IsZero() {
		b.DueDate = models.Date{Time: b.IssueDate.AddDate(0, 0, models.LoanPeriodDays)}
	}

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var open []models.Borrow
		if err := r.selectAll(ctx, tx, &open, r.openBorrows().Where(goqu.I("b.inventory_id").Eq(b.InventoryID))); err != nil {
			return err
		}
		if len(open) > 0 {
			return ErrCopyOnLoan
		}
		id, err := r.insert(ctx, tx, r.qb.Insert("borrow").Rows(goqu.Record{
			"inventory_id": b.InventoryID,
			"employee_id":  b.EmployeeID,
			"reader_id":    b.ReaderID,
			"issue_date":   b.IssueDate,
			"due_date":     b.DueDate,
		}), "borrow_id")
		if err != nil {
			return err
		}
		b.BorrowID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Return closes a borrow on the given day (today when zero). Returning twice yields ErrDuplicate
// and returning before the issue date yields ErrReturnBeforeIssue.
func (r *CirculationRepository) Return(ctx context.Context, borrowID int64, on models.Date) (*models.ReturnedBorrow, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if on.IsZero() {
		t := time.Now().UTC()
		on = models.NewDate(t.Year(), t.Month(), t.Day())
	}
	var issued models.Date
	ok, err := r.get(ctx, r.db, &issued, r.qb.From("borrow").Select("issue_date").Where(goqu.C("borrow_id").Eq(borrowID)))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBorrowNotFound
	}
	if on.Before(issued.Time) {
		return nil, ErrReturnBeforeIssue
	}
	_, err = r.exec(ctx, r.db, r.qb.Insert("returned_borrow").Rows(goqu.Record{
		"borrow_id":   borrowID,
		"return_date": on,
	}).Prepared(true))
	if err != nil {
		return nil, err
	}
	return &models.ReturnedBorrow{BorrowID: borrowID, ReturnDate: on}, nil
}

// OpenBorrows lists loans that have not been returned yet.
func (r *CirculationRepository) OpenBorrows(ctx context.Context) ([]models.Borrow, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.Borrow{}
	if err := r.selectAll(ctx, r.db, &out, r.openBorrows()); err != nil {
		return nil, err
	}
	return out, nil
}

// Overdue lists open loans whose due date is before asOf.
func (r *CirculationRepository) Overdue(ctx context.Context, asOf models.Date) ([]models.Borrow, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.Borrow{}
	if err := r.selectAll(ctx, r.db, &out, r.openBorrows().Where(goqu.I("b.due_date").Lt(asOf))); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAvailableBooks reads the available_book view: copies currently on the shelf.
func (r *CirculationRepository) ListAvailableBooks(ctx context.Context) ([]models.AvailableBook, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.AvailableBook{}
	err := r.selectAll(ctx, r.db, &out, r.qb.From("available_book").
		Select("inventory_id", "book_id", "title", "pages", "release_year", "book_condition").
		Order(goqu.C("inventory_id").Asc()))
	if err != nil {
		return nil, err
	}
	return out, nil
}
