package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryManagement/internal/logging"
	"libraryManagement/models"
	"libraryManagement/repository"
)

type CirculationStore interface {
	AddCopy(ctx context.Context, bookID int64, cond *models.BookCondition) (*models.BookCopy, error)
	ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error)
	Issue(ctx context.Context, b models.Borrow) (*models.Borrow, error)
	Return(ctx context.Context, borrowID int64, on models.Date) (*models.ReturnedBorrow, error)
	OpenBorrows(ctx context.Context) ([]models.Borrow, error)
	Overdue(ctx context.Context, asOf models.Date) ([]models.Borrow, error)
	ListAvailableBooks(ctx context.Context) ([]models.AvailableBook, error)
}

// CirculationService lends copies to readers and takes them back.
type CirculationService struct {
	store CirculationStore
	errs  errs
}

func NewCirculationService(store CirculationStore, log logging.Logger) *CirculationService {
	return &CirculationService{store: store, errs: errs{entity: "borrow", log: log}}
}

// ListAvailable returns the copies that are currently on the shelf.
func (s *CirculationService) ListAvailable(ctx context.Context) ([]models.AvailableBook, error) {
	out, err := s.store.ListAvailableBooks(ctx)
	if err != nil {
		return nil, s.errs.storage("available", 0, err)
	}
	return out, nil
}

func (s *CirculationService) AddCopy(ctx context.Context, bookID int64, cond *models.BookCondition) (*models.BookCopy, error) {
	if cond != nil && !cond.Valid() {
		return nil, s.errs.validation("add copy", fmt.Sprintf("unknown book condition %q", *cond))
	}
	c, err := s.store.AddCopy(ctx, bookID, cond)
	if errors.Is(err, repository.ErrReferenced) {
		return nil, s.errs.validation("add copy", fmt.Sprintf("book %d does not exist", bookID))
	}
	if err != nil {
		return nil, s.errs.storage("add copy", bookID, err)
	}
	return c, nil
}

func (s *CirculationService) ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error) {
	out, err := s.store.ListCopies(ctx, bookID)
	if err != nil {
		return nil, s.errs.storage("list copies", bookID, err)
	}
	return out, nil
}

// Issue lends a copy. Missing dates default to today and a two week loan.
// Unknown copies, readers or employees are validation failures.
func (s *CirculationService) Issue(ctx context.Context, b models.Borrow) (*models.Borrow, error) {
	if b.InventoryID <= 0 || b.ReaderID <= 0 || b.EmployeeID <= 0 {
		return nil, s.errs.validation("issue", "copy, reader and employee are required")
	}
	if b.IssueDate.IsZero() {
		b.IssueDate = today()
	}
	if b.DueDate.IsZero() {
		b.DueDate = models.Date{Time: b.IssueDate.AddDate(0, 0, models.LoanPeriodDays)}
	}
	if b.DueDate.Before(b.IssueDate.Time) {
		return nil, s.errs.validation("issue", "due date is before issue date")
	}
	out, err := s.store.Issue(ctx, b)
	switch {
	case errors.Is(err, repository.ErrCopyOnLoan):
		return nil, s.errs.conflict("issue", b.InventoryID, fmt.Sprintf("copy %d is already on loan", b.InventoryID), err)
	case errors.Is(err, repository.ErrReferenced):
		return nil, s.errs.validation("issue", "copy, reader or employee does not exist")
	case err != nil:
		return nil, s.errs.storage("issue", 0, err)
	}
	return out, nil
}

func (s *CirculationService) Return(ctx context.Context, borrowID int64, on models.Date) (*models.ReturnedBorrow, error) {
	if on.IsZero() {
		on = today()
	}
	out, err := s.store.Return(ctx, borrowID, on)
	switch {
	case errors.Is(err, repository.ErrBorrowNotFound):
		return nil, s.errs.notFound("return", borrowID)
	case errors.Is(err, repository.ErrReturnBeforeIssue):
		return nil, s.errs.validation("return", "return date is before the issue date")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, s.errs.conflict("return", borrowID, fmt.Sprintf("borrow %d was already returned", borrowID), err)
	case err != nil:
		return nil, s.errs.storage("return", borrowID, err)
	}
	return out, nil
}

func (s *CirculationService) OpenBorrows(ctx context.Context) ([]models.Borrow, error) {
	out, err := s.store.OpenBorrows(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	return out, nil
}

// Overdue lists open loans whose due date is before asOf, today when asOf is zero.
func (s *CirculationService) Overdue(ctx context.Context, asOf models.Date) ([]models.Borrow, error) {
	if asOf.IsZero() {
		asOf = today()
	}
	out, err := s.store.Overdue(ctx, asOf)
	if err != nil {
		return nil, s.errs.storage("overdue", 0, err)
	}
	return out, nil
}

func today() models.Date {
	t := time.Now().UTC()
	return models.NewDate(t.Year(), t.Month(), t.Day())
}
