package service

import (
	"context"
	"errors"

	"libraryManagement/internal/convert"
	"libraryManagement/internal/logging"
	"libraryManagement/internal/validation"
	"libraryManagement/models"
	"libraryManagement/repository"
)

type EmployeeStore interface {
	List(ctx context.Context) ([]repository.EmployeeRecord, error)
	GetByID(ctx context.Context, id int64) (*repository.EmployeeRecord, error)
	Create(ctx context.Context, e models.Employee, p models.Person) (*repository.EmployeeRecord, error)
	Update(ctx context.Context, rec repository.EmployeeRecord) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type EmployeeService struct {
	store EmployeeStore
	errs  errs
}

func NewEmployeeService(store EmployeeStore, log logging.Logger) *EmployeeService {
	return &EmployeeService{store: store, errs: errs{entity: "employee", log: log}}
}

func (s *EmployeeService) view(op string, rec *repository.EmployeeRecord) (models.EmployeeView, error) {
	v, err := convert.ComposeEmployee(rec.Employee, rec.Person)
	if err != nil {
		return models.EmployeeView{}, s.errs.storage(op, rec.EmployeeID, err)
	}
	return v, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]models.EmployeeView, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	out := make([]models.EmployeeView, 0, len(recs))
	for i := range recs {
		v, err := s.view("list", &recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (models.EmployeeView, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.EmployeeView{}, s.errs.storage("get", id, err)
	}
	if rec == nil {
		return models.EmployeeView{}, s.errs.notFound("get", id)
	}
	return s.view("get", rec)
}

func (s *EmployeeService) Create(ctx context.Context, v models.EmployeeView) (models.EmployeeView, error) {
	if !validation.Employee(v) {
		return models.EmployeeView{}, s.errs.validation("create", validation.EmployeeMessage)
	}
	e, p := convert.DecomposeEmployee(v)
	rec, err := s.store.Create(ctx, e, p)
	if err != nil {
		return models.EmployeeView{}, s.errs.storage("create", 0, err)
	}
	return s.view("create", rec)
}

func (s *EmployeeService) Update(ctx context.Context, id int64, v models.EmployeeView) (models.EmployeeView, error) {
	if !validation.Employee(v) {
		return models.EmployeeView{}, s.errs.validation("update", validation.EmployeeMessage)
	}
	if err := s.errs.checkID("update", id, v.EmployeeID); err != nil {
		return models.EmployeeView{}, err
	}
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.EmployeeView{}, s.errs.storage("update", id, err)
	}
	if rec == nil {
		return models.EmployeeView{}, s.errs.notFound("update", id)
	}

	e, p := convert.DecomposeEmployee(v)
	rec.Salary = e.Salary
	rec.FirstName, rec.LastName, rec.Birthday = p.FirstName, p.LastName, p.Birthday

	if err := s.store.Update(ctx, *rec); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return models.EmployeeView{}, s.errs.stale("update", id, func() (bool, error) {
				cur, err := s.store.GetByID(ctx, id)
				return cur != nil, err
			}, err)
		}
		return models.EmployeeView{}, s.errs.storage("update", id, err)
	}
	return s.Get(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.errs.storage("delete", id, err)
	}
	if !ok {
		return s.errs.notFound("delete", id)
	}
	return nil
}
