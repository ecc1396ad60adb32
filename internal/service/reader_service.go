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

type ReaderStore interface {
	List(ctx context.Context) ([]repository.ReaderRecord, error)
	GetByID(ctx context.Context, id int64) (*repository.ReaderRecord, error)
	Create(ctx context.Context, r models.Reader, p models.Person) (*repository.ReaderRecord, error)
	Update(ctx context.Context, rec repository.ReaderRecord) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ReaderService stores readers under the id generated for their person row,
// exactly like authors and employees.
type ReaderService struct {
	store ReaderStore
	errs  errs
}

func NewReaderService(store ReaderStore, log logging.Logger) *ReaderService {
	return &ReaderService{store: store, errs: errs{entity: "reader", log: log}}
}

func (s *ReaderService) view(op string, rec *repository.ReaderRecord) (models.ReaderView, error) {
	v, err := convert.ComposeReader(rec.Reader, rec.Person)
	if err != nil {
		return models.ReaderView{}, s.errs.storage(op, rec.ReaderID, err)
	}
	return v, nil
}

func (s *ReaderService) List(ctx context.Context) ([]models.ReaderView, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	out := make([]models.ReaderView, 0, len(recs))
	for i := range recs {
		v, err := s.view("list", &recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *ReaderService) Get(ctx context.Context, id int64) (models.ReaderView, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.ReaderView{}, s.errs.storage("get", id, err)
	}
	if rec == nil {
		return models.ReaderView{}, s.errs.notFound("get", id)
	}
	return s.view("get", rec)
}

func (s *ReaderService) Create(ctx context.Context, v models.ReaderView) (models.ReaderView, error) {
	if !validation.Reader(v) {
		return models.ReaderView{}, s.errs.validation("create", validation.ReaderMessage)
	}
	r, p := convert.DecomposeReader(v)
	rec, err := s.store.Create(ctx, r, p)
	if err != nil {
		return models.ReaderView{}, s.errs.storage("create", 0, err)
	}
	return s.view("create", rec)
}

func (s *ReaderService) Update(ctx context.Context, id int64, v models.ReaderView) (models.ReaderView, error) {
	if !validation.Reader(v) {
		return models.ReaderView{}, s.errs.validation("update", validation.ReaderMessage)
	}
	if err := s.errs.checkID("update", id, v.ReaderID); err != nil {
		return models.ReaderView{}, err
	}
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.ReaderView{}, s.errs.storage("update", id, err)
	}
	if rec == nil {
		return models.ReaderView{}, s.errs.notFound("update", id)
	}

	r, p := convert.DecomposeReader(v)
	rec.Email, rec.Address = r.Email, r.Address
	rec.FirstName, rec.LastName, rec.Birthday = p.FirstName, p.LastName, p.Birthday

	if err := s.store.Update(ctx, *rec); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return models.ReaderView{}, s.errs.stale("update", id, func() (bool, error) {
				cur, err := s.store.GetByID(ctx, id)
				return cur != nil, err
			}, err)
		}
		return models.ReaderView{}, s.errs.storage("update", id, err)
	}
	return s.Get(ctx, id)
}

func (s *ReaderService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.errs.storage("delete", id, err)
	}
	if !ok {
		return s.errs.notFound("delete", id)
	}
	return nil
}
