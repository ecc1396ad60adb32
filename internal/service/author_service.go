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

// AuthorStore is the persistence AuthorService needs.
type AuthorStore interface {
	List(ctx context.Context) ([]repository.AuthorRecord, error)
	GetByID(ctx context.Context, id int64) (*repository.AuthorRecord, error)
	Create(ctx context.Context, a models.Author, p models.Person) (*repository.AuthorRecord, error)
	Update(ctx context.Context, rec repository.AuthorRecord) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type AuthorService struct {
	store AuthorStore
	errs  errs
}

func NewAuthorService(store AuthorStore, log logging.Logger) *AuthorService {
	return &AuthorService{store: store, errs: errs{entity: "author", log: log}}
}

func (s *AuthorService) view(op string, rec *repository.AuthorRecord) (models.AuthorView, error) {
	v, err := convert.ComposeAuthor(rec.Author, rec.Person)
	if err != nil {
		return models.AuthorView{}, s.errs.storage(op, rec.AuthorID, err)
	}
	return v, nil
}

func (s *AuthorService) List(ctx context.Context) ([]models.AuthorView, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	out := make([]models.AuthorView, 0, len(recs))
	for i := range recs {
		v, err := s.view("list", &recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *AuthorService) Get(ctx context.Context, id int64) (models.AuthorView, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.AuthorView{}, s.errs.storage("get", id, err)
	}
	if rec == nil {
		return models.AuthorView{}, s.errs.notFound("get", id)
	}
	return s.view("get", rec)
}

func (s *AuthorService) Create(ctx context.Context, v models.AuthorView) (models.AuthorView, error) {
	if !validation.Author(v) {
		return models.AuthorView{}, s.errs.validation("create", validation.AuthorMessage)
	}
	a, p := convert.DecomposeAuthor(v)
	rec, err := s.store.Create(ctx, a, p)
	if err != nil {
		return models.AuthorView{}, s.errs.storage("create", 0, err)
	}
	return s.view("create", rec)
}

func (s *AuthorService) Update(ctx context.Context, id int64, v models.AuthorView) (models.AuthorView, error) {
	if !validation.Author(v) {
		return models.AuthorView{}, s.errs.validation("update", validation.AuthorMessage)
	}
	if err := s.errs.checkID("update", id, v.AuthorID); err != nil {
		return models.AuthorView{}, err
	}
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.AuthorView{}, s.errs.storage("update", id, err)
	}
	if rec == nil {
		return models.AuthorView{}, s.errs.notFound("update", id)
	}

	a, p := convert.DecomposeAuthor(v)
	rec.Bio = a.Bio
	rec.FirstName, rec.LastName, rec.Birthday = p.FirstName, p.LastName, p.Birthday

	if err := s.store.Update(ctx, *rec); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return models.AuthorView{}, s.errs.stale("update", id, func() (bool, error) {
				cur, err := s.store.GetByID(ctx, id)
				return cur != nil, err
			}, err)
		}
		return models.AuthorView{}, s.errs.storage("update", id, err)
	}
	return s.Get(ctx, id)
}

func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.errs.storage("delete", id, err)
	}
	if !ok {
		return s.errs.notFound("delete", id)
	}
	return nil
}
