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

type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b models.Book) (*models.Book, error)
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// PublisherLookup answers whether a publisher id refers to a stored publisher.
type PublisherLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type BookService struct {
	store      BookStore
	publishers PublisherLookup
	errs       errs
}

func NewBookService(store BookStore, publishers PublisherLookup, log logging.Logger) *BookService {
	return &BookService{store: store, publishers: publishers, errs: errs{entity: "book", log: log}}
}

func (s *BookService) List(ctx context.Context) ([]models.BookView, error) {
	books, err := s.store.List(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	out := make([]models.BookView, 0, len(books))
	for _, b := range books {
		out = append(out, convert.BookToView(b))
	}
	return out, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (models.BookView, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.BookView{}, s.errs.storage("get", id, err)
	}
	if b == nil {
		return models.BookView{}, s.errs.notFound("get", id)
	}
	return convert.BookToView(*b), nil
}

// validate defaults a missing publisher to the sentinel one and then checks
// the book fields and the publisher reference.
func (s *BookService) validate(ctx context.Context, op string, v *models.BookView) error {
	if v.PublisherID == nil {
		id := models.DefaultPublisherID
		v.PublisherID = &id
	}
	if !validation.BookFields(*v) {
		return s.errs.validation(op, validation.BookMessage)
	}
	exists, err := s.publishers.Exists(ctx, *v.PublisherID)
	if err != nil {
		return s.errs.storage(op, 0, err)
	}
	if !validation.Book(*v, exists) {
		return s.errs.validation(op, validation.BookMessage)
	}
	return nil
}

func (s *BookService) Create(ctx context.Context, v models.BookView) (models.BookView, error) {
	if err := s.validate(ctx, "create", &v); err != nil {
		return models.BookView{}, err
	}
	b, err := s.store.Create(ctx, convert.BookFromView(v))
	if err != nil {
		return models.BookView{}, s.errs.storage("create", 0, err)
	}
	return convert.BookToView(*b), nil
}

func (s *BookService) Update(ctx context.Context, id int64, v models.BookView) (models.BookView, error) {
	if err := s.validate(ctx, "update", &v); err != nil {
		return models.BookView{}, err
	}
	if err := s.errs.checkID("update", id, v.BookID); err != nil {
		return models.BookView{}, err
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.BookView{}, s.errs.storage("update", id, err)
	}
	if b == nil {
		return models.BookView{}, s.errs.notFound("update", id)
	}

	b.PublisherID, b.Title, b.Pages, b.ReleaseYear = v.PublisherID, v.Title, v.Pages, v.ReleaseYear
	if err := s.store.Update(ctx, *b); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return models.BookView{}, s.errs.stale("update", id, func() (bool, error) {
				cur, err := s.store.GetByID(ctx, id)
				return cur != nil, err
			}, err)
		}
		return models.BookView{}, s.errs.storage("update", id, err)
	}
	return s.Get(ctx, id)
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.errs.storage("delete", id, err)
	}
	if !ok {
		return s.errs.notFound("delete", id)
	}
	return nil
}
