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

var errDefaultPublisher = errors.New("default publisher is protected")

type PublisherStore interface {
	List(ctx context.Context) ([]models.Publisher, error)
	GetByID(ctx context.Context, id int64) (*models.Publisher, error)
	Create(ctx context.Context, p models.Publisher) (*models.Publisher, error)
	Update(ctx context.Context, p models.Publisher) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type PublisherService struct {
	store PublisherStore
	errs  errs
}

func NewPublisherService(store PublisherStore, log logging.Logger) *PublisherService {
	return &PublisherService{store: store, errs: errs{entity: "publisher", log: log}}
}

func (s *PublisherService) List(ctx context.Context) ([]models.PublisherView, error) {
	pubs, err := s.store.List(ctx)
	if err != nil {
		return nil, s.errs.storage("list", 0, err)
	}
	out := make([]models.PublisherView, 0, len(pubs))
	for _, p := range pubs {
		out = append(out, convert.PublisherToView(p))
	}
	return out, nil
}

func (s *PublisherService) Get(ctx context.Context, id int64) (models.PublisherView, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.PublisherView{}, s.errs.storage("get", id, err)
	}
	if p == nil {
		return models.PublisherView{}, s.errs.notFound("get", id)
	}
	return convert.PublisherToView(*p), nil
}

func (s *PublisherService) Create(ctx context.Context, v models.PublisherView) (models.PublisherView, error) {
	if !validation.Publisher(v) {
		return models.PublisherView{}, s.errs.validation("create", validation.PublisherMessage)
	}
	p, err := s.store.Create(ctx, convert.PublisherFromView(v))
	if err != nil {
		return models.PublisherView{}, s.errs.storage("create", 0, err)
	}
	return convert.PublisherToView(*p), nil
}

func (s *PublisherService) Update(ctx context.Context, id int64, v models.PublisherView) (models.PublisherView, error) {
	if !validation.Publisher(v) {
		return models.PublisherView{}, s.errs.validation("update", validation.PublisherMessage)
	}
	if err := s.errs.checkID("update", id, v.PublisherID); err != nil {
		return models.PublisherView{}, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.PublisherView{}, s.errs.storage("update", id, err)
	}
	if p == nil {
		return models.PublisherView{}, s.errs.notFound("update", id)
	}

	p.Name, p.Country = v.Name, v.Country
	if err := s.store.Update(ctx, *p); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return models.PublisherView{}, s.errs.stale("update", id, func() (bool, error) {
				cur, err := s.store.GetByID(ctx, id)
				return cur != nil, err
			}, err)
		}
		return models.PublisherView{}, s.errs.storage("update", id, err)
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove the sentinel publisher that books fall back to.
func (s *PublisherService) Delete(ctx context.Context, id int64) error {
	if id == models.DefaultPublisherID {
		return s.errs.conflict("delete", id, "the default publisher cannot be deleted", errDefaultPublisher)
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.errs.storage("delete", id, err)
	}
	if !ok {
		return s.errs.notFound("delete", id)
	}
	return nil
}
