package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

type PublisherRepository struct {
	base
}

func NewPublisherRepository(db *sqlx.DB) *PublisherRepository {
	return &PublisherRepository{base: newBase(db)}
}

func (r *PublisherRepository) query() *goqu.SelectDataset {
	return r.qb.From("publisher").
		Select("publisher_id", "name", "country", "publisher_added", "version").
		Order(goqu.C("publisher_id").Asc())
}

func (r *PublisherRepository) List(ctx context.Context) ([]models.Publisher, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.Publisher{}
	if err := r.selectAll(ctx, r.db, &out, r.query()); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PublisherRepository) GetByID(ctx context.Context, id int64) (*models.Publisher, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var p models.Publisher
	found, err := r.get(ctx, r.db, &p, r.query().Where(goqu.C("publisher_id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// Create inserts p. A taken name yields ErrDuplicate.
func (r *PublisherRepository) Create(ctx context.Context, p models.Publisher) (*models.Publisher, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	p.PublisherAdded = now()
	p.Version = 1
	id, err := r.insert(ctx, r.db, r.qb.Insert("publisher").Rows(goqu.Record{
		"name":            p.Name,
		"country":         p.Country,
		"publisher_added": p.PublisherAdded,
		"version":         p.Version,
	}), "publisher_id")
	if err != nil {
		return nil, err
	}
	p.PublisherID = id
	return &p, nil
}

// Update writes p if its Version is still current, returning ErrStale otherwise.
func (r *PublisherRepository) Update(ctx context.Context, p models.Publisher) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res, err := r.exec(ctx, r.db, r.qb.Update("publisher").Set(goqu.Record{
		"name":    p.Name,
		"country": p.Country,
		"version": goqu.L("version + 1"),
	}).Where(goqu.Ex{"publisher_id": p.PublisherID, "version": p.Version}).Prepared(true))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStale
	}
	return nil
}

// Delete reports false when the publisher does not exist. Publishers still
// referenced by books yield ErrReferenced.
func (r *PublisherRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res, err := r.exec(ctx, r.db, r.qb.Delete("publisher").Where(goqu.C("publisher_id").Eq(id)).Prepared(true))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *PublisherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "publisher", "publisher_id", id)
}
