package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

// AuthorRecord is an author row together with its person row.
type AuthorRecord struct {
	models.Author
	models.Person
}

type AuthorRepository struct {
	base
}

func NewAuthorRepository(db *sqlx.DB) *AuthorRepository {
	return &AuthorRepository{base: newBase(db)}
}

func (r *AuthorRepository) query() *goqu.SelectDataset {
	return r.joinPerson("author", "author_id", goqu.I("r.author_id"), goqu.I("r.bio"))
}

// List returns every author that has a matching person row, ordered by id.
func (r *AuthorRepository) List(ctx context.Context) ([]AuthorRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []AuthorRecord{}
	if err := r.selectAll(ctx, r.db, &out, r.query()); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns (nil, nil) when either row of the pair is missing.
func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*AuthorRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var rec AuthorRecord
	found, err := r.get(ctx, r.db, &rec, r.query().Where(goqu.I("r.author_id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// Create inserts the person row, then the author row under the generated id.
func (r *AuthorRepository) Create(ctx context.Context, a models.Author, p models.Person) (*AuthorRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.insertPerson(ctx, tx, &p); err != nil {
			return err
		}
		a.AuthorID = p.PersonID
		_, err := r.exec(ctx, tx, r.qb.Insert("author").Rows(goqu.Record{
			"author_id": a.AuthorID,
			"bio":       a.Bio,
		}).Prepared(true))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &AuthorRecord{Author: a, Person: p}, nil
}

// Update writes rec if its Version is still current, returning ErrStale otherwise.
func (r *AuthorRepository) Update(ctx context.Context, rec AuthorRecord) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.updatePerson(ctx, tx, rec.Person); err != nil {
			return err
		}
		_, err := r.exec(ctx, tx, r.qb.Update("author").
			Set(goqu.Record{"bio": rec.Bio}).
			Where(goqu.C("author_id").Eq(rec.AuthorID)).Prepared(true))
		return err
	})
}

// Delete removes the author and its person row. It reports false when there was nothing to delete.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.deleteRoleAndPerson(ctx, "author", "author_id", id)
}

func (r *AuthorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "author", "author_id", id)
}
