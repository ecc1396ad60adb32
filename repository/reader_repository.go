package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

// ReaderRecord is a reader row together with its person row.
type ReaderRecord struct {
	models.Reader
	models.Person
}

type ReaderRepository struct {
	base
}

func NewReaderRepository(db *sqlx.DB) *ReaderRepository {
	return &ReaderRepository{base: newBase(db)}
}

func (r *ReaderRepository) query() *goqu.SelectDataset {
	return r.joinPerson("reader", "reader_id", goqu.I("r.reader_id"), goqu.I("r.email"), goqu.I("r.address"))
}

func (r *ReaderRepository) List(ctx context.Context) ([]ReaderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []ReaderRecord{}
	if err := r.selectAll(ctx, r.db, &out, r.query()); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReaderRepository) GetByID(ctx context.Context, id int64) (*ReaderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var rec ReaderRecord
	found, err := r.get(ctx, r.db, &rec, r.query().Where(goqu.I("r.reader_id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// Create stores the pair under the id generated for the person row.
func (r *ReaderRepository) Create(ctx context.Context, rd models.Reader, p models.Person) (*ReaderRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.insertPerson(ctx, tx, &p); err != nil {
			return err
		}
		rd.ReaderID = p.PersonID
		_, err := r.exec(ctx, tx, r.qb.Insert("reader").Rows(goqu.Record{
			"reader_id": rd.ReaderID,
			"email":     rd.Email,
			"address":   rd.Address,
		}).Prepared(true))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ReaderRecord{Reader: rd, Person: p}, nil
}

func (r *ReaderRepository) Update(ctx context.Context, rec ReaderRecord) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.updatePerson(ctx, tx, rec.Person); err != nil {
			return err
		}
		_, err := r.exec(ctx, tx, r.qb.Update("reader").
			Set(goqu.Record{"email": rec.Email, "address": rec.Address}).
			Where(goqu.C("reader_id").Eq(rec.ReaderID)).Prepared(true))
		return err
	})
}

func (r *ReaderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.deleteRoleAndPerson(ctx, "reader", "reader_id", id)
}

func (r *ReaderRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "reader", "reader_id", id)
}
