package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

// Person rows are never written on their own: the helpers below run inside the
// transaction of the role repository that owns the pair.

var personColumns = []any{
	goqu.I("p.person_id"),
	goqu.I("p.first_name"),
	goqu.I("p.last_name"),
	goqu.I("p.birthday"),
	goqu.I("p.registration_date"),
	goqu.I("p.version"),
}

// joinPerson selects roleCols from table (aliased "r") joined with its person row.
func (b base) joinPerson(table, idCol string, roleCols ...any) *goqu.SelectDataset {
	cols := append(append([]any{}, roleCols...), personColumns...)
	return b.qb.From(goqu.T(table).As("r")).
		Join(goqu.T("person").As("p"), goqu.On(goqu.I("p.person_id").Eq(goqu.I("r."+idCol)))).
		Select(cols...).
		Order(goqu.I("r." + idCol).Asc())
}

// insertPerson stores p and fills in its generated id, registration date and version.
func (b base) insertPerson(ctx context.Context, tx *sqlx.Tx, p *models.Person) error {
	p.RegistrationDate = now()
	p.Version = 1
	id, err := b.insert(ctx, tx, b.qb.Insert("person").Rows(goqu.Record{
		"first_name":        p.FirstName,
		"last_name":         p.LastName,
		"birthday":          p.Birthday,
		"registration_date": p.RegistrationDate,
		"version":           p.Version,
	}), "person_id")
	if err != nil {
		return err
	}
	p.PersonID = id
	return nil
}

// updatePerson overwrites the mutable person fields if the stored version still
// equals p.Version. It returns ErrStale otherwise.
func (b base) updatePerson(ctx context.Context, tx *sqlx.Tx, p models.Person) error {
	res, err := b.exec(ctx, tx, b.qb.Update("person").Set(goqu.Record{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"birthday":   p.Birthday,
		"version":    goqu.L("version + 1"),
	}).Where(goqu.Ex{"person_id": p.PersonID, "version": p.Version}).Prepared(true))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStale
	}
	return nil
}

// deleteRoleAndPerson removes the role row and then its person row.
// It reports false, leaving both untouched, when the role row does not exist.
func (b base) deleteRoleAndPerson(ctx context.Context, table, idCol string, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	deleted := false
	err := b.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := b.exec(ctx, tx, b.qb.Delete(table).Where(goqu.C(idCol).Eq(id)).Prepared(true))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		if _, err := b.exec(ctx, tx, b.qb.Delete("person").Where(goqu.C("person_id").Eq(id)).Prepared(true)); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
