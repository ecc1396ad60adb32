package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

// EmployeeRecord is an employee row together with its person row.
type EmployeeRecord struct {
	models.Employee
	models.Person
}

type EmployeeRepository struct {
	base
}

func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{base: newBase(db)}
}

func (r *EmployeeRepository) query() *goqu.SelectDataset {
	return r.joinPerson("employee", "employee_id", goqu.I("r.employee_id"), goqu.I("r.salary"))
}

func (r *EmployeeRepository) List(ctx context.Context) ([]EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []EmployeeRecord{}
	if err := r.selectAll(ctx, r.db, &out, r.query()); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var rec EmployeeRecord
	found, err := r.get(ctx, r.db, &rec, r.query().Where(goqu.I("r.employee_id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e models.Employee, p models.Person) (*EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.insertPerson(ctx, tx, &p); err != nil {
			return err
		}
		e.EmployeeID = p.PersonID
		_, err := r.exec(ctx, tx, r.qb.Insert("employee").Rows(goqu.Record{
			"employee_id": e.EmployeeID,
			"salary":      e.Salary,
		}).Prepared(true))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &EmployeeRecord{Employee: e, Person: p}, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, rec EmployeeRecord) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.updatePerson(ctx, tx, rec.Person); err != nil {
			return err
		}
		_, err := r.exec(ctx, tx, r.qb.Update("employee").
			Set(goqu.Record{"salary": rec.Salary}).
			Where(goqu.C("employee_id").Eq(rec.EmployeeID)).Prepared(true))
		return err
	})
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.deleteRoleAndPerson(ctx, "employee", "employee_id", id)
}

func (r *EmployeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "employee", "employee_id", id)
}
