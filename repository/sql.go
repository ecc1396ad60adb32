package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goqu "github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
)

const (
	rowTimeout  = 3 * time.Second
	listTimeout = 5 * time.Second
)

// base is embedded by every repository: the pool plus a query builder for its dialect.
type base struct {
	db *sqlx.DB
	qb goqu.DialectWrapper
}

func newBase(db *sqlx.DB) base {
	return base{db: db, qb: goqu.Dialect(db.DriverName())}
}

// returning reports whether the dialect hands back generated keys via RETURNING
// instead of LastInsertId.
func (b base) returning() bool {
	return b.db.DriverName() == "postgres"
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func (b base) exec(ctx context.Context, q sqlx.ExecerContext, ds sqlBuilder) (sql.Result, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	return res, classify(err)
}

// insert runs ds and returns the generated value of idCol.
func (b base) insert(ctx context.Context, q sqlx.ExtContext, ds *goqu.InsertDataset, idCol string) (int64, error) {
	if b.returning() {
		query, args, err := ds.Returning(goqu.C(idCol)).Prepared(true).ToSQL()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, classify(err)
		}
		return id, nil
	}
	res, err := b.exec(ctx, q, ds.Prepared(true))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// get scans a single row into dest. found is false when there is no row.
func (b base) get(ctx context.Context, q sqlx.QueryerContext, dest any, ds *goqu.SelectDataset) (found bool, err error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return false, err
	}
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, classify(err)
	}
	return true, nil
}

func (b base) selectAll(ctx context.Context, q sqlx.QueryerContext, dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	return classify(sqlx.SelectContext(ctx, q, dest, query, args...))
}

// exists reports whether table has a row where col = id.
func (b base) exists(ctx context.Context, table, col string, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()
	var n int
	return b.get(ctx, b.db, &n, b.qb.From(table).Select(goqu.L("1")).Where(goqu.C(col).Eq(id)).Limit(1))
}

// inTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (b base) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return classify(tx.Commit())
}

// now is the timestamp stored for newly created rows. Second precision keeps it
// identical across drivers after a round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
