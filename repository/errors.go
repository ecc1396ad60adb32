package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrStale is returned by updates whose version check matched no row:
	// the row was changed or deleted since it was read.
	ErrStale = errors.New("row was modified or deleted concurrently")
	// ErrDuplicate signals a unique constraint violation.
	ErrDuplicate = errors.New("duplicate value")
	// ErrReferenced signals a foreign key violation, e.g. deleting a row that is still referenced.
	ErrReferenced = errors.New("foreign key violation")
	// ErrTableUnavailable means the backing table does not exist.
	ErrTableUnavailable = errors.New("table unavailable")
)

// classify maps driver errors onto the sentinels above, keeping the original in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

func kindOf(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		case sqlite3.ErrConstraintForeignKey:
			return ErrReferenced
		}
		if strings.Contains(se.Error(), "no such table") {
			return ErrTableUnavailable
		}
		return nil
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrReferenced
		case "42P01":
			return ErrTableUnavailable
		}
		return nil
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return ErrDuplicate
		case 1451, 1452:
			return ErrReferenced
		case 1146:
			return ErrTableUnavailable
		}
	}
	return nil
}
