// Package service implements the CRUD contract of every entity on top of the repositories.
//
// Every operation validates before it writes and reports failures as *apperrors.Error:
// CodeValidation and CodeNotFound are logged at info level, everything else at error level.
package service

import (
	"context"
	"errors"
	"fmt"

	"libraryManagement/internal/apperrors"
	"libraryManagement/internal/logging"
	"libraryManagement/repository"
)

// errs turns repository outcomes into domain errors and logs them.
type errs struct {
	entity string
	log    logging.Logger
}

func (e errs) validation(op, msg string) error {
	e.log.Info("validation failed", "entity", e.entity, "op", op, "reason", msg)
	return apperrors.New(apperrors.CodeValidation, msg)
}

func (e errs) invalid(op, msg string) error {
	e.log.Info("invalid request", "entity", e.entity, "op", op, "reason", msg)
	return apperrors.New(apperrors.CodeInvalidArgument, msg)
}

func (e errs) notFound(op string, id int64) error {
	e.log.Info("not found", "entity", e.entity, "op", op, "id", id)
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("%s %d not found", e.entity, id))
}

func (e errs) conflict(op string, id int64, msg string, cause error) error {
	e.log.Error("write conflict", "entity", e.entity, "op", op, "id", id, "err", cause)
	return apperrors.Wrap(apperrors.CodeConflict, msg, cause)
}

// storage classifies an error returned by a repository call.
func (e errs) storage(op string, id int64, err error) error {
	switch {
	case errors.Is(err, repository.ErrTableUnavailable):
		e.log.Error("table unavailable", "entity", e.entity, "op", op, "err", err)
		return apperrors.Wrap(apperrors.CodeUnavailable, fmt.Sprintf("%s storage is unavailable", e.entity), err)
	case errors.Is(err, repository.ErrDuplicate):
		return e.conflict(op, id, fmt.Sprintf("%s with the same unique value already exists", e.entity), err)
	case errors.Is(err, repository.ErrReferenced):
		return e.conflict(op, id, fmt.Sprintf("%s is referenced by other records", e.entity), err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		e.log.Error("storage timeout", "entity", e.entity, "op", op, "id", id, "err", err)
		return apperrors.Wrap(apperrors.CodeInternal, "storage did not respond in time", err)
	default:
		e.log.Error("storage failure", "entity", e.entity, "op", op, "id", id, "err", err)
		return apperrors.Wrap(apperrors.CodeInternal, "unexpected storage failure", err)
	}
}

// stale resolves an ErrStale outcome: the row is gone (not found) or was
// changed by someone else (conflict). Nothing is retried.
func (e errs) stale(op string, id int64, stillExists func() (bool, error), cause error) error {
	ok, err := stillExists()
	if err != nil {
		return e.storage(op, id, err)
	}
	if !ok {
		return e.notFound(op, id)
	}
	return e.conflict(op, id, fmt.Sprintf("%s %d was modified concurrently", e.entity, id), cause)
}

// checkID rejects payloads whose own identifier contradicts the path.
func (e errs) checkID(op string, pathID, bodyID int64) error {
	if bodyID != 0 && bodyID != pathID {
		return e.invalid(op, fmt.Sprintf("%s id %d in body does not match %d", e.entity, bodyID, pathID))
	}
	return nil
}
