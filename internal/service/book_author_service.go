package service

import (
	"context"
	"errors"
	"fmt"

	"libraryManagement/internal/logging"
	"libraryManagement/models"
	"libraryManagement/repository"
)

type BookAuthorStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
	AddAuthor(ctx context.Context, bookID, authorID int64) error
	RemoveAuthor(ctx context.Context, bookID, authorID int64) (bool, error)
	AuthorIDs(ctx context.Context, bookID int64) ([]int64, error)
}

// AuthorLookup answers whether an author id refers to a stored author.
type AuthorLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookAuthorService manages the authorship links of books.
type BookAuthorService struct {
	books   BookAuthorStore
	authors AuthorLookup
	errs    errs
}

func NewBookAuthorService(books BookAuthorStore, authors AuthorLookup, log logging.Logger) *BookAuthorService {
	return &BookAuthorService{books: books, authors: authors, errs: errs{entity: "book author", log: log}}
}

// List returns the author links of bookID. An unknown book is not found.
func (s *BookAuthorService) List(ctx context.Context, bookID int64) ([]models.BookAuthor, error) {
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, s.errs.storage("list", bookID, err)
	}
	if !ok {
		return nil, s.errs.notFound("list", bookID)
	}
	ids, err := s.books.AuthorIDs(ctx, bookID)
	if err != nil {
		return nil, s.errs.storage("list", bookID, err)
	}
	out := make([]models.BookAuthor, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.BookAuthor{BookID: bookID, AuthorID: id})
	}
	return out, nil
}

// Add links authorID to bookID. Unknown ids are validation failures and an
// existing link is a conflict.
func (s *BookAuthorService) Add(ctx context.Context, bookID, authorID int64) (models.BookAuthor, error) {
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return models.BookAuthor{}, s.errs.storage("add", bookID, err)
	}
	if !ok {
		return models.BookAuthor{}, s.errs.validation("add", fmt.Sprintf("book %d does not exist", bookID))
	}
	ok, err = s.authors.Exists(ctx, authorID)
	if err != nil {
		return models.BookAuthor{}, s.errs.storage("add", authorID, err)
	}
	if !ok {
		return models.BookAuthor{}, s.errs.validation("add", fmt.Sprintf("author %d does not exist", authorID))
	}

	err = s.books.AddAuthor(ctx, bookID, authorID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return models.BookAuthor{}, s.errs.conflict("add", bookID, fmt.Sprintf("author %d is already linked to book %d", authorID, bookID), err)
	case errors.Is(err, repository.ErrReferenced):
		// one of the rows vanished between the checks and the insert
		return models.BookAuthor{}, s.errs.validation("add", "book or author does not exist")
	case err != nil:
		return models.BookAuthor{}, s.errs.storage("add", bookID, err)
	}
	return models.BookAuthor{BookID: bookID, AuthorID: authorID}, nil
}

// Remove unlinks authorID from bookID. A missing link is not found.
func (s *BookAuthorService) Remove(ctx context.Context, bookID, authorID int64) error {
	ok, err := s.books.RemoveAuthor(ctx, bookID, authorID)
	if err != nil {
		return s.errs.storage("remove", bookID, err)
	}
	if !ok {
		return s.errs.notFound("remove", bookID)
	}
	return nil
}
