package repository

import (
	"context"

	goqu "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"libraryManagement/models"
)

type BookRepository struct {
	base
}

func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{base: newBase(db)}
}

func (r *BookRepository) query() *goqu.SelectDataset {
	return r.qb.From("book").
		Select("book_id", "publisher_id", "title", "pages", "release_year", "book_added", "version").
		Order(goqu.C("book_id").Asc())
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []models.Book{}
	if err := r.selectAll(ctx, r.db, &out, r.query()); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var b models.Book
	found, err := r.get(ctx, r.db, &b, r.query().Where(goqu.C("book_id").Eq(id)))
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func publisherValue(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// Create inserts b. A nil PublisherID is stored as NULL; callers wanting the
// sentinel publisher set it explicitly.
func (r *BookRepository) Create(ctx context.Context, b models.Book) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	b.BookAdded = now()
	b.Version = 1
	id, err := r.insert(ctx, r.db, r.qb.Insert("book").Rows(goqu.Record{
		"publisher_id": publisherValue(b.PublisherID),
		"title":        b.Title,
		"pages":        b.Pages,
		"release_year": b.ReleaseYear,
		"book_added":   b.BookAdded,
		"version":      b.Version,
	}), "book_id")
	if err != nil {
		return nil, err
	}
	b.BookID = id
	return &b, nil
}

// Update writes b if its Version is still current, returning ErrStale otherwise.
func (r *BookRepository) Update(ctx context.Context, b models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res, err := r.exec(ctx, r.db, r.qb.Update("book").Set(goqu.Record{
		"publisher_id": publisherValue(b.PublisherID),
		"title":        b.Title,
		"pages":        b.Pages,
		"release_year": b.ReleaseYear,
		"version":      goqu.L("version + 1"),
	}).Where(goqu.Ex{"book_id": b.BookID, "version": b.Version}).Prepared(true))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStale
	}
	return nil
}

// Delete reports false when the book does not exist. Books that still have
// copies or author links yield ErrReferenced.
func (r *BookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res, err := r.exec(ctx, r.db, r.qb.Delete("book").Where(goqu.C("book_id").Eq(id)).Prepared(true))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *BookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "book", "book_id", id)
}

// AddAuthor links an existing author to an existing book. Linking twice yields ErrDuplicate.
func (r *BookRepository) AddAuthor(ctx context.Context, bookID, authorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	_, err := r.exec(ctx, r.db, r.qb.Insert("book_author").Rows(goqu.Record{
		"book_id":   bookID,
		"author_id": authorID,
	}).Prepared(true))
	return err
}

// RemoveAuthor unlinks an author from a book. It reports false when there was no such link.
func (r *BookRepository) RemoveAuthor(ctx context.Context, bookID, authorID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res, err := r.exec(ctx, r.db, r.qb.Delete("book_author").
		Where(goqu.Ex{"book_id": bookID, "author_id": authorID}).Prepared(true))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// AuthorIDs lists the authors linked to a book.
func (r *BookRepository) AuthorIDs(ctx context.Context, bookID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out := []int64{}
	err := r.selectAll(ctx, r.db, &out, r.qb.From("book_author").
		Select("author_id").
		Where(goqu.C("book_id").Eq(bookID)).
		Order(goqu.C("author_id").Asc()))
	if err != nil {
		return nil, err
	}
	return out, nil
}
