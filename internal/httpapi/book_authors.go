package httpapi

import (
	"context"
	"net/http"

	"libraryManagement/models"
)

// BookAuthors manages which authors wrote a book.
type BookAuthors interface {
	List(ctx context.Context, bookID int64) ([]models.BookAuthor, error)
	Add(ctx context.Context, bookID, authorID int64) (models.BookAuthor, error)
	Remove(ctx context.Context, bookID, authorID int64) error
}

type bookAuthorsHandler struct {
	svc BookAuthors
}

func mountBookAuthors(mux *http.ServeMux, svc BookAuthors) {
	h := bookAuthorsHandler{svc: svc}
	mux.HandleFunc("GET /api/Books/{id}/Authors", h.list)
	mux.HandleFunc("POST /api/Books/{id}/Authors/{authorId}", h.add)
	mux.HandleFunc("DELETE /api/Books/{id}/Authors/{authorId}", h.remove)
}

func (h bookAuthorsHandler) list(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opGet, err)
		return
	}
	out, err := h.svc.List(r.Context(), id)
	if err != nil {
		fail(w, opGet, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h bookAuthorsHandler) ids(r *http.Request) (int64, int64, error) {
	bookID, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	authorID, err := pathInt(r, "authorId")
	if err != nil {
		return 0, 0, err
	}
	return bookID, authorID, nil
}

func (h bookAuthorsHandler) add(w http.ResponseWriter, r *http.Request) {
	bookID, authorID, err := h.ids(r)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	out, err := h.svc.Add(r.Context(), bookID, authorID)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h bookAuthorsHandler) remove(w http.ResponseWriter, r *http.Request) {
	bookID, authorID, err := h.ids(r)
	if err != nil {
		fail(w, opDelete, err)
		return
	}
	if err := h.svc.Remove(r.Context(), bookID, authorID); err != nil {
		fail(w, opDelete, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
