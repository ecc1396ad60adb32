package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"libraryManagement/internal/apperrors"
	"libraryManagement/models"
)

// Circulation is the lending surface exposed next to the catalog.
type Circulation interface {
	ListAvailable(ctx context.Context) ([]models.AvailableBook, error)
	AddCopy(ctx context.Context, bookID int64, cond *models.BookCondition) (*models.BookCopy, error)
	ListCopies(ctx context.Context, bookID int64) ([]models.BookCopy, error)
	Issue(ctx context.Context, b models.Borrow) (*models.Borrow, error)
	Return(ctx context.Context, borrowID int64, on models.Date) (*models.ReturnedBorrow, error)
	OpenBorrows(ctx context.Context) ([]models.Borrow, error)
	Overdue(ctx context.Context, asOf models.Date) ([]models.Borrow, error)
}

type circulationHandler struct {
	svc Circulation
}

func mountCirculation(mux *http.ServeMux, svc Circulation) {
	h := circulationHandler{svc: svc}
	mux.HandleFunc("GET /api/AvailableBooks", h.available)
	mux.HandleFunc("GET /api/Books/{id}/Copies", h.copies)
	mux.HandleFunc("POST /api/Books/{id}/Copies", h.addCopy)
	mux.HandleFunc("GET /api/Borrows", h.openBorrows)
	mux.HandleFunc("GET /api/Borrows/Overdue", h.overdue)
	mux.HandleFunc("POST /api/Borrows", h.issue)
	mux.HandleFunc("POST /api/Borrows/{id}/Return", h.giveBack)
}

func (h circulationHandler) available(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListAvailable(r.Context())
	if err != nil {
		fail(w, opList, err)
		return
	}
	if out == nil {
		out = []models.AvailableBook{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h circulationHandler) copies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opList, err)
		return
	}
	out, err := h.svc.ListCopies(r.Context(), id)
	if err != nil {
		fail(w, opList, err)
		return
	}
	if out == nil {
		out = []models.BookCopy{}
	}
	writeJSON(w, http.StatusOK, out)
}

type addCopyRequest struct {
	BookCondition *models.BookCondition
}

func (h circulationHandler) addCopy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	// An empty body adds a copy with no recorded condition.
	var in addCopyRequest
	if err := decodeOptional(w, r, &in); err != nil {
		fail(w, opCreate, err)
		return
	}
	out, err := h.svc.AddCopy(r.Context(), id, in.BookCondition)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h circulationHandler) openBorrows(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.OpenBorrows(r.Context())
	if err != nil {
		fail(w, opList, err)
		return
	}
	if out == nil {
		out = []models.Borrow{}
	}
	writeJSON(w, http.StatusOK, out)
}

// overdue accepts an optional ?asOf=YYYY-MM-DD.
func (h circulationHandler) overdue(w http.ResponseWriter, r *http.Request) {
	var asOf models.Date
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			fail(w, opList, apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("invalid asOf date %q", raw), err))
			return
		}
		asOf = d
	}
	out, err := h.svc.Overdue(r.Context(), asOf)
	if err != nil {
		fail(w, opList, err)
		return
	}
	if out == nil {
		out = []models.Borrow{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h circulationHandler) issue(w http.ResponseWriter, r *http.Request) {
	var in models.Borrow
	if err := decode(w, r, &in); err != nil {
		fail(w, opCreate, err)
		return
	}
	out, err := h.svc.Issue(r.Context(), in)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type returnRequest struct {
	ReturnDate models.Date
}

func (h circulationHandler) giveBack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opUpdate, err)
		return
	}
	var in returnRequest
	if err := decodeOptional(w, r, &in); err != nil {
		fail(w, opUpdate, err)
		return
	}
	out, err := h.svc.Return(r.Context(), id, in.ReturnDate)
	if err != nil {
		fail(w, opUpdate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
