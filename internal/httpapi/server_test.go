package httpapi

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryManagement/internal/config"
	"libraryManagement/internal/service"
	"libraryManagement/internal/testutil"
	"libraryManagement/models"
	"libraryManagement/repository"
)

type apiFixture struct {
	db      *sqlx.DB
	spy     *testutil.LogSpy
	handler http.Handler
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t)
	log, spy := testutil.NewLogger()
	pubRepo := repository.NewPublisherRepository(d)
	authorRepo := repository.NewAuthorRepository(d)
	bookRepo := repository.NewBookRepository(d)
	h := NewHandler(Services{
		Authors:     service.NewAuthorService(authorRepo, log),
		Books:       service.NewBookService(bookRepo, pubRepo, log),
		BookAuthors: service.NewBookAuthorService(bookRepo, authorRepo, log),
		Employees:   service.NewEmployeeService(repository.NewEmployeeRepository(d), log),
		Publishers:  service.NewPublisherService(pubRepo, log),
		Readers:     service.NewReaderService(repository.NewReaderRepository(d), log),
		Circulation: service.NewCirculationService(repository.NewCirculationRepository(d), log),
	}, log)
	return apiFixture{db: d, spy: spy, handler: h}
}

func (f apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPublishers_CreateThenGet(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Publishers", `{"Name":"Osnovy","Country":"Ukraine"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	created := decodeInto[models.PublisherView](t, rec)
	require.NotZero(t, created.PublisherID)
	assert.False(t, created.PublisherAdded.IsZero())

	rec = f.do(t, http.MethodGet, "/api/Publishers/"+strconv.FormatInt(created.PublisherID, 10), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeInto[models.PublisherView](t, rec)
	assert.Equal(t, "Osnovy", got.Name)
	assert.Equal(t, "Ukraine", got.Country)
	assert.True(t, created.PublisherAdded.Equal(got.PublisherAdded))

	rec = f.do(t, http.MethodGet, "/api/Publishers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeInto[[]models.PublisherView](t, rec)
	assert.Len(t, all, 2, "the default publisher is always present")
}

func TestPublishers_DuplicateNameConflicts(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Publishers", `{"Name":"Folio","Country":"Ukraine"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/Publishers", `{"Name":"Folio","Country":"Poland"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.True(t, f.spy.Has(slog.LevelError, "write conflict"))
}

func TestBooks_UnknownPublisherIsRejected(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Books", `{"Title":"Kobzar","Pages":114,"ReleaseYear":1840,"PublisherId":9999}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM book`))
	assert.Zero(t, n)
}

func TestBooks_MissingPublisherDefaultsToUnknown(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Books", `{"Title":"Kobzar","Pages":114,"ReleaseYear":1840}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	book := decodeInto[models.BookView](t, rec)
	require.NotNil(t, book.PublisherID)
	assert.Equal(t, models.DefaultPublisherID, *book.PublisherID)
}

func TestReaders_InvalidEmailOnUpdateLeavesRowUnchanged(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Readers", `{"FirstName":"Lesya","LastName":"Ukrainka","Email":"lesya@example.com","Address":"Kyiv"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeInto[models.ReaderView](t, rec)
	path := "/api/Readers/" + strconv.FormatInt(created.ReaderID, 10)

	body := `{"ReaderId":` + strconv.FormatInt(created.ReaderID, 10) + `,"FirstName":"Lesya","LastName":"Ukrainka","Email":"not-an-email","Address":"Lviv"}`
	rec = f.do(t, http.MethodPut, path, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeInto[models.ReaderView](t, rec)
	assert.Equal(t, "lesya@example.com", got.Email)
	assert.Equal(t, "Kyiv", got.Address)
}

func TestAuthors_UpdateAndDelete(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Authors", `{"FirstName":"Ivan","LastName":"Franko","Birthday":"1856-08-27","Bio":"Writer"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeInto[models.AuthorView](t, rec)
	assert.Equal(t, "1856-08-27", created.Birthday.String())
	id := strconv.FormatInt(created.AuthorID, 10)

	rec = f.do(t, http.MethodPut, "/api/Authors/"+id, `{"AuthorId":`+id+`,"FirstName":"Ivan","LastName":"Franko","Birthday":"1856-08-27","Bio":"Poet"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Poet", decodeInto[models.AuthorView](t, rec).Bio)

	rec = f.do(t, http.MethodDelete, "/api/Authors/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/Authors/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/api/Authors/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/Authors/"+id, `{"AuthorId":`+id+`,"FirstName":"Ivan","LastName":"Franko","Bio":"Poet"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployees_ListIsEmptyArray(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/Employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestRequests_MalformedInput(t *testing.T) {
	f := newAPIFixture(t)

	for _, tc := range []struct {
		name, method, path, body string
		want                     int
	}{
		{"non numeric id", http.MethodGet, "/api/Authors/abc", "", http.StatusBadRequest},
		{"zero id", http.MethodDelete, "/api/Books/0", "", http.StatusBadRequest},
		{"broken json", http.MethodPost, "/api/Authors", `{"FirstName":`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/Readers", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/Shelves", "", http.StatusNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMissingTableAnswersNotFound(t *testing.T) {
	f := newAPIFixture(t)
	_, err := f.db.Exec(`DROP TABLE employee`)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/Employees", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/Employees/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, f.spy.Has(slog.LevelError, "table unavailable"))
}

func TestCirculation_LendAndReturn(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	book, err := repository.NewBookRepository(f.db).Create(ctx, models.Book{Title: "Zakhar Berkut", Pages: 200, ReleaseYear: 1883})
	require.NoError(t, err)
	reader, err := repository.NewReaderRepository(f.db).Create(ctx, models.Reader{Email: "r@example.com"}, models.Person{FirstName: "R", LastName: "R"})
	require.NoError(t, err)
	employee, err := repository.NewEmployeeRepository(f.db).Create(ctx, models.Employee{Salary: 700}, models.Person{FirstName: "E", LastName: "E"})
	require.NoError(t, err)
	bookPath := "/api/Books/" + strconv.FormatInt(book.BookID, 10) + "/Copies"

	rec := f.do(t, http.MethodPost, bookPath, `{"BookCondition":"good"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cp := decodeInto[models.BookCopy](t, rec)

	rec = f.do(t, http.MethodPost, bookPath, `{"BookCondition":"shredded"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/AvailableBooks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]models.AvailableBook](t, rec), 1)

	issue := `{"InventoryId":` + strconv.FormatInt(cp.InventoryID, 10) +
		`,"ReaderId":` + strconv.FormatInt(reader.ReaderID, 10) +
		`,"EmployeeId":` + strconv.FormatInt(employee.EmployeeID, 10) +
		`,"IssueDate":"2024-09-02"}`
	rec = f.do(t, http.MethodPost, "/api/Borrows", issue)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	borrow := decodeInto[models.Borrow](t, rec)
	assert.Equal(t, "2024-09-16", borrow.DueDate.String())

	rec = f.do(t, http.MethodPost, "/api/Borrows", issue)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/AvailableBooks", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = f.do(t, http.MethodGet, "/api/Borrows/Overdue?asOf=2024-10-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]models.Borrow](t, rec), 1)
	rec = f.do(t, http.MethodGet, "/api/Borrows/Overdue?asOf=2024-09-10", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	rec = f.do(t, http.MethodGet, "/api/Borrows/Overdue?asOf=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	returnPath := "/api/Borrows/" + strconv.FormatInt(borrow.BorrowID, 10) + "/Return"
	rec = f.do(t, http.MethodPost, returnPath, `{"ReturnDate":"2024-09-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2024-09-10", decodeInto[models.ReturnedBorrow](t, rec).ReturnDate.String())

	rec = f.do(t, http.MethodPost, returnPath, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/Borrows/999/Return", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_RequestIDAndAccessLog(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/Authors", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
	assert.True(t, f.spy.Has(slog.LevelInfo, "http request"))

	rec = f.do(t, http.MethodGet, "/api/Authors", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRecoverPanic(t *testing.T) {
	log, spy := testutil.NewLogger()
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverPanic(log))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, spy.Has(slog.LevelError, "panic recovered"))
}

func TestChain_AppliesInDeclarationOrder(t *testing.T) {
	var order bytes.Buffer
	mark := func(s string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order.WriteString(s)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order.WriteString("h") }), mark("a"), nil, mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "abh", order.String())
}

func TestStartHTTP_ServesAndShutsDown(t *testing.T) {
	log, _ := testutil.NewLogger()
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	stop, err := StartHTTP(config.HTTPConfig{Address: "127.0.0.1:0"}, h, log)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
}

func TestTrailingSlashIsAccepted(t *testing.T) {
	f := newAPIFixture(t)

	for _, tc := range []struct {
		collection, body string
	}{
		{"Authors", `{"FirstName":"Ivan","LastName":"Franko","Bio":"Writer"}`},
		{"Books", `{"Title":"Kobzar","Pages":114,"ReleaseYear":1840}`},
		{"Employees", `{"FirstName":"Olena","LastName":"Pchilka","Salary":1200}`},
		{"Publishers", `{"Name":"Osnovy","Country":"Ukraine"}`},
		{"Readers", `{"FirstName":"Lesya","LastName":"Ukrainka","Email":"lesya@example.com","Address":"Kyiv"}`},
	} {
		t.Run(tc.collection, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/"+tc.collection+"/", tc.body)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			rec = f.do(t, http.MethodGet, "/api/"+tc.collection+"/", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEqual(t, "[]", strings.TrimSpace(rec.Body.String()))
		})
	}

	for _, path := range []string{"/api/AvailableBooks/", "/api/Borrows/", "/api/Books/1/Copies/", "/api/Books/1/Authors/"} {
		rec := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestUnmatchedRoutesAnswerWithJSONError(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/Shelves", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())

	rec = f.do(t, http.MethodPatch, "/api/Authors/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, rec.Body.String())
}

func TestBookAuthors_LinkAndUnlink(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/Books", `{"Title":"Zakhar Berkut","Pages":200,"ReleaseYear":1883}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	book := strconv.FormatInt(decodeInto[models.BookView](t, rec).BookID, 10)
	rec = f.do(t, http.MethodPost, "/api/Authors", `{"FirstName":"Ivan","LastName":"Franko","Bio":"Writer"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	author := strconv.FormatInt(decodeInto[models.AuthorView](t, rec).AuthorID, 10)
	link := "/api/Books/" + book + "/Authors/" + author

	rec = f.do(t, http.MethodPost, link, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"BookId":`+book+`,"AuthorId":`+author+`}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, link, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/Books/"+book+"/Authors/9999", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/Books/9999/Authors/"+author, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/Books/"+book+"/Authors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeInto[[]models.BookAuthor](t, rec), 1)

	rec = f.do(t, http.MethodDelete, "/api/Books/"+book, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "a book with authors is still referenced")

	rec = f.do(t, http.MethodDelete, link, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodDelete, link, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/Books/9999/Authors", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCirculation_DatesAreChecked(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	book, err := repository.NewBookRepository(f.db).Create(ctx, models.Book{Title: "Kobzar", Pages: 114, ReleaseYear: 1840})
	require.NoError(t, err)
	reader, err := repository.NewReaderRepository(f.db).Create(ctx, models.Reader{Email: "r@example.com"}, models.Person{FirstName: "R", LastName: "R"})
	require.NoError(t, err)
	employee, err := repository.NewEmployeeRepository(f.db).Create(ctx, models.Employee{Salary: 700}, models.Person{FirstName: "E", LastName: "E"})
	require.NoError(t, err)
	cp, err := repository.NewCirculationRepository(f.db).AddCopy(ctx, book.BookID, nil)
	require.NoError(t, err)

	ids := `"InventoryId":` + strconv.FormatInt(cp.InventoryID, 10) +
		`,"ReaderId":` + strconv.FormatInt(reader.ReaderID, 10) +
		`,"EmployeeId":` + strconv.FormatInt(employee.EmployeeID, 10)

	rec := f.do(t, http.MethodPost, "/api/Borrows", `{`+ids+`,"DueDate":"2000-01-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/Borrows", `{`+ids+`,"IssueDate":"2024-09-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	borrow := decodeInto[models.Borrow](t, rec)

	returnPath := "/api/Borrows/" + strconv.FormatInt(borrow.BorrowID, 10) + "/Return"
	rec = f.do(t, http.MethodPost, returnPath, `{"ReturnDate":"1990-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodGet, "/api/Borrows", "")
	assert.Len(t, decodeInto[[]models.Borrow](t, rec), 1)
}
