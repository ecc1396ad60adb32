package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryManagement/internal/httpapi"
	"libraryManagement/internal/service"
	"libraryManagement/internal/testutil"
	"libraryManagement/models"
	"libraryManagement/repository"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	d := testutil.OpenInMemoryDB(t)
	log, _ := testutil.NewLogger()
	pubRepo := repository.NewPublisherRepository(d)
	h := httpapi.NewHandler(httpapi.Services{
		Authors:    service.NewAuthorService(repository.NewAuthorRepository(d), log),
		Books:      service.NewBookService(repository.NewBookRepository(d), pubRepo, log),
		Employees:  service.NewEmployeeService(repository.NewEmployeeRepository(d), log),
		Publishers: service.NewPublisherService(pubRepo, log),
		Readers:    service.NewReaderService(repository.NewReaderRepository(d), log),
	}, log)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

func TestClient_EmployeeLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.Employees.Create(ctx, models.EmployeeView{FirstName: "Olena", LastName: "Pchilka", Salary: 1200})
	require.NoError(t, err)
	require.NotZero(t, created.EmployeeID)

	created.Salary = 1500
	updated, err := c.Employees.Update(ctx, created.EmployeeID, created)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Salary)

	all, err := c.Employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Olena", all[0].FirstName)

	require.NoError(t, c.Employees.Delete(ctx, created.EmployeeID))
	_, err = c.Employees.Get(ctx, created.EmployeeID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Employees.Delete(ctx, created.EmployeeID), ErrNotFound)
}

func TestClient_StatusErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Employees.Create(ctx, models.EmployeeView{FirstName: "No", LastName: "Salary"})
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	assert.NotEmpty(t, se.Message)

	_, err = c.Publishers.Create(ctx, models.PublisherView{Name: "Unknown", Country: "Nowhere"})
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusConflict, se.StatusCode)
}

func TestClient_BooksUseDefaultPublisher(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	b, err := c.Books.Create(ctx, models.BookView{Title: "Lisova pisnia", Pages: 96, ReleaseYear: 1911})
	require.NoError(t, err)
	require.NotNil(t, b.PublisherID)
	assert.Equal(t, models.DefaultPublisherID, *b.PublisherID)

	got, err := c.Books.Get(ctx, b.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Lisova pisnia", got.Title)
}
