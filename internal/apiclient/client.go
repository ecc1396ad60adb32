// Package apiclient is a typed Go client for the library REST API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"libraryManagement/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when the server answers 204 for a lookup or delete.
var ErrNotFound = errors.New("apiclient: not found")

// StatusError carries an unexpected HTTP status and the server's error message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("apiclient: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one API server.
type Client struct {
	Authors    *Resource[models.AuthorView]
	Books      *Resource[models.BookView]
	Employees  *Resource[models.EmployeeView]
	Publishers *Resource[models.PublisherView]
	Readers    *Resource[models.ReaderView]
}

// New returns a client for baseURL. A nil httpClient gets a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(baseURL, "/") + "/api/"
	return &Client{
		Authors:    &Resource[models.AuthorView]{http: httpClient, url: base + "Authors"},
		Books:      &Resource[models.BookView]{http: httpClient, url: base + "Books"},
		Employees:  &Resource[models.EmployeeView]{http: httpClient, url: base + "Employees"},
		Publishers: &Resource[models.PublisherView]{http: httpClient, url: base + "Publishers"},
		Readers:    &Resource[models.ReaderView]{http: httpClient, url: base + "Readers"},
	}
}

// Resource is the CRUD surface of one entity collection.
type Resource[V any] struct {
	http *http.Client
	url  string
}

func (r *Resource[V]) List(ctx context.Context) ([]V, error) {
	var out []V
	if err := r.call(ctx, http.MethodGet, r.url, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[V]) Get(ctx context.Context, id int64) (V, error) {
	var out V
	err := r.call(ctx, http.MethodGet, r.itemURL(id), nil, http.StatusOK, &out)
	return out, err
}

func (r *Resource[V]) Create(ctx context.Context, v V) (V, error) {
	var out V
	err := r.call(ctx, http.MethodPost, r.url, v, http.StatusCreated, &out)
	return out, err
}

// Update replaces the entity with id; v must carry the same id.
func (r *Resource[V]) Update(ctx context.Context, id int64, v V) (V, error) {
	var out V
	err := r.call(ctx, http.MethodPut, r.itemURL(id), v, http.StatusCreated, &out)
	return out, err
}

func (r *Resource[V]) Delete(ctx context.Context, id int64) error {
	return r.call(ctx, http.MethodDelete, r.itemURL(id), nil, http.StatusOK, nil)
}

func (r *Resource[V]) itemURL(id int64) string {
	return r.url + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[V]) call(ctx context.Context, method, url string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return ErrNotFound
	}
	if resp.StatusCode != want {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: payload.Error}
}
