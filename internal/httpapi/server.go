// Package httpapi serves the library catalog as a JSON REST API under /api.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"libraryManagement/internal/config"
	"libraryManagement/internal/logging"
	"libraryManagement/models"
)

// Services groups everything the router dispatches to. BookAuthors and Circulation are optional.
type Services struct {
	Authors     Service[models.AuthorView]
	Books       Service[models.BookView]
	Employees   Service[models.EmployeeView]
	Publishers  Service[models.PublisherView]
	Readers     Service[models.ReaderView]
	BookAuthors BookAuthors
	Circulation Circulation
}

// NewHandler builds the routed and instrumented API handler.
func NewHandler(svc Services, log logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mount(mux, "Authors", svc.Authors)
	mount(mux, "Books", svc.Books)
	mount(mux, "Employees", svc.Employees)
	mount(mux, "Publishers", svc.Publishers)
	mount(mux, "Readers", svc.Readers)
	if svc.BookAuthors != nil {
		mountBookAuthors(mux, svc.BookAuthors)
	}
	if svc.Circulation != nil {
		mountCirculation(mux, svc.Circulation)
	}
	return Chain(router{mux: mux}, RequestID(), AccessLog(log), RecoverPanic(log))
}

// router accepts paths with a trailing slash (/api/Authors/) and answers
// unmatched routes with the JSON error body instead of the mux's plain text.
type router struct {
	mux *http.ServeMux
}

func (rt router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		u := *r.URL
		u.Path = strings.TrimRight(p, "/")
		u.RawPath = ""
		r2 := new(http.Request)
		*r2 = *r
		r2.URL = &u
		r = r2
	}
	if _, pattern := rt.mux.Handler(r); pattern == "" {
		rt.mux.ServeHTTP(&jsonErrorWriter{ResponseWriter: w}, r)
		return
	}
	rt.mux.ServeHTTP(w, r)
}

// jsonErrorWriter replaces any error body with {"error": status text}. Headers
// such as Allow set before WriteHeader are kept.
type jsonErrorWriter struct {
	http.ResponseWriter
	replaced bool
}

func (w *jsonErrorWriter) WriteHeader(code int) {
	if code < http.StatusBadRequest {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	w.replaced = true
	w.Header().Del("X-Content-Type-Options")
	writeError(w.ResponseWriter, code, http.StatusText(code))
}

func (w *jsonErrorWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

// StartHTTP listens on cfg.Address and serves h in the background.
// The returned function drains in-flight requests and stops the server.
func StartHTTP(cfg config.HTTPConfig, h http.Handler, log logging.Logger) (func(context.Context) error, error) {
	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	go func() {
		log.Info("http server listening", "address", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "err", err)
		}
	}()
	return srv.Shutdown, nil
}
