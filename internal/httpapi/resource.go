package httpapi

import (
	"context"
	"net/http"
)

// Service is the CRUD contract every entity service fulfils.
type Service[V any] interface {
	List(ctx context.Context) ([]V, error)
	Get(ctx context.Context, id int64) (V, error)
	Create(ctx context.Context, v V) (V, error)
	Update(ctx context.Context, id int64, v V) (V, error)
	Delete(ctx context.Context, id int64) error
}

// resource exposes a Service under /api/{name}.
type resource[V any] struct {
	svc Service[V]
}

func mount[V any](mux *http.ServeMux, name string, svc Service[V]) {
	res := resource[V]{svc: svc}
	base := "/api/" + name
	mux.HandleFunc("GET "+base, res.list)
	mux.HandleFunc("GET "+base+"/{id}", res.get)
	mux.HandleFunc("POST "+base, res.create)
	mux.HandleFunc("PUT "+base+"/{id}", res.update)
	mux.HandleFunc("DELETE "+base+"/{id}", res.delete)
}

func (res resource[V]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.svc.List(r.Context())
	if err != nil {
		fail(w, opList, err)
		return
	}
	if items == nil {
		items = []V{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (res resource[V]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opGet, err)
		return
	}
	v, err := res.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, opGet, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (res resource[V]) create(w http.ResponseWriter, r *http.Request) {
	var in V
	if err := decode(w, r, &in); err != nil {
		fail(w, opCreate, err)
		return
	}
	out, err := res.svc.Create(r.Context(), in)
	if err != nil {
		fail(w, opCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (res resource[V]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opUpdate, err)
		return
	}
	var in V
	if err := decode(w, r, &in); err != nil {
		fail(w, opUpdate, err)
		return
	}
	out, err := res.svc.Update(r.Context(), id, in)
	if err != nil {
		fail(w, opUpdate, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (res resource[V]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, opDelete, err)
		return
	}
	if err := res.svc.Delete(r.Context(), id); err != nil {
		fail(w, opDelete, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
