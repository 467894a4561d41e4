package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/inventory"
	"github.com/vbonduro/camstock/internal/query"
	"github.com/vbonduro/camstock/internal/service"
)

const maxBodyBytes = 1 << 20

// resource serves one catalog kind. Every request opens its own collection.
type resource[T domain.Entity] struct {
	kind   string
	open   func() *inventory.Collection[T]
	logger *slog.Logger
}

func register[T domain.Entity](mux *http.ServeMux, kind string, open func() *inventory.Collection[T], logger *slog.Logger) {
	res := &resource[T]{kind: kind, open: open, logger: logger}
	mux.HandleFunc("GET /"+kind, res.handleList)
	mux.HandleFunc("POST /"+kind, res.handleCreate)
	mux.HandleFunc("GET /"+kind+"/{id}", res.handleGet)
	mux.HandleFunc("PUT /"+kind+"/{id}", res.handleUpdate)
	mux.HandleFunc("DELETE /"+kind+"/{id}", res.handleDelete)
}

func (res *resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	coll := res.open()
	if err := coll.Import(r.Context(), r.URL.Query().Get("q")); err != nil {
		res.fail(w, r, "list", err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, coll.List())
	case "condensed", "full":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if out := service.Format(coll.List(), format == "condensed"); out != "" {
			_, _ = io.WriteString(w, out+"\n")
		}
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
	}
}

func (res *resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, ok, err := res.lookup(r.Context(), res.open(), id)
	if err != nil {
		res.fail(w, r, "get", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res *resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	item, err := decode[T](r)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	coll := res.open()
	if _, exists, err := res.lookup(r.Context(), coll, item.Key()); err != nil {
		res.fail(w, r, "create", err)
		return
	} else if exists {
		http.Error(w, fmt.Sprintf("%s %d already exists", res.kind, item.Key()), http.StatusConflict)
		return
	}

	coll.Insert(item)
	if err := coll.ExportInserts(r.Context()); err != nil {
		res.fail(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (res *resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	item, err := decode[T](r)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if item.Key() != id {
		http.Error(w, "id in body does not match path", http.StatusBadRequest)
		return
	}

	coll := res.open()
	coll.Update(item)
	if err := coll.ExportUpdates(r.Context()); err != nil {
		res.fail(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res *resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	coll := res.open()
	item, ok, err := res.lookup(r.Context(), coll, id)
	if err != nil {
		res.fail(w, r, "delete", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	coll.Delete(item)
	if err := coll.ExportDeletes(r.Context()); err != nil {
		res.fail(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup imports the single record with the given id into coll.
func (res *resource[T]) lookup(ctx context.Context, coll *inventory.Collection[T], id int64) (T, bool, error) {
	if err := coll.Import(ctx, fmt.Sprintf("eq(id,%d)", id)); err != nil {
		var zero T
		return zero, false, err
	}
	item, ok := coll.Get(id)
	return item, ok, nil
}

func (res *resource[T]) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidCondition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, inventory.ErrNotFound):
		http.NotFound(w, r)
	default:
		http.Error(w, fmt.Sprintf("failed to %s %s", action, res.kind), http.StatusInternalServerError)
		res.logger.Error("request failed", "kind", res.kind, "action", action, "error", err)
	}
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(&v)
	return v, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
