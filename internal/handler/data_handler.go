package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/aasthafoundation/careboard/internal/repository"
	"github.com/aasthafoundation/careboard/internal/service"
)

// DataHandler serves /api/data/{resource} for the active backend.
type DataHandler struct {
	backend service.Backend
}

func NewDataHandler(backend service.Backend) *DataHandler {
	return &DataHandler{backend: backend}
}

// ReadOnly reports whether the backend rejects every mutation.
func (h *DataHandler) ReadOnly() bool {
	return h.backend.ReadOnly()
}

func (h *DataHandler) List(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.resource(w, r)
	if !ok {
		return
	}
	recs, err := h.backend.List(r.Context(), resource)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("Failed to load data")
		writeError(w, http.StatusInternalServerError, "Unable to load data: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *DataHandler) Create(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.writable(w, r)
	if !ok {
		return
	}
	body, ok := decodeBody(w, r, false)
	if !ok {
		return
	}
	rec, err := h.backend.Create(r.Context(), resource, body)
	if err != nil {
		h.fail(w, resource, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update expects {id, ...fields}; only the given fields change.
func (h *DataHandler) Update(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.writable(w, r)
	if !ok {
		return
	}
	body, ok := decodeBody(w, r, false)
	if !ok {
		return
	}
	id := takeID(r, body)
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	rec, err := h.backend.Update(r.Context(), resource, id, body)
	if err != nil {
		h.fail(w, resource, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete takes the id from a {id} body or, failing that, from ?id=.
func (h *DataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.writable(w, r)
	if !ok {
		return
	}
	body, ok := decodeBody(w, r, true)
	if !ok {
		return
	}
	id := takeID(r, body)
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	rec, err := h.backend.Delete(r.Context(), resource, id)
	if err != nil {
		h.fail(w, resource, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *DataHandler) resource(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "resource")
	if _, ok := service.LookupResource(name); !ok {
		log.Warn().Str("resource", name).Msg("Resource not found")
		h.unknown(w, name)
		return "", false
	}
	return name, true
}

func (h *DataHandler) writable(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, ok := h.resource(w, r)
	if !ok {
		return "", false
	}
	if h.backend.ReadOnly() {
		writeError(w, http.StatusNotFound, "Not found")
		return "", false
	}
	return name, true
}

func (h *DataHandler) unknown(w http.ResponseWriter, name string) {
	if h.backend.ReadOnly() {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeError(w, http.StatusNotFound, "Unsupported resource: "+name)
}

func (h *DataHandler) fail(w http.ResponseWriter, resource string, err error) {
	var colErr *repository.ColumnError
	switch {
	case errors.Is(err, service.ErrUnknownResource):
		h.unknown(w, resource)
	case errors.Is(err, service.ErrReadOnly):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrMissingID):
		writeError(w, http.StatusBadRequest, "Missing id")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.As(err, &colErr):
		writeError(w, http.StatusBadRequest, colErr.Error())
	default:
		log.Error().Err(err).Str("resource", resource).Msg("Data operation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody reads a JSON object. An empty body is accepted only when
// allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, allowEmpty bool) (map[string]any, bool) {
	body := map[string]any{}
	if err := readJSON(r, &body); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return map[string]any{}, true
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

// takeID removes "id" from body and returns it as text.
func takeID(r *http.Request, body map[string]any) string {
	raw, ok := body["id"]
	delete(body, "id")
	if !ok || raw == nil {
		return strings.TrimSpace(r.URL.Query().Get("id"))
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
