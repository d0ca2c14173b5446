package handler

import (
	"net/http"

	"github.com/aasthafoundation/careboard/internal/workbook"
)

// AdminHandler exposes the workbook cache. cache is nil on the database
// backend, where both routes answer 404.
type AdminHandler struct {
	cache *workbook.Cache
}

func NewAdminHandler(cache *workbook.Cache) *AdminHandler {
	return &AdminHandler{cache: cache}
}

func (h *AdminHandler) CacheEntries(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": h.cache.Entries()})
}

func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": h.cache.Clear()})
}
