package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/store"
)

const recentActivityLimit = 10

// ItemsHandler serves report creation, search and statistics.
type ItemsHandler struct {
	store *store.Store
}

func NewItemsHandler(st *store.Store) *ItemsHandler {
	return &ItemsHandler{store: st}
}

func (h *ItemsHandler) RegisterRoutes(r chi.Router) {
	r.Post("/items/{kind}", h.handleCreate)
	r.Get("/items/{kind}", h.handleSearch)
	r.Get("/stats", h.handleStats)
}

type createResponse struct {
	items.Item
	Reference string `json:"reference"`
	Warning   string `json:"warning,omitempty"`
}

type validationResponse struct {
	Error           string   `json:"error"`
	Missing         []string `json:"missing,omitempty"`
	UnknownCategory string   `json:"unknown_category,omitempty"`
}

type statsResponse struct {
	items.Stats
	Recent []items.Activity `json:"recent"`
}

func (h *ItemsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	var payload items.Fields
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := payload.Normalize()
	if err := fields.Validate(); err != nil {
		var verr *items.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, validationResponse{
				Error:           "Please fill all required fields!",
				Missing:         verr.Missing,
				UnknownCategory: verr.UnknownCategory,
			})
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.Create(kind, fields)
	resp := createResponse{Item: item, Reference: reference(kind, item.ID)}
	var perr *store.PersistError
	switch {
	case errors.As(err, &perr):
		log.Printf("⚠️ %s kept in memory only: %v", resp.Reference, perr)
		resp.Warning = "report saved for this session but could not be written to disk"
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *ItemsHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.store.Search(kind, strings.TrimSpace(r.URL.Query().Get("q"))))
}

func (h *ItemsHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statsResponse{
		Stats:  h.store.Stats(),
		Recent: h.store.Recent(recentActivityLimit),
	})
}

func kindParam(w http.ResponseWriter, r *http.Request) (items.Kind, bool) {
	kind, err := items.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}

func reference(kind items.Kind, id int) string {
	return kind.Label() + "-" + strconv.Itoa(id)
}
