package content

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
)

// Handler serves the catalog read-only.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

func NewHandler(catalog *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{section}", h.GetSection)
	r.Get("/insights/{postID}", h.GetPost)
	return r
}

// GET /api/content/{section}
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.Section(chi.URLParam(r, "section"))
	if errors.Is(err, ErrUnknownSection) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GET /api/content/insights/{postID}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.catalog.Post(chi.URLParam(r, "postID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
