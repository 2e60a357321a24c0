package qualify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/creativeiyke/agency-platform/internal/leads"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
)

// Handler exposes widget sessions over HTTP.
type Handler struct {
	store  *SessionStore
	logger *logging.Logger
}

// NewHandler creates the widget API handler.
func NewHandler(store *SessionStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Routes mounts the session endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Put("/query", h.SetQuery)
		r.Post("/analyze", h.Analyze)
		r.Post("/unlock", h.action((*Widget).Unlock))
		r.Post("/reset", h.action((*Widget).Reset))
		r.Post("/cancel", h.action((*Widget).Cancel))
		r.Post("/next", h.action((*Widget).Next))
		r.Post("/back", h.action((*Widget).Back))
		r.Post("/new-query", h.action((*Widget).NewQuery))
		r.Put("/sector", h.SetSector)
		r.Post("/scope/toggle", h.ToggleScope)
		r.Put("/contact", h.SetContact)
		r.Post("/email-check", h.CheckEmail)
		r.Put("/budget", h.SetBudget)
		r.Put("/honeypot", h.SetHoneypot)
		r.Post("/submit", h.Submit)
		r.Get("/progress", h.Progress)
	})
	return r
}

type queryRequest struct {
	Query string `json:"query"`
}

type sectorRequest struct {
	Sector string `json:"sector"`
}

type scopeRequest struct {
	Item string `json:"item"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

type budgetRequest struct {
	Band   *string `json:"band"`
	Custom *string `json:"custom"`
}

type honeypotRequest struct {
	Value string `json:"value"`
}

// POST /api/widget/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	widget := h.store.Create()
	if req.Query != "" {
		if err := widget.SetQuery(req.Query); err != nil {
			h.fail(w, err)
			return
		}
	}
	h.logger.Info("widget session created", "session_id", widget.ID())
	writeJSON(w, http.StatusCreated, widget.Snapshot())
}

// GET /api/widget/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, widget.Snapshot())
}

// DELETE /api/widget/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	h.store.Delete(widget.ID())
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/widget/sessions/{sessionID}/query
func (h *Handler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		return widget.SetQuery(req.Query)
	})
}

// POST /api/widget/sessions/{sessionID}/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	if err := widget.RunAnalysis(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widget.Snapshot())
}

// PUT /api/widget/sessions/{sessionID}/sector
func (h *Handler) SetSector(w http.ResponseWriter, r *http.Request) {
	var req sectorRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		return widget.SelectSector(req.Sector)
	})
}

// POST /api/widget/sessions/{sessionID}/scope/toggle
func (h *Handler) ToggleScope(w http.ResponseWriter, r *http.Request) {
	var req scopeRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		return widget.ToggleScope(req.Item)
	})
}

// PUT /api/widget/sessions/{sessionID}/contact
func (h *Handler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		return widget.SetContact(req.Name, req.Email, req.Website)
	})
}

// POST /api/widget/sessions/{sessionID}/email-check
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	if _, err := widget.CheckEmail(); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widget.Snapshot())
}

// PUT /api/widget/sessions/{sessionID}/budget
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		switch {
		case req.Band != nil:
			return widget.SelectBudget(*req.Band)
		case req.Custom != nil:
			return widget.SetCustomBudget(*req.Custom)
		default:
			return leads.ErrMissingBudget
		}
	})
}

// PUT /api/widget/sessions/{sessionID}/honeypot
func (h *Handler) SetHoneypot(w http.ResponseWriter, r *http.Request) {
	var req honeypotRequest
	h.withBody(w, r, &req, func(widget *Widget) error {
		return widget.SetHoneypot(req.Value)
	})
}

// POST /api/widget/sessions/{sessionID}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	if err := widget.Submit(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, widget.Snapshot())
}

func (h *Handler) action(fn func(*Widget) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, ok := h.widget(w, r)
		if !ok {
			return
		}
		if err := fn(widget); err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, widget.Snapshot())
	}
}

func (h *Handler) withBody(w http.ResponseWriter, r *http.Request, dst any, fn func(*Widget) error) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := fn(widget); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widget.Snapshot())
}

func (h *Handler) widget(w http.ResponseWriter, r *http.Request) (*Widget, bool) {
	widget, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return widget, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("widget request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrStepIncomplete),
		errors.Is(err, leads.ErrUnknownSector),
		errors.Is(err, leads.ErrUnknownScope),
		errors.Is(err, leads.ErrUnknownBudget),
		errors.Is(err, leads.ErrMissingBudget):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
