package qualify

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"
)

// Progress streams state changes over a WebSocket until the session reaches
// success or the client goes away.
//
// GET /api/widget/sessions/{sessionID}/progress
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	widget, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.streamProgress(conn, widget)
	}).ServeHTTP(w, r)
}

func (h *Handler) streamProgress(conn *websocket.Conn, widget *Widget) {
	updates, stop := widget.Subscribe()
	defer stop()

	// Reads only detect the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var discard []byte
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			h.logger.Debug("progress stream closed by client", "session_id", widget.ID())
			return
		case st := <-updates:
			if err := websocket.JSON.Send(conn, st); err != nil {
				h.logger.Debug("progress stream send failed", "session_id", widget.ID(), "error", err)
				return
			}
			if st.View == ViewSuccess {
				return
			}
		}
	}
}
