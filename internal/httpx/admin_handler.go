package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pamlee/go-storefront/internal/channel"
	"github.com/pamlee/go-storefront/internal/orders"
)

// AdminHandler is the operator surface: list orders, move them through
// their lifecycle, and watch order events live.
type AdminHandler struct {
	Log     *orders.Log
	Channel channel.Channel
}

type updateOrderReq struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{trackerId}", h.getOrder)
	r.Patch("/orders/{trackerId}", h.updateOrder)
	r.Get("/events", h.streamEvents)
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	all, err := h.Log.All(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *AdminHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Log.Get(ctx, chi.URLParam(r, "trackerId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "missing status")
		return
	}

	ctx, cancel := reqCtx(r)
	defer cancel()

	// The log treats unknown ids as a no-op, so check existence here to
	// give the operator a 404.
	trackerID := chi.URLParam(r, "trackerId")
	o, err := h.Log.Get(ctx, trackerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	err = h.Log.Update(ctx, trackerID, req.Status, req.Note)
	switch {
	case errors.Is(err, orders.ErrStatusNotAllowed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamEvents relays order events to the admin UI as server-sent
// events. Delivery inherits the channel's best-effort contract.
func (h *AdminHandler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan orders.Event, 16)
	cancel, err := orders.Listen(h.Channel, func(ev orders.Event) {
		select {
		case events <- ev:
		default: // slow consumer, drop
		}
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}
