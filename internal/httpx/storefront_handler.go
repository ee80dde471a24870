package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pamlee/go-storefront/internal/cart"
	"github.com/pamlee/go-storefront/internal/catalog"
	"github.com/pamlee/go-storefront/internal/checkout"
	"github.com/pamlee/go-storefront/internal/orders"
)

// StorefrontHandler is the customer-facing surface: browse products,
// mutate the cart, check out, track an order.
type StorefrontHandler struct {
	Cart     *cart.Cart
	Checkout *checkout.Orchestrator
	Log      *orders.Log
}

type addItemReq struct {
	ID string `json:"id"`
}

type setQuantityReq struct {
	Delta int `json:"delta"`
}

type checkoutReq struct {
	PaymentMethod orders.PaymentMethod `json:"paymentMethod"`
	Fulfilment    orders.Fulfilment    `json:"fulfilment"`
}

func (h *StorefrontHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{id}", h.setQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Post("/checkout", h.checkout)
	r.Get("/orders/{trackerId}", h.getOrder)
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.ByCategory(r.URL.Query().Get("category")))
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()

	items, err := h.Cart.Items(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := h.Cart.TotalCents(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *StorefrontHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	// price and name come from the catalog, never from the client
	p := catalog.Get(req.ID)
	if p == nil {
		writeError(w, http.StatusNotFound, "unknown product")
		return
	}

	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Cart.Add(ctx, p.ID, p.Name, p.PriceCents, p.Image); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Cart.SetQuantity(ctx, chi.URLParam(r, "id"), req.Delta); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Cart.Remove(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := reqCtx(r)
	defer cancel()
	receipt, err := h.Checkout.Finalize(ctx, req.PaymentMethod, req.Fulfilment)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "your cart is empty")
		return
	case errors.Is(err, checkout.ErrUnknownChoice):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		// persistence failure, not the customer's doing
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *StorefrontHandler) getOrder(w http.ResponseWriter, r *http.Request) {
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

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}
