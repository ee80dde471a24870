package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamlee/go-storefront/internal/cart"
	"github.com/pamlee/go-storefront/internal/channel"
	"github.com/pamlee/go-storefront/internal/checkout"
	"github.com/pamlee/go-storefront/internal/httpx"
	"github.com/pamlee/go-storefront/internal/orders"
	"github.com/pamlee/go-storefront/internal/store"
)

// newServers spins up the storefront and admin surfaces over one
// shared store, the way the two binaries run in production.
func newServers(t *testing.T) (storefront, admin *httptest.Server) {
	t.Helper()
	return newServersOn(t, store.NewMem())
}

func newServersOn(t *testing.T, st store.Store) (storefront, admin *httptest.Server) {
	t.Helper()
	basket := cart.New(st)
	orderLog := orders.NewLog(st, channel.Noop{})

	router := httpx.NewRouter()
	sh := &httpx.StorefrontHandler{
		Cart: basket,
		Checkout: &checkout.Orchestrator{
			Cart:             basket,
			Log:              orderLog,
			Store:            st,
			DeliveryFeeCents: 4000,
			GuestEmail:       "guest@pamlee.co.za",
		},
		Log: orderLog,
	}
	sh.Register(router)
	storefront = httptest.NewServer(router)
	t.Cleanup(storefront.Close)

	adminRouter := httpx.NewRouter()
	ah := &httpx.AdminHandler{Log: orderLog, Channel: channel.Noop{}}
	ah.Register(adminRouter)
	admin = httptest.NewServer(adminRouter)
	t.Cleanup(admin.Close)

	return storefront, admin
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestProductsFilter(t *testing.T) {
	srv, _ := newServers(t)

	resp := do(t, http.MethodGet, srv.URL+"/products?category=bread", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Equal(t, "bread", p["category"])
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	srv, _ := newServers(t)

	// unknown product is rejected before it can touch the cart
	resp := do(t, http.MethodPost, srv.URL+"/cart/items", `{"id":"999"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// checkout on an empty cart is refused
	resp = do(t, http.MethodPost, srv.URL+"/checkout", `{"paymentMethod":"cash","fulfilment":"pickup"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/cart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartView struct {
		Items []cart.Item `json:"items"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartView))
	require.Len(t, cartView.Items, 1)
	assert.Equal(t, 2, cartView.Items[0].Quantity)
	assert.Equal(t, 50000, cartView.Total)

	resp = do(t, http.MethodPost, srv.URL+"/checkout", `{"paymentMethod":"card","fulfilment":"delivery"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var receipt checkout.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))
	assert.Equal(t, 54000, receipt.TotalCents)
	require.NotEmpty(t, receipt.TrackerID)

	// the customer can track the order...
	resp = do(t, http.MethodGet, srv.URL+"/orders/"+receipt.TrackerID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var placed orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&placed))
	assert.Equal(t, orders.StatusPlaced, placed.Status)

	// ...and the cart is empty again
	resp = do(t, http.MethodGet, srv.URL+"/cart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cartView.Items = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartView))
	assert.Empty(t, cartView.Items)
}

func TestAdminUpdateOrder(t *testing.T) {
	srv, admin := newServers(t)

	resp := do(t, http.MethodPost, srv.URL+"/cart/items", `{"id":"2"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/checkout", `{"paymentMethod":"eft","fulfilment":"pickup"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var receipt checkout.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))

	resp = do(t, http.MethodPatch, admin.URL+"/orders/PL-NOPE", `{"status":"ready"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPatch, admin.URL+"/orders/"+receipt.TrackerID, `{"status":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, admin.URL+"/orders/"+receipt.TrackerID, `{"status":"ready","note":"On the counter"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/orders/"+receipt.TrackerID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, "ready", updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, "On the counter", updated.Timeline[1].Message)
	assert.NotZero(t, updated.UpdatedAt)
}

// failingStore refuses order-collection writes, standing in for an
// exhausted persistence layer.
type failingStore struct {
	store.Store
}

func (f failingStore) Set(ctx context.Context, key, raw string) error {
	if key == store.KeyOrders {
		return errors.New("storage exhausted")
	}
	return f.Store.Set(ctx, key, raw)
}

func TestCheckoutErrorStatusMapping(t *testing.T) {
	srv, _ := newServersOn(t, failingStore{store.NewMem()})

	resp := do(t, http.MethodPost, srv.URL+"/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the customer picking something off-menu is their error
	resp = do(t, http.MethodPost, srv.URL+"/checkout", `{"paymentMethod":"bitcoin","fulfilment":"pickup"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// a store that cannot persist the order is ours
	resp = do(t, http.MethodPost, srv.URL+"/checkout", `{"paymentMethod":"cash","fulfilment":"pickup"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// the failed attempt left the cart intact
	resp = do(t, http.MethodGet, srv.URL+"/cart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartView struct {
		Items []cart.Item `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartView))
	assert.Len(t, cartView.Items, 1)
}
