package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/orders-api/internal/domain/order"
)

// orderRequest is the write payload for POST/PUT /orders.
type orderRequest struct {
	Customer string             `json:"customer"`
	Lines    []orderLineRequest `json:"lines"`
}

type orderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// orderResponse embeds the priced lines with resolved product names.
type orderResponse struct {
	ID        int64               `json:"id"`
	Customer  string              `json:"customer"`
	CreatedAt time.Time           `json:"createdAt"`
	Total     float64             `json:"total"`
	Lines     []orderLineResponse `json:"lines"`
}

type orderLineResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

func toOrderResponse(o order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:        o.ID,
		Customer:  o.Customer,
		CreatedAt: o.CreatedAt,
		Total:     o.Total.InexactFloat64(),
		Lines:     lines,
	}
}

func toOrderDomainRequest(req orderRequest) order.Request {
	lines := make([]order.ProposedLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = order.ProposedLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return order.Request{Customer: req.Customer, Lines: lines}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "order not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(*o))
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orders.Create(r.Context(), toOrderDomainRequest(req))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toOrderResponse(*o))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}

	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.orders.Replace(r.Context(), id, toOrderDomainRequest(req)); err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "order not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeOrderError maps pricing and persistence errors to HTTP responses.
// Every validation failure carries enough detail to identify the offending
// field or product id.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		upErr *order.UnknownProductError
		iqErr *order.InvalidQuantityError
	)
	switch {
	case errors.Is(err, order.ErrMissingCustomer),
		errors.Is(err, order.ErrEmptyOrder),
		errors.As(err, &upErr),
		errors.As(err, &iqErr):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrConflict):
		writeError(w, r, http.StatusConflict, "order was modified concurrently")
	default:
		writeStoreError(w, r, err)
	}
}
