package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/orders-api/internal/domain/product"
)

// productRequest is the write payload for POST/PUT /products. Price is
// decoded as a decimal so catalog values never pass through float64.
type productRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// productResponse is the read representation of a catalog product.
type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.InexactFloat64(),
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := &product.Product{Name: req.Name, Price: req.Price}
	if err := h.catalog.Create(r.Context(), p); err != nil {
		h.writeProductError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toProductResponse(*p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	existing, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}

	// The URL id wins over anything in the body.
	p := &product.Product{
		ID:      id,
		Name:    req.Name,
		Price:   req.Price,
		Version: existing.Version,
	}
	if err := h.catalog.Update(r.Context(), p); err != nil {
		h.writeProductError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeProductError maps catalog domain errors to HTTP responses.
func (h *Handler) writeProductError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrMissingName), errors.Is(err, product.ErrInvalidPrice):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "product not found")
	case errors.Is(err, product.ErrConflict):
		writeError(w, r, http.StatusConflict, "product was modified concurrently")
	default:
		writeStoreError(w, r, err)
	}
}
