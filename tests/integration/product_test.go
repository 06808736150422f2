//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) < 8 {
		t.Fatalf("expected at least 8 products, got %d", len(products))
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != 1 {
		t.Errorf("id: got %d, want 1", p.ID)
	}
	if p.Name == "" {
		t.Error("name is empty")
	}
	if p.Price <= 0 {
		t.Errorf("price: got %v, want > 0", p.Price)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/99999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateProduct(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/products", productRequest{
		Name:  "Integration Test Product",
		Price: 42.50,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	created := decodeJSON[productResponse](t, resp)
	if created.ID == 0 {
		t.Fatal("created product has no id")
	}
	if created.Price != 42.5 {
		t.Errorf("price: got %v, want 42.5", created.Price)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body productRequest
	}{
		{"blank name", productRequest{Name: "  ", Price: 10}},
		{"zero price", productRequest{Name: "Nope", Price: 0}},
		{"negative price", productRequest{Name: "Nope", Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, "/api/products", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body := decodeJSON[errorResponse](t, resp)
			if body.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/products", productRequest{Name: "To Update", Price: 10})
	created := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	path := fmt.Sprintf("/api/products/%d", created.ID)
	resp = do(t, http.MethodPut, path, productRequest{Name: "Updated", Price: 11.25})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doGet(t, path)
	defer resp.Body.Close()
	got := decodeJSON[productResponse](t, resp)
	if got.Name != "Updated" || got.Price != 11.25 {
		t.Errorf("got %+v, want Updated/11.25", got)
	}
}

func TestDeleteProduct(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/products", productRequest{Name: "To Delete", Price: 5})
	created := decodeJSON[productResponse](t, resp)
	resp.Body.Close()

	path := fmt.Sprintf("/api/products/%d", created.ID)
	resp = do(t, http.MethodDelete, path, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doGet(t, path)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}
