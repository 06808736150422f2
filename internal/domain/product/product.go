package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by catalog operations.
var (
	ErrNotFound = errors.New("product not found")
	ErrConflict = errors.New("product was modified concurrently")
)

// Product represents a catalog item available for ordering.
type Product struct {
	ID      int64
	Name    string
	Price   decimal.Decimal
	Version int64
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// GetByIDs returns products matching any of the given IDs in a single
	// query, so one pricing computation observes one consistent snapshot
	// of catalog prices.
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
