package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/orders-api/internal/domain/product"
)

// Sentinel errors for order validation.
var (
	ErrMissingCustomer = errors.New("customer name is required")
	ErrEmptyOrder      = errors.New("order must contain at least one line")
)

// UnknownProductError indicates a line references a product that does not
// exist in the catalog.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product %d does not exist", e.ProductID)
}

// InvalidQuantityError indicates a line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// Request holds the caller input for creating or replacing an order.
type Request struct {
	Customer string
	Lines    []ProposedLine
}

// Service prices and persists orders. Pricing is a pure function of the
// catalog state at call time and the proposed lines; every validation
// failure aborts the whole operation before any write happens.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{products: products, orders: orders}
}

// List returns all orders with their lines.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// Get returns a single order by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Create validates and prices the proposed lines, then persists the order
// atomically. The creation timestamp is set by the store, once.
func (s *Service) Create(ctx context.Context, req Request) (*Order, error) {
	o, err := s.priceRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Replace applies the identical pricing algorithm to the replacement line
// set and swaps the stored aggregate: the existing lines are discarded,
// never merged, and the total is recomputed from the new set. Prior price
// snapshots are not reused.
func (s *Service) Replace(ctx context.Context, id int64, req Request) (*Order, error) {
	existing, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o, err := s.priceRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	o.ID = existing.ID
	o.CreatedAt = existing.CreatedAt
	o.Version = existing.Version

	if err := s.orders.Replace(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an order and, by cascade, its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

// priceRequest validates the request, resolves every referenced product in
// one batch read, snapshots unit prices and computes the discounted total.
func (s *Service) priceRequest(ctx context.Context, req Request) (*Order, error) {
	if strings.TrimSpace(req.Customer) == "" {
		return nil, ErrMissingCustomer
	}
	if len(req.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]int64, len(req.Lines))
	for i, l := range req.Lines {
		ids[i] = l.ProductID
	}

	// Single batch fetch: one consistent snapshot of catalog prices for
	// the whole computation.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[int64]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	lines := make([]Line, len(req.Lines))
	for i, l := range req.Lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, &UnknownProductError{ProductID: l.ProductID}
		}
		if l.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: l.ProductID}
		}
		lines[i] = Line{
			ProductID:   l.ProductID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   p.Price,
		}
	}

	pricing := price(lines)

	return &Order{
		Customer: req.Customer,
		Total:    pricing.Total,
		Lines:    lines,
	}, nil
}
