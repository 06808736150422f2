package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Validation errors for catalog writes.
var (
	ErrMissingName  = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be greater than 0")
)

// Service encapsulates catalog field validation on top of a Repository.
type Service struct {
	products Repository
}

// NewService creates a catalog Service backed by the given repository.
func NewService(products Repository) *Service {
	return &Service{products: products}
}

// List returns every product in the catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.products.List(ctx)
}

// Get returns a single product by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

// Create validates the fields and persists a new product. The generated ID
// is set on p.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

// Update validates the fields and replaces the stored product. The ID comes
// from the URL, never the body, so callers set it explicitly.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.products.Update(ctx, p)
}

// Delete removes a product from the catalog. Historical order lines keep
// their price snapshots.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func validate(p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
