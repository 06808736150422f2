package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by order operations.
var (
	ErrNotFound = errors.New("order not found")
	ErrConflict = errors.New("order was modified concurrently")
)

// Order represents a customer order with its priced line items.
type Order struct {
	ID        int64
	Customer  string
	CreatedAt time.Time
	Total     decimal.Decimal
	Version   int64
	Lines     []Line
}

// Line is a stored order line. UnitPrice is a snapshot of the product's
// catalog price at the moment the line was written; later catalog changes
// never touch it. ProductName is resolved at read time and falls back to
// "Unknown" when the product has since been deleted.
type Line struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ProposedLine is a caller-submitted (product, quantity) pair that has not
// been priced yet.
type ProposedLine struct {
	ProductID int64
	Quantity  int
}

// Repository defines persistence operations for orders.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, o *Order) error
	// Replace atomically swaps the stored aggregate for o.ID: customer and
	// total are overwritten and the previous lines are discarded in favour
	// of o.Lines. It returns ErrConflict when the row version moved since
	// o was read.
	Replace(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
}
