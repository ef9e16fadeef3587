package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName     = errors.New("product name is required")
	ErrInvalidProductPrice    = errors.New("invalid product price")
	ErrInvalidProductQuantity = errors.New("product quantity must not be negative")
)

// Status is the lifecycle state of a product. Inactive products are soft-deleted.
type Status int

const (
	StatusActive Status = iota
	StatusInactive
)

// StatusFromActive maps the persisted is_active flag to a Status
func StatusFromActive(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// IsActive reports the persisted is_active flag for the status
func (s Status) IsActive() bool {
	switch s {
	case StatusActive:
		return true
	case StatusInactive:
		return false
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	}
	return "unknown"
}

// Product represents the product entity
type Product struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	Price     decimal.Decimal
	Available bool
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct creates a new product with validation.
// Timestamps are truncated to milliseconds, the precision the document store keeps.
func NewProduct(name string, quantity int, price decimal.Decimal, available bool, status Status, now time.Time) (*Product, error) {
	now = now.UTC().Truncate(time.Millisecond)
	product := &Product{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Available: available,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if p.Quantity < 0 {
		return ErrInvalidProductQuantity
	}
	return nil
}

// Apply copies the fields present in patch onto the product and refreshes UpdatedAt
// when at least one field was present. It reports whether anything was applied.
// UpdatedAt always moves forward, by at least one millisecond.
func (p *Product) Apply(patch ProductPatch, now time.Time) bool {
	if patch.IsEmpty() {
		return false
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = NextUpdatedAt(p.UpdatedAt, now)
	return true
}

// NextUpdatedAt returns now at millisecond precision, or prev plus one millisecond
// when now does not come after prev.
func NextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(prev) {
		return prev.UTC().Add(time.Millisecond)
	}
	return now
}
