package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateName   = errors.New("product name already exists")
)

// NotFoundError is returned when no document matches the requested filter
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Unwrap lets callers match the error against ErrProductNotFound
func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }

// NewNotFoundError builds the error reported for a missing product id
func NewNotFoundError(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("Product not found with filter: %s", id)}
}

// CollisionError is returned when a create would break name uniqueness
type CollisionError struct {
	Message string
}

func (e *CollisionError) Error() string { return e.Message }

func (e *CollisionError) Unwrap() error { return ErrDuplicateName }

func NewCollisionError(name string) *CollisionError {
	return &CollisionError{Message: fmt.Sprintf("Product with name %s already exists", name)}
}

// StatusFilter restricts a lookup by lifecycle status
type StatusFilter int

const (
	OnlyActive StatusFilter = iota
	AnyStatus
)

// Matches reports whether a product in status s passes the filter
func (f StatusFilter) Matches(s Status) bool {
	switch f {
	case OnlyActive:
		return s == StatusActive
	case AnyStatus:
		return true
	}
	return false
}

// ProductFilter selects active products within an inclusive price range.
// Nil bounds are not applied.
type ProductFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Matches reports whether p is active and inside the price range
func (f ProductFilter) Matches(p *Product) bool {
	if p.Status != StatusActive {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// ProductPatch is a partial update. Only non-nil fields are written.
type ProductPatch struct {
	Quantity  *int
	Price     *decimal.Decimal
	Available *bool
	Status    *Status
}

// IsEmpty reports whether the patch carries no field
func (p ProductPatch) IsEmpty() bool {
	return p.Quantity == nil && p.Price == nil && p.Available == nil && p.Status == nil
}

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	// Create stores a new product. It returns ErrDuplicateName when the store
	// rejects the name as already taken.
	Create(ctx context.Context, product *Product) error
	// FindByID returns ErrProductNotFound when no product with id passes the filter.
	FindByID(ctx context.Context, id uuid.UUID, filter StatusFilter) (*Product, error)
	// FindByName looks the name up regardless of status.
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, error)
	// Update atomically applies patch to the product with id passing the status
	// filter, sets UpdatedAt and returns the product as stored afterwards.
	Update(ctx context.Context, id uuid.UUID, filter StatusFilter, patch ProductPatch, updatedAt time.Time) (*Product, error)
}
