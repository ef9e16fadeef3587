package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
	order    []uuid.UUID
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product, rejecting a name that is already stored
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID.String()),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Name == product.Name {
			span.RecordError(domain.ErrDuplicateName)
			span.SetStatus(codes.Error, "Duplicate product name")
			return domain.ErrDuplicateName
		}
	}

	stored := *product
	r.products[product.ID] = &stored
	r.order = append(r.order, product.ID)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID.String()),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID, filter domain.StatusFilter) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists || !filter.Matches(product.Status) {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found",
			slog.String("product_id", id.String()),
		)
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	found := *product
	return &found, nil
}

// FindByName retrieves a product by name regardless of its status
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindByName")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if p := r.products[id]; p.Name == name {
			found := *p
			return &found, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// FindAll retrieves the active products matching filter in insertion order
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, id := range r.order {
		if p := r.products[id]; filter.Matches(p) {
			found := *p
			products = append(products, &found)
		}
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Update applies patch under the write lock, mirroring a find-and-modify
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, filter domain.StatusFilter, patch domain.ProductPatch, updatedAt time.Time) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists || !filter.Matches(product.Status) {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	product.Apply(patch, updatedAt)

	r.logger.DebugContext(ctx, "Product updated in repository",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product updated")
	updated := *product
	return &updated, nil
}
