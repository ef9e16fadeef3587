package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/app/dto"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/mrops-br/store-api/internal/pkg/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	clock                 clock.Clock
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	clk clock.Clock,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		clock:                 clk,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// fail records a failed operation on the span and the operations counter.
// Domain errors are logged as warnings, anything else as errors.
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var (
		nf    *domain.NotFoundError
		col   *domain.CollisionError
		verrs dto.ValidationErrors
	)
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, domain.ErrInvalidProductQuantity):
		s.logger.WarnContext(ctx, "Invalid product input", slog.String("operation", operation), slog.String("error", err.Error()))
		s.record(ctx, operation, "invalid")
	case errors.As(err, &nf):
		s.logger.WarnContext(ctx, "Product not found", slog.String("operation", operation), slog.String("error", err.Error()))
		s.record(ctx, operation, "not_found")
	case errors.As(err, &col):
		s.logger.WarnContext(ctx, "Product name collision", slog.String("operation", operation), slog.String("error", err.Error()))
		s.record(ctx, operation, "collision")
	default:
		s.logger.ErrorContext(ctx, "Product operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		s.record(ctx, operation, "failure")
	}
	return err
}

// CreateProduct creates a new product, rejecting a name that already exists in any status
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.ProductIn) (*dto.ProductOut, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(
		attribute.String("product.name", *req.Name),
		attribute.String("product.price", req.Price.String()),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", *req.Name),
		slog.String("price", req.Price.String()),
	)

	existing, err := s.repo.FindByName(ctx, *req.Name)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, s.fail(ctx, span, "create", err)
	}
	if existing != nil {
		return nil, s.fail(ctx, span, "create", domain.NewCollisionError(*req.Name))
	}

	product, err := domain.NewProduct(*req.Name, *req.Quantity, *req.Price, *req.Status, req.ActiveStatus(), s.clock.Now())
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID.String()))

	if err := s.repo.Create(ctx, product); err != nil {
		// Lost the race against a concurrent create with the same name.
		if errors.Is(err, domain.ErrDuplicateName) {
			err = domain.NewCollisionError(product.Name)
		}
		return nil, s.fail(ctx, span, "create", err)
	}

	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID.String()),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductOut(product), nil
}

// GetProductByID retrieves an active product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*dto.ProductOut, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	product, err := s.repo.FindByID(ctx, id, domain.OnlyActive)
	if err != nil {
		return nil, s.fail(ctx, span, "read", notFound(err, id))
	}

	s.record(ctx, "read", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductOut(product), nil
}

// ListProducts retrieves active products, optionally bounded by price
func (s *ProductService) ListProducts(ctx context.Context, query dto.ProductQuery) ([]*dto.ProductOut, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	if err := query.Validate(); err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	if query.MinPrice != nil {
		span.SetAttributes(attribute.String("query.min_price", query.MinPrice.String()))
	}
	if query.MaxPrice != nil {
		span.SetAttributes(attribute.String("query.max_price", query.MaxPrice.String()))
	}

	products, err := s.repo.FindAll(ctx, query.ToFilter())
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductOutList(products), nil
}

// UpdateProduct applies the fields present in req to the product with id, whatever its status
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.ProductUpdate) (*dto.ProductUpdateOut, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	if err := req.Validate(); err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	product, err := s.repo.Update(ctx, id, domain.AnyStatus, req.ToPatch(), s.clock.Now())
	if err != nil {
		return nil, s.fail(ctx, span, "update", notFound(err, id))
	}

	s.record(ctx, "update", "success")

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductUpdateOut(product), nil
}

// DeleteProduct marks an active product inactive. It never returns false.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	inactive := domain.StatusInactive
	if _, err := s.repo.Update(ctx, id, domain.OnlyActive, domain.ProductPatch{Status: &inactive}, s.clock.Now()); err != nil {
		return false, s.fail(ctx, span, "delete", notFound(err, id))
	}

	s.record(ctx, "delete", "success")

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return true, nil
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return domain.NewNotFoundError(id)
	}
	return err
}
