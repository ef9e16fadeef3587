package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const productCollectionName = "products"

// ProductRepository is a MongoDB implementation of domain.ProductRepository
type ProductRepository struct {
	collection *mongo.Collection
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewProductRepository creates a repository over the products collection of db
func NewProductRepository(db *mongo.Database, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(productCollectionName),
		tracer:     tracer,
		logger:     logger,
	}
}

// EnsureIndexes creates the unique indexes on id and name
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_id"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Create inserts one product document
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID.String()),
		attribute.String("product.name", product.Name),
	)

	doc, err := newProductDocument(product)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode product")
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		span.RecordError(err)
		if mongo.IsDuplicateKeyError(err) {
			span.SetStatus(codes.Error, "Duplicate product name")
			return domain.ErrDuplicateName
		}
		span.SetStatus(codes.Error, "Failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

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

	return r.findOne(ctx, span, statusFilter(id, filter))
}

// FindByName retrieves a product by name regardless of its status
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByName")
	defer span.End()

	span.SetAttributes(attribute.String("product.name", name))

	return r.findOne(ctx, span, bson.M{"name": name})
}

func (r *ProductRepository) findOne(ctx context.Context, span trace.Span, filter bson.M) (*domain.Product, error) {
	var doc productDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetStatus(codes.Error, "Product not found")
			return nil, domain.ErrProductNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to find product")
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	product, err := doc.toDomain()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode product")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// FindAll retrieves the active products within the price range in natural order
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	query, err := priceFilter(filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid price filter")
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		product, err := docs[i].toDomain()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to decode product")
			return nil, err
		}
		products = append(products, product)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Update applies patch with a single find-and-modify and returns the document after the update
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, filter domain.StatusFilter, patch domain.ProductPatch, updatedAt time.Time) (*domain.Product, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id, filter)
	}

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	pipeline, err := updatePipeline(patch, updatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode update")
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx, statusFilter(id, filter), pipeline, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetStatus(codes.Error, "Product not found")
			return nil, domain.ErrProductNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	product, err := doc.toDomain()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode product")
		return nil, err
	}

	r.logger.DebugContext(ctx, "Product updated in repository",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product updated")
	return product, nil
}
