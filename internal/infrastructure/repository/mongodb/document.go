package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// uuidSubtype is the BSON binary subtype of the standard UUID representation
const uuidSubtype byte = 0x04

// productDocument is the stored shape of a product
type productDocument struct {
	ID        primitive.Binary     `bson:"id"`
	Name      string               `bson:"name"`
	Quantity  int64                `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	Status    bool                 `bson:"status"`
	IsActive  bool                 `bson:"is_active"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func uuidBinary(id uuid.UUID) primitive.Binary {
	return primitive.Binary{Subtype: uuidSubtype, Data: id[:]}
}

// toDecimal128 converts an exact decimal into the BSON storage type, keeping its scale
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("%w: value with exponent %d does not fit in decimal128", domain.ErrInvalidProductPrice, d.Exponent())
	}
	return d128, nil
}

// fromDecimal128 converts the BSON storage type back into an exact decimal
func fromDecimal128(d128 primitive.Decimal128) (decimal.Decimal, error) {
	coef, exp, err := d128.BigInt()
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to decode price: %w", err)
	}
	return decimal.NewFromBigInt(coef, int32(exp)), nil
}

func newProductDocument(p *domain.Product) (*productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}
	return &productDocument{
		ID:        uuidBinary(p.ID),
		Name:      p.Name,
		Quantity:  int64(p.Quantity),
		Price:     price,
		Status:    p.Available,
		IsActive:  p.Status.IsActive(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (d *productDocument) toDomain() (*domain.Product, error) {
	id, err := uuid.FromBytes(d.ID.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product id: %w", err)
	}
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:        id,
		Name:      d.Name,
		Quantity:  int(d.Quantity),
		Price:     price,
		Available: d.Status,
		Status:    domain.StatusFromActive(d.IsActive),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func statusFilter(id uuid.UUID, filter domain.StatusFilter) bson.M {
	f := bson.M{"id": uuidBinary(id)}
	switch filter {
	case domain.OnlyActive:
		f["is_active"] = true
	case domain.AnyStatus:
	}
	return f
}

func priceFilter(filter domain.ProductFilter) (bson.M, error) {
	f := bson.M{"is_active": true}
	price := bson.M{}
	if filter.MinPrice != nil {
		d128, err := toDecimal128(*filter.MinPrice)
		if err != nil {
			return nil, err
		}
		price["$gte"] = d128
	}
	if filter.MaxPrice != nil {
		d128, err := toDecimal128(*filter.MaxPrice)
		if err != nil {
			return nil, err
		}
		price["$lte"] = d128
	}
	if len(price) > 0 {
		f["price"] = price
	}
	return f, nil
}

// updatePipeline builds the single-stage update for a patch. updated_at is set to
// at, or one millisecond past the stored value when at does not come after it.
func updatePipeline(patch domain.ProductPatch, at time.Time) (mongo.Pipeline, error) {
	set := bson.D{}
	if patch.Quantity != nil {
		set = append(set, bson.E{Key: "quantity", Value: int64(*patch.Quantity)})
	}
	if patch.Price != nil {
		d128, err := toDecimal128(*patch.Price)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "price", Value: d128})
	}
	if patch.Available != nil {
		set = append(set, bson.E{Key: "status", Value: *patch.Available})
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "is_active", Value: patch.Status.IsActive()})
	}
	set = append(set, bson.E{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{
		at.UTC().Truncate(time.Millisecond),
		bson.D{{Key: "$add", Value: bson.A{"$updated_at", 1}}},
	}}}})

	return mongo.Pipeline{{{Key: "$set", Value: set}}}, nil
}
