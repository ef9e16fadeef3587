package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, in := range []string{"8.50", "7.500", "0", "1999.99", "0.000001", "123456789012345678.12"} {
		d := decimal.RequireFromString(in)

		d128, err := toDecimal128(d)
		require.NoError(t, err)

		out, err := fromDecimal128(d128)
		require.NoError(t, err)
		assert.Truef(t, d.Equal(out), "%s decoded as %s", in, out)
		assert.Equal(t, d.Exponent(), out.Exponent())
	}
}

func TestToDecimal128RejectsUnstorableValues(t *testing.T) {
	for _, in := range []string{"0.12345678901234567890123456789012345", "1e7000", "1e-7000"} {
		_, err := toDecimal128(decimal.RequireFromString(in))
		require.ErrorIsf(t, err, domain.ErrInvalidProductPrice, "%s", in)
		assert.Less(t, len(err.Error()), 100)
	}
}

func TestDocumentMapping(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      "Iphone 14 Pro Max",
		Quantity:  10,
		Price:     decimal.RequireFromString("8.500"),
		Available: false,
		Status:    domain.StatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc, err := newProductDocument(p)
	require.NoError(t, err)
	assert.Equal(t, uuidSubtype, doc.ID.Subtype)
	assert.False(t, doc.IsActive)
	assert.Equal(t, "8.500", doc.Price.String())

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded productDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	back, err := decoded.toDomain()
	require.NoError(t, err)
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, domain.StatusInactive, back.Status)
	assert.True(t, p.Price.Equal(back.Price))
	assert.Equal(t, int32(-3), back.Price.Exponent())
	assert.Equal(t, now, back.CreatedAt)
}

func TestPriceFilter(t *testing.T) {
	f, err := priceFilter(domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"is_active": true}, f)

	lo := decimal.RequireFromString("5")
	hi := decimal.RequireFromString("10.5")
	f, err = priceFilter(domain.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)

	price, ok := f["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "5", price["$gte"].(primitive.Decimal128).String())
	assert.Equal(t, "10.5", price["$lte"].(primitive.Decimal128).String())
}

func TestStatusFilter(t *testing.T) {
	id := uuid.New()

	active := statusFilter(id, domain.OnlyActive)
	assert.Equal(t, true, active["is_active"])
	assert.Equal(t, uuidBinary(id), active["id"])

	anyStatus := statusFilter(id, domain.AnyStatus)
	_, ok := anyStatus["is_active"]
	assert.False(t, ok)
}

func TestUpdatePipeline(t *testing.T) {
	at := time.Date(2024, 5, 2, 12, 0, 0, 987654321, time.UTC)
	qty := 3
	inactive := domain.StatusInactive

	pipeline, err := updatePipeline(domain.ProductPatch{Quantity: &qty, Status: &inactive}, at)
	require.NoError(t, err)
	require.Len(t, pipeline, 1)

	stage := pipeline[0]
	require.Equal(t, "$set", stage[0].Key)
	set := stage[0].Value.(bson.D).Map()

	assert.Equal(t, int64(3), set["quantity"])
	assert.Equal(t, false, set["is_active"])
	_, hasPrice := set["price"]
	assert.False(t, hasPrice)

	updatedAt := set["updated_at"].(bson.D)
	require.Equal(t, "$max", updatedAt[0].Key)
	assert.Equal(t, at.Truncate(time.Millisecond), updatedAt[0].Value.(bson.A)[0])
}
