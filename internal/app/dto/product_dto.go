package dto

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductIn is the body accepted when creating a product
type ProductIn struct {
	Name     *string          `json:"name" validate:"required,min=1"`
	Quantity *int             `json:"quantity" validate:"required,gte=0"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Status   *bool            `json:"status" validate:"required"`
	IsActive *bool            `json:"is_active"`
}

// Validate checks required fields and value ranges
func (in *ProductIn) Validate() error {
	errs := validateStruct(in)
	if in.Price != nil {
		if fe := checkPrice([]string{"price"}, *in.Price); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ActiveStatus returns the requested lifecycle status, active when omitted
func (in *ProductIn) ActiveStatus() domain.Status {
	if in.IsActive == nil {
		return domain.StatusActive
	}
	return domain.StatusFromActive(*in.IsActive)
}

// ProductUpdate is a partial update. Absent and null fields are left untouched.
type ProductUpdate struct {
	Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
	Price    *decimal.Decimal `json:"price"`
	Status   *bool            `json:"status"`
}

func (in *ProductUpdate) Validate() error {
	errs := validateStruct(in)
	if in.Price != nil {
		if fe := checkPrice([]string{"price"}, *in.Price); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToPatch converts the update into a domain patch carrying only the present fields
func (in *ProductUpdate) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Quantity:  in.Quantity,
		Price:     in.Price,
		Available: in.Status,
	}
}

// ProductQuery holds the optional inclusive price bounds of a listing
type ProductQuery struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ParseProductQuery reads min_price and max_price from query parameters
func ParseProductQuery(values url.Values) (ProductQuery, error) {
	var (
		q    ProductQuery
		errs ValidationErrors
	)
	parse := func(key string) *decimal.Decimal {
		raw := values.Get(key)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, FieldError{
				Loc:  []string{"query", key},
				Msg:  "Input should be a valid decimal",
				Type: "decimal_parsing",
			})
			return nil
		}
		if fe := checkDecimal128([]string{"query", key}, d); fe != nil {
			errs = append(errs, *fe)
			return nil
		}
		return &d
	}

	q.MinPrice = parse("min_price")
	q.MaxPrice = parse("max_price")
	if len(errs) > 0 {
		return ProductQuery{}, errs
	}
	return q, nil
}

// Validate checks that the bounds are storable prices
func (q ProductQuery) Validate() error {
	var errs ValidationErrors
	if q.MinPrice != nil {
		if fe := checkDecimal128([]string{"query", "min_price"}, *q.MinPrice); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if q.MaxPrice != nil {
		if fe := checkDecimal128([]string{"query", "max_price"}, *q.MaxPrice); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter converts the query into a domain filter
func (q ProductQuery) ToFilter() domain.ProductFilter {
	return domain.ProductFilter{MinPrice: q.MinPrice, MaxPrice: q.MaxPrice}
}

// ProductOut represents the product response
type ProductOut struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    bool            `json:"status"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductUpdateOut is returned by a partial update
type ProductUpdateOut struct {
	ProductOut
}

// ToProductOut converts a domain Product to ProductOut
func ToProductOut(p *domain.Product) *ProductOut {
	return &ProductOut{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Status:    p.Available,
		IsActive:  p.Status.IsActive(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToProductUpdateOut(p *domain.Product) *ProductUpdateOut {
	return &ProductUpdateOut{ProductOut: *ToProductOut(p)}
}

// ToProductOutList converts a list of domain Products to ProductOut list
func ToProductOutList(products []*domain.Product) []*ProductOut {
	out := make([]*ProductOut, len(products))
	for i, p := range products {
		out[i] = ToProductOut(p)
	}
	return out
}
