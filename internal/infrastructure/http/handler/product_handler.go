package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/store-api/internal/app/dto"
	"github.com/mrops-br/store-api/internal/app/service"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/mrops-br/store-api/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the product endpoints on r
func (h *ProductHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateProduct)
	r.Get("/", h.ListProducts)
	r.Get("/{id}", h.GetProduct)
	r.Patch("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductIn
	if err := dto.DecodeJSON(r.Body, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products?min_price=&max_price=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseProductQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PATCH /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req dto.ProductUpdate
	if err := dto.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Detail(w, http.StatusUnprocessableEntity, dto.ValidationErrors{{
			Loc:  []string{"path", "id"},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		}})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors to HTTP status codes
func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound  *domain.NotFoundError
		collision *domain.CollisionError
		verrs     dto.ValidationErrors
	)
	switch {
	case errors.As(err, &notFound):
		response.Error(w, http.StatusNotFound, err)
	case errors.As(err, &collision):
		response.Error(w, http.StatusConflict, err)
	case errors.As(err, &verrs):
		if r.Method != http.MethodGet {
			verrs = verrs.WithPrefix("body")
		}
		response.Detail(w, http.StatusUnprocessableEntity, verrs)
	case errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, domain.ErrInvalidProductQuantity):
		response.Error(w, http.StatusUnprocessableEntity, err)
	default:
		h.logger.ErrorContext(r.Context(), "Unhandled error",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
	}
}
