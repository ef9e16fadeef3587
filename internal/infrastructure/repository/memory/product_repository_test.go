package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mrops-br/store-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRepo() *ProductRepository {
	return NewProductRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustProduct(t *testing.T, name string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, 1, decimal.RequireFromString("9.99"), true, domain.StatusActive, time.Now())
	require.NoError(t, err)
	return p
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresCopies", func(t *testing.T) {
		repo := newRepo()
		p := mustProduct(t, "Cable")
		require.NoError(t, repo.Create(ctx, p))

		p.Quantity = 99
		found, err := repo.FindByID(ctx, p.ID, domain.OnlyActive)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Quantity)

		found.Quantity = 42
		again, err := repo.FindByName(ctx, "Cable")
		require.NoError(t, err)
		assert.Equal(t, 1, again.Quantity)
	})

	t.Run("RejectsDuplicateName", func(t *testing.T) {
		repo := newRepo()
		require.NoError(t, repo.Create(ctx, mustProduct(t, "Cable")))
		require.ErrorIs(t, repo.Create(ctx, mustProduct(t, "Cable")), domain.ErrDuplicateName)
	})

	t.Run("ConcurrentCreatesKeepNameUnique", func(t *testing.T) {
		repo := newRepo()
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		products := make([]*domain.Product, 16)
		for i := range products {
			products[i] = mustProduct(t, "Charger")
		}
		for _, p := range products {
			p := p
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := repo.Create(ctx, p); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, accepted)
	})

	t.Run("UpdateHonoursStatusFilter", func(t *testing.T) {
		repo := newRepo()
		p := mustProduct(t, "Dock")
		require.NoError(t, repo.Create(ctx, p))

		inactive := domain.StatusInactive
		updated, err := repo.Update(ctx, p.ID, domain.OnlyActive, domain.ProductPatch{Status: &inactive}, p.UpdatedAt)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInactive, updated.Status)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

		_, err = repo.Update(ctx, p.ID, domain.OnlyActive, domain.ProductPatch{Status: &inactive}, time.Now())
		require.ErrorIs(t, err, domain.ErrProductNotFound)

		all, err := repo.FindAll(ctx, domain.ProductFilter{})
		require.NoError(t, err)
		assert.Empty(t, all)

		raw, err := repo.FindByID(ctx, p.ID, domain.AnyStatus)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInactive, raw.Status)
	})
}
