package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/agendahub/agenda-backend/pkg/db/models"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// TenantOwned enumerates the entities that live inside a tenant partition.
// Every query the tenant repository issues carries a tenant_id predicate;
// there is no way to read or write a row without naming its partition first.
type TenantOwned interface {
	models.Client | models.Professional | models.ServiceOffering | models.Appointment
}

// Tenant is a CRUD repository over one tenant-owned collection.
type Tenant[T TenantOwned] struct {
	Base
}

// NewTenant binds a tenant-scoped repository to the provided GORM connection.
func NewTenant[T TenantOwned](db *gorm.DB) *Tenant[T] {
	return &Tenant[T]{Base: NewBase(db)}
}

// List returns every row in the tenant's collection, newest first.
func (r *Tenant[T]) List(ctx context.Context, tenantID uuid.UUID) ([]T, error) {
	var out []T
	err := r.DB(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing tenant collection")
	}
	return out, nil
}

// Get fetches a single row by id inside the tenant partition.
func (r *Tenant[T]) Get(ctx context.Context, tenantID, id uuid.UUID) (*T, error) {
	var row T
	err := r.DB(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.CodeNotFound, "record not found in tenant collection")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "fetching tenant record")
	}
	return &row, nil
}

// Create inserts a row into the tenant's collection. The caller assigns the
// id; TenantID on the entity must already be set to the target partition.
func (r *Tenant[T]) Create(ctx context.Context, entity *T) error {
	if err := r.DB(ctx).Create(entity).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "creating tenant record")
	}
	return nil
}

// Update applies a partial patch to a row inside the tenant partition.
// Zero rows affected means the row does not exist in that partition.
func (r *Tenant[T]) Update(ctx context.Context, tenantID, id uuid.UUID, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	res := r.DB(ctx).
		Model(new(T)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(patch)
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "updating tenant record")
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.CodeNotFound, "record not found in tenant collection")
	}
	return nil
}

// Remove deletes a row from the tenant partition. Deleting a row that is
// already gone succeeds: removal is idempotent.
func (r *Tenant[T]) Remove(ctx context.Context, tenantID, id uuid.UUID) error {
	err := r.DB(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(new(T)).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting tenant record")
	}
	return nil
}

// ListAcrossTenants fans out one List per tenant id concurrently and merges
// the results, newest first. A failing partition does not sink the whole
// read: its error is collected and returned alongside the rows that did
// load, so callers can log it and render a partial view.
func (r *Tenant[T]) ListAcrossTenants(ctx context.Context, tenantIDs []uuid.UUID, sortKey func(T) string) ([]T, error) {
	var (
		mu       sync.Mutex
		merged   []T
		partials error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, tenantID := range tenantIDs {
		tenantID := tenantID
		g.Go(func() error {
			rows, err := r.List(gctx, tenantID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				partials = multierr.Append(partials, errors.Wrap(errors.CodeDependency, err, "tenant "+tenantID.String()))
				return nil
			}
			merged = append(merged, rows...)
			return nil
		})
	}

	// goroutines never return errors; Wait only propagates ctx cancellation
	if err := g.Wait(); err != nil {
		return merged, multierr.Append(partials, err)
	}

	if sortKey != nil {
		sort.SliceStable(merged, func(i, j int) bool {
			return sortKey(merged[i]) < sortKey(merged[j])
		})
	}
	return merged, partials
}
