package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"kasir-backoffice/internal/audit"
	"kasir-backoffice/internal/domain"

	"go.uber.org/zap"
)

// RemoteCatalog is the remote persistence collaborator. It is the
// authoritative store; errors carry a human-readable detail string.
type RemoteCatalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateProduct(ctx context.Context, draft domain.Draft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.Patch) error
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, stock int) error
}

// Cache is the best-effort durable local cache. A reload of the surrounding
// application restores the last known collection from it before the next
// remote fetch completes.
type Cache interface {
	Write(ctx context.Context, namespace string, products []domain.Product) error
	Read(ctx context.Context, namespace string) ([]domain.Product, bool, error)
}

// Store owns the in-process product collection. All mutation funnels through
// it; readers get snapshots. Operations against the same product ID are not
// serialized against each other: when two remote calls for one ID are in
// flight, the later-completing response wins.
type Store struct {
	remote    RemoteCatalog
	cache     Cache
	log       *audit.Log
	logger    *zap.Logger
	namespace string

	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category

	// pushes tracks in-flight asynchronous stock writes so shutdown can
	// drain them.
	pushes sync.WaitGroup
	now    func() time.Time
}

// NewStore creates a Store around the remote catalog service and the durable
// local cache. The audit log is created empty and owned by the store.
func NewStore(remote RemoteCatalog, cache Cache, logger *zap.Logger, namespace string) *Store {
	return &Store{
		remote:    remote,
		cache:     cache,
		log:       audit.NewLog(),
		logger:    logger,
		namespace: namespace,
		now:       time.Now,
	}
}

// RestoreFromCache seeds the collection from the durable cache. Absence or a
// cache error is not fatal; the collection simply starts empty.
func (s *Store) RestoreFromCache(ctx context.Context) {
	products, found, err := s.cache.Read(ctx, s.namespace)
	if err != nil {
		s.logger.Warn("Failed to read local cache", zap.Error(err))
		return
	}
	if !found {
		return
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.Info("Collection restored from local cache", zap.Int("count", len(products)))
}

// Load replaces the entire collection with the remote listing. On failure the
// existing collection is left untouched and ErrFetchFailed is reported; there
// is no automatic retry. Categories are refreshed best effort.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	categories, err := s.remote.ListCategories(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch categories", zap.Error(err))
		categories = nil
	}

	s.mu.Lock()
	s.products = dedupe(products)
	if categories != nil {
		s.categories = categories
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("Collection loaded from remote", zap.Int("count", len(products)))
	return nil
}

// Add validates the draft, sends it to the remote store and appends the
// confirmed product (with its remote-assigned ID and canonical fields) to the
// collection. Validation failure produces no side effect at all.
func (s *Store) Add(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Product{}, err
	}

	created, err := s.remote.CreateProduct(ctx, draft)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrCreateFailed, err)
	}

	s.mu.Lock()
	s.upsertLocked(created)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("Product added", zap.String("product_id", created.ID))
	return created, nil
}

// Update edits an existing product. When the remote call succeeds the whole
// collection is reloaded from the remote rather than patched locally, so any
// server-side derived fields come back canonical. Failure leaves state
// unchanged and carries the remote detail.
func (s *Store) Update(ctx context.Context, id string, patch domain.Patch) error {
	if !s.has(id) {
		return ErrNotFound
	}

	if err := s.remote.UpdateProduct(ctx, id, patch); err != nil {
		return fmt.Errorf("%w: %s", ErrUpdateFailed, err)
	}

	// Full reload, not a partial merge.
	if err := s.Load(ctx); err != nil {
		return err
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	return nil
}

// SetStock applies the new stock level optimistically: the local product is
// updated and the audit entry appended before the remote write is issued. The
// remote write runs asynchronously; its failure is logged but the local value
// is deliberately not rolled back.
func (s *Store) SetStock(ctx context.Context, id string, newStock int) (domain.Product, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Product{}, ErrNotFound
	}

	oldStock := s.products[idx].Stock
	s.products[idx].Stock = newStock
	s.products[idx].LastUpdated = s.now()
	updated := s.products[idx]

	s.log.Record(fmt.Sprintf("Updated stock for %q from %d to %d on %s",
		updated.Name, oldStock, newStock, s.now().Format(auditTimeLayout)))
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		if err := s.remote.UpdateStock(context.WithoutCancel(ctx), id, newStock); err != nil {
			// Accepted divergence: the optimistic local value stays.
			s.logger.Error("Remote stock update failed",
				zap.String("product_id", id),
				zap.Int("stock", newStock),
				zap.Error(err),
			)
		}
	}()

	return updated, nil
}

// Remove deletes a product remotely first; only a confirmed delete removes it
// locally and appends the audit entry. On failure the product stays.
func (s *Store) Remove(ctx context.Context, id string) error {
	if !s.has(id) {
		return ErrNotFound
	}

	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrDeleteFailed, err)
	}

	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.products = append(s.products[:idx], s.products[idx+1:]...)
	}
	s.log.Record(fmt.Sprintf("Deleted item with product ID %s on %s",
		id, s.now().Format(auditTimeLayout)))
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("Product removed", zap.String("product_id", id))
	return nil
}

// ImportReplace swaps the whole collection for imported rows. This is a
// local-only operation: the remote store is not consulted until the operator
// performs further mutating actions.
func (s *Store) ImportReplace(ctx context.Context, products []domain.Product) {
	s.mu.Lock()
	s.products = dedupe(products)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("Collection replaced by import", zap.Int("count", len(products)))
}

// Snapshot returns a copy of the product collection.
func (s *Store) Snapshot() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]domain.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// Categories returns a copy of the borrowed category list.
func (s *Store) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]domain.Category, len(s.categories))
	copy(categories, s.categories)
	return categories
}

// AuditEntries returns a snapshot of the audit log, oldest first.
func (s *Store) AuditEntries() []audit.Entry {
	return s.log.Entries()
}

// Wait drains in-flight asynchronous stock writes. Used on shutdown and in
// tests.
func (s *Store) Wait() {
	s.pushes.Wait()
}

const auditTimeLayout = "2006-01-02 15:04:05"

func (s *Store) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

func (s *Store) indexLocked(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// upsertLocked enforces ID uniqueness: a product arriving with an ID already
// in the collection replaces the earlier row.
func (s *Store) upsertLocked(p domain.Product) {
	if idx := s.indexLocked(p.ID); idx >= 0 {
		s.products[idx] = p
		return
	}
	s.products = append(s.products, p)
}

// persistLocked writes the collection to the durable cache. Best effort: a
// cache failure is logged and otherwise ignored.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.cache.Write(ctx, s.namespace, s.products); err != nil {
		s.logger.Warn("Failed to persist collection to local cache", zap.Error(err))
	}
}

func dedupe(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func validateDraft(draft domain.Draft) error {
	var fields []string
	if strings.TrimSpace(draft.Name) == "" {
		fields = append(fields, "name is required")
	}
	if strings.TrimSpace(draft.CategoryID) == "" {
		fields = append(fields, "category_id is required")
	}
	if !draft.Price.IsPositive() {
		fields = append(fields, "price must be greater than 0")
	}
	if draft.Stock <= 0 {
		fields = append(fields, "stock must be greater than 0")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
