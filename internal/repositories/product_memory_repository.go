package repositories

import (
	"context"
	"fmt"
	"katalog/internal/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It keeps insertion order so pages are stable.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

// All returns one page of products in insertion order.
func (r *MemoryProductRepository) All(_ context.Context, page int) (*models.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := models.Offset(page, models.ProductsPerPage)
	if start >= len(r.order) {
		return models.NewPage(nil, int64(len(r.order)), page, models.ProductsPerPage), nil
	}
	items := make([]models.Product, 0, models.ProductsPerPage)
	for i := start; i < len(r.order) && len(items) < models.ProductsPerPage; i++ {
		items = append(items, r.products[r.order[i]])
	}
	return models.NewPage(items, int64(len(r.order)), page, models.ProductsPerPage), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(product.ProductName, "") {
		return fmt.Errorf("failed to create product %q: %w", product.ProductName, ErrDuplicateName)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product with ID %s already exists", product.ID)
	}

	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not updated: %w", product.ID, ErrProductNotFound)
	}
	if r.nameTaken(product.ProductName, product.ID) {
		return fmt.Errorf("failed to update product %s: %w", product.ID, ErrDuplicateName)
	}

	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = r.now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product that has no stock left.
func (r *MemoryProductRepository) Delete(_ context.Context, product *models.Product) error {
	if product.Stock > 0 {
		return stockAvailable(product.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not deleted: %w", product.ID, ErrProductNotFound)
	}
	if stored.Stock > 0 {
		return stockAvailable(stored.ID)
	}

	delete(r.products, product.ID)
	for i, id := range r.order {
		if id == product.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ExistsByName reports whether a product other than exceptID uses name.
func (r *MemoryProductRepository) ExistsByName(_ context.Context, name, exceptID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.nameTaken(name, exceptID), nil
}

// nameTaken must be called with mu held.
func (r *MemoryProductRepository) nameTaken(name, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && p.ProductName == name {
			return true
		}
	}
	return false
}
