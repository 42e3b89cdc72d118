package repositories

import (
	"context"

	"katalog/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// All returns one page of products, models.ProductsPerPage at a time.
	All(ctx context.Context, page int) (*models.Page, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Create stores a new product and assigns its ID when empty.
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the product unless it still has stock, in which case a
	// *BusinessRuleViolation wrapping ErrStockAvailable is returned.
	Delete(ctx context.Context, product *models.Product) error
	ExistsByName(ctx context.Context, name, exceptID string) (bool, error)
}
