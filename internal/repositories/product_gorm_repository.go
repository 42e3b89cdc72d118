package repositories

import (
	"context"
	"errors"
	"fmt"
	"katalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The db handle must be opened with TranslateError so duplicate names map to
// ErrDuplicateName.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// All retrieves one page of products ordered by creation time.
func (r *GORMProductRepository) All(ctx context.Context, page int) (*models.Page, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := models.Offset(page, models.ProductsPerPage)
	if int64(offset) >= total {
		return models.NewPage(nil, total, page, models.ProductsPerPage), nil
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at, id").
		Offset(offset).
		Limit(models.ProductsPerPage).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products on page %d: %w", page, err)
	}

	return models.NewPage(products, total, page, models.ProductsPerPage), nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create product %q: %w", product.ProductName, ErrDuplicateName)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes every mutable column of an existing product, zero values
// included.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("product_name", "description", "product_price", "stock", "updated_at").
		Updates(product)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to update product %s: %w", product.ID, ErrDuplicateName)
		}
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not updated: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete deletes a product that has no stock left. The stock condition is
// part of the DELETE statement, so a concurrent restock cannot slip between
// the check and the write.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	if product.Stock > 0 {
		return stockAvailable(product.ID)
	}

	res := r.db.WithContext(ctx).
		Where("stock <= ?", 0).
		Delete(&models.Product{}, "id = ?", product.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if current.Stock > 0 {
		return stockAvailable(current.ID)
	}
	return fmt.Errorf("product with ID %s not deleted: %w", product.ID, ErrProductNotFound)
}

// ExistsByName reports whether a product other than exceptID uses name.
func (r *GORMProductRepository) ExistsByName(ctx context.Context, name, exceptID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("product_name = ?", name)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product name %q: %w", name, err)
	}
	return count > 0, nil
}
