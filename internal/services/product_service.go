package services

import (
	"context"
	"encoding/json"
	"errors"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/validation"
	"log"
	"time"
)

// Routing keys of product events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers an encoded event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent is the message published after every product write.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  string          `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.ProductValidator
	publisher EventPublisher
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validation.NewProductValidator(repo),
		publisher: publisher,
		now:       time.Now,
	}
}

// ListProducts retrieves one page of products.
func (s *ProductService) ListProducts(ctx context.Context, page int) (*models.Page, error) {
	return s.repo.All(ctx, models.NormalizePage(page))
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates the submitted fields and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, fields map[string]interface{}) (*models.Product, error) {
	input, err := s.validator.Validate(ctx, fields, "")
	if err != nil {
		return nil, err
	}

	product := input.NewProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, uniqueNameError(err)
	}

	s.publish(EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct validates the submitted fields against the product's own
// name and merges them into the stored product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input, err := s.validator.Validate(ctx, fields, product.ID)
	if err != nil {
		return nil, err
	}

	input.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, uniqueNameError(err)
	}

	s.publish(EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID. Products with stock left are
// refused with a *repositories.BusinessRuleViolation.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, product); err != nil {
		return err
	}

	s.publish(EventProductDeleted, product.ID, nil)
	return nil
}

// uniqueNameError reports a name that passed validation but lost the race to
// the unique index the same way validation would have.
func uniqueNameError(err error) error {
	if errors.Is(err, repositories.ErrDuplicateName) {
		return validation.NewErrors(validation.Violation{
			Field: validation.FieldProductName,
			Rule:  validation.RuleUnique,
		})
	}
	return err
}

// publish never fails the request; a lost event is only logged.
func (s *ProductService) publish(event, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(ProductEvent{
		Event:      event,
		ProductID:  productID,
		Product:    product,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", event, productID, err)
		return
	}

	if err := s.publisher.Publish(event, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", event, productID, err)
		return
	}
	log.Printf("Published %s event for product %s", event, productID)
}
