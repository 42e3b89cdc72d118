package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) All(ctx context.Context, page int) (*models.Page, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name, exceptID string) (bool, error) {
	args := m.Called(ctx, name, exceptID)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func validFields() map[string]interface{} {
	return map[string]interface{}{
		"product_name":  "Kopi Toraja",
		"description":   "Kopi dari Sulawesi",
		"product_price": json.Number("65000"),
		"stock":         json.Number("8"),
	}
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	ctx := context.Background()

	expected := models.NewPage([]models.Product{
		{ID: "1", ProductName: "Product A", ProductPrice: decimal.NewFromInt(10), Stock: 100},
	}, 1, 1, models.ProductsPerPage)

	// Pages below one are read as the first page.
	mockRepo.On("All", ctx, 1).Return(expected, nil).Once()

	page, err := service.ListProducts(ctx, 0)

	assert.NoError(t, err)
	assert.Equal(t, expected, page)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)
	ctx := context.Background()

	expected := &models.Product{ID: "1", ProductName: "Product A", ProductPrice: decimal.NewFromInt(10), Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", ctx, "1").Return(expected, nil).Once()
	product, err := service.GetProduct(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	// Test product not found
	mockRepo.On("GetByID", ctx, "99").Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	product, err = service.GetProduct(ctx, "99")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and publishes", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockMQ := new(MockPublisher)
		service := services.NewProductService(mockRepo, mockMQ)

		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Product).ID = "new-id"
		}).Return(nil).Once()
		mockMQ.On("Publish", services.EventProductCreated, mock.MatchedBy(func(body []byte) bool {
			var event services.ProductEvent
			return json.Unmarshal(body, &event) == nil &&
				event.Event == services.EventProductCreated &&
				event.ProductID == "new-id"
		})).Return(nil).Once()

		product, err := service.CreateProduct(ctx, validFields())

		require.NoError(t, err)
		assert.Equal(t, "new-id", product.ID)
		assert.Equal(t, "Kopi Toraja", product.ProductName)
		assert.True(t, decimal.NewFromInt(65000).Equal(product.ProductPrice))
		assert.Equal(t, 8, product.Stock)
		mockRepo.AssertExpectations(t)
		mockMQ.AssertExpectations(t)
	})

	t.Run("validation failure skips the repository", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := services.NewProductService(mockRepo, nil)

		fields := validFields()
		fields["stock"] = json.Number("-1")
		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "").Return(false, nil).Once()

		_, err := service.CreateProduct(ctx, fields)

		var verrs *validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("stock", "min"))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race becomes a validation error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := services.NewProductService(mockRepo, nil)

		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicateName)).Once()

		_, err := service.CreateProduct(ctx, validFields())

		var verrs *validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("product_name", "unique"))
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockMQ := new(MockPublisher)
		service := services.NewProductService(mockRepo, mockMQ)

		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockMQ.On("Publish", services.EventProductCreated, mock.Anything).Return(errors.New("channel closed")).Once()

		_, err := service.CreateProduct(ctx, validFields())

		assert.NoError(t, err)
		mockMQ.AssertExpectations(t)
	})

	t.Run("database error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := services.NewProductService(mockRepo, nil)

		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("database error")).Once()

		_, err := service.CreateProduct(ctx, validFields())

		assert.ErrorContains(t, err, "database error")
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps its own name", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockMQ := new(MockPublisher)
		service := services.NewProductService(mockRepo, mockMQ)

		stored := &models.Product{ID: "1", ProductName: "Kopi Toraja", ProductPrice: decimal.NewFromInt(60000), Stock: 2}
		mockRepo.On("GetByID", ctx, "1").Return(stored, nil).Once()
		mockRepo.On("ExistsByName", ctx, "Kopi Toraja", "1").Return(false, nil).Once()
		mockRepo.On("Update", ctx, stored).Return(nil).Once()
		mockMQ.On("Publish", services.EventProductUpdated, mock.Anything).Return(nil).Once()

		product, err := service.UpdateProduct(ctx, "1", validFields())

		require.NoError(t, err)
		assert.Equal(t, "1", product.ID)
		assert.True(t, decimal.NewFromInt(65000).Equal(product.ProductPrice))
		assert.Equal(t, 8, product.Stock)
		require.NotNil(t, product.Description)
		assert.Equal(t, "Kopi dari Sulawesi", *product.Description)
		mockRepo.AssertExpectations(t)
		mockMQ.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := services.NewProductService(mockRepo, nil)

		mockRepo.On("GetByID", ctx, "99").Return(nil, repositories.ErrProductNotFound).Once()

		_, err := service.UpdateProduct(ctx, "99", validFields())

		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
		mockRepo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockMQ := new(MockPublisher)
		service := services.NewProductService(mockRepo, mockMQ)

		stored := &models.Product{ID: "1", Stock: 0}
		mockRepo.On("GetByID", ctx, "1").Return(stored, nil).Once()
		mockRepo.On("Delete", ctx, stored).Return(nil).Once()
		mockMQ.On("Publish", services.EventProductDeleted, mock.Anything).Return(nil).Once()

		assert.NoError(t, service.DeleteProduct(ctx, "1"))
		mockRepo.AssertExpectations(t)
		mockMQ.AssertExpectations(t)
	})

	t.Run("stock still available", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		mockMQ := new(MockPublisher)
		service := services.NewProductService(mockRepo, mockMQ)

		stored := &models.Product{ID: "2", Stock: 5}
		violation := &repositories.BusinessRuleViolation{ProductID: "2", Err: repositories.ErrStockAvailable}
		mockRepo.On("GetByID", ctx, "2").Return(stored, nil).Once()
		mockRepo.On("Delete", ctx, stored).Return(violation).Once()

		err := service.DeleteProduct(ctx, "2")

		assert.ErrorIs(t, err, repositories.ErrStockAvailable)
		mockMQ.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := services.NewProductService(mockRepo, nil)

		mockRepo.On("GetByID", ctx, "99").Return(nil, repositories.ErrProductNotFound).Once()

		assert.ErrorIs(t, service.DeleteProduct(ctx, "99"), repositories.ErrProductNotFound)
	})
}
