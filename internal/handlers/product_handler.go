package handlers

import (
	"errors"
	"fmt"
	"log"

	"katalog/internal/i18n"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Pagination is the navigation block of the product list response.
type Pagination struct {
	Total           int64   `json:"total"`
	CurrentPage     int     `json:"current_page"`
	PerPage         int     `json:"per_page"`
	LastPage        int     `json:"last_page"`
	NextPageURL     *string `json:"next_page_url"`
	PreviousPageURL *string `json:"previous_page_url"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	translators *i18n.Translators
	// Existing clients expect 201 from list and delete.
	listStatus   int
	deleteStatus int
}

// NewProductHandler creates a new ProductHandler. With conventionalStatus set,
// list and delete answer 200 instead of 201.
func NewProductHandler(service *services.ProductService, translators *i18n.Translators, conventionalStatus bool) *ProductHandler {
	h := &ProductHandler{
		service:      service,
		translators:  translators,
		listStatus:   fiber.StatusCreated,
		deleteStatus: fiber.StatusCreated,
	}
	if conventionalStatus {
		h.listStatus = fiber.StatusOK
		h.deleteStatus = fiber.StatusOK
	}
	return h
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists one page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(c.UserContext(), c.QueryInt("page", 1))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return err
	}

	return c.Status(h.listStatus).JSON(fiber.Map{
		"status":     "success",
		"message":    h.t(c, i18n.MsgListSuccess),
		"data":       page.Items,
		"pagination": paginationOf(c, page),
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": h.t(c, i18n.MsgShowSuccess),
		"data":    product,
	})
}

// HandleCreateProduct validates and stores a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	fields, err := decodeFields(c)
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), fields)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": h.t(c, i18n.MsgCreateSuccess),
		"data":    product,
	})
}

// HandleUpdateProduct validates and applies new field values to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	fields, err := decodeFields(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), fields)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": h.t(c, i18n.MsgUpdateSuccess),
		"data":    product,
	})
}

// HandleDeleteProduct deletes a product without stock. A refused deletion
// answers 400; a storage failure answers 500 with the same envelope.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	err := h.service.DeleteProduct(c.UserContext(), productID)
	if err == nil {
		return c.Status(h.deleteStatus).JSON(fiber.Map{
			"status":  "success",
			"message": h.t(c, i18n.MsgDeleteSuccess),
		})
	}

	if errors.Is(err, repositories.ErrProductNotFound) {
		return err
	}

	var violation *repositories.BusinessRuleViolation
	if errors.As(err, &violation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": h.t(c, i18n.MsgDeleteFailed),
			"error":   h.t(c, violation.MessageKey),
		})
	}

	log.Printf("Error deleting product %s: %v", productID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"message": h.t(c, i18n.MsgDeleteFailed),
		"error":   h.t(c, i18n.MsgServerError),
	})
}

func (h *ProductHandler) t(c *fiber.Ctx, key string) string {
	return i18n.T(middleware.Translator(c, h.translators.Default()), key)
}

func paginationOf(c *fiber.Ctx, page *models.Page) Pagination {
	p := Pagination{
		Total:       page.Total,
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
		LastPage:    page.LastPage(),
	}
	if page.HasNext() {
		next := pageURL(c, page.CurrentPage+1)
		p.NextPageURL = &next
	}
	if page.HasPrevious() {
		previous := pageURL(c, page.CurrentPage-1)
		p.PreviousPageURL = &previous
	}
	return p
}

func pageURL(c *fiber.Ctx, page int) string {
	return fmt.Sprintf("%s%s?page=%d", c.BaseURL(), c.Path(), page)
}
