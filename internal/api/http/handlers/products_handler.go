package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/service"
)

// ProductsHandler exposes inventory endpoints.
type ProductsHandler struct {
	inventory *service.InventoryService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(inventory *service.InventoryService) *ProductsHandler {
	return &ProductsHandler{inventory: inventory}
}

func productResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)

	products, err := h.inventory.ListProducts(c.Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	product, err := h.inventory.GetProduct(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product := &domain.Product{
		StoreID:     req.StoreID,
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Quantity:    req.Quantity,
	}
	created, err := h.inventory.CreateProduct(c.Context(), actor, product)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(created)})
}

// Update handles PUT /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.SKU == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "sku and name required")
	}

	product := &domain.Product{
		ID:          c.Params("id"),
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	updated, err := h.inventory.UpdateProduct(c.Context(), actor, product)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(updated)})
}

// AdjustStock handles POST /products/:id/stock.
func (h *ProductsHandler) AdjustStock(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StockAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Delta == 0 {
		return fiber.NewError(http.StatusBadRequest, "delta must be non-zero")
	}

	quantity, err := h.inventory.AdjustStock(c.Context(), actor, c.Params("id"), req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"quantity": quantity}})
}
