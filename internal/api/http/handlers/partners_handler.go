package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/service"
)

// PartnersHandler exposes supplier and customer endpoints.
type PartnersHandler struct {
	partners *service.PartnerService
}

// NewPartnersHandler constructs handler.
func NewPartnersHandler(partners *service.PartnerService) *PartnersHandler {
	return &PartnersHandler{partners: partners}
}

func supplierResponse(s *domain.Supplier) dto.PartnerResponse {
	return dto.PartnerResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

func customerResponse(c *domain.Customer) dto.PartnerResponse {
	return dto.PartnerResponse{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

// ListSuppliers handles GET /suppliers.
func (h *PartnersHandler) ListSuppliers(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	suppliers, err := h.partners.ListSuppliers(c.Context(), actor, parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	resp := make([]dto.PartnerResponse, 0, len(suppliers))
	for i := range suppliers {
		resp = append(resp, supplierResponse(&suppliers[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateSupplier handles POST /suppliers.
func (h *PartnersHandler) CreateSupplier(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	supplier := &domain.Supplier{
		StoreID: req.StoreID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	created, err := h.partners.CreateSupplier(c.Context(), actor, supplier)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": supplierResponse(created)})
}

// UpdateSupplier handles PUT /suppliers/:id.
func (h *PartnersHandler) UpdateSupplier(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	supplier := &domain.Supplier{
		ID:       c.Params("id"),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	updated, err := h.partners.UpdateSupplier(c.Context(), actor, supplier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": supplierResponse(updated)})
}

// ListCustomers handles GET /customers.
func (h *PartnersHandler) ListCustomers(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	customers, err := h.partners.ListCustomers(c.Context(), actor, parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	resp := make([]dto.PartnerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateCustomer handles POST /customers.
func (h *PartnersHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	customer := &domain.Customer{
		StoreID: req.StoreID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	created, err := h.partners.CreateCustomer(c.Context(), actor, customer)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customerResponse(created)})
}

// UpdateCustomer handles PUT /customers/:id.
func (h *PartnersHandler) UpdateCustomer(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	customer := &domain.Customer{
		ID:       c.Params("id"),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	updated, err := h.partners.UpdateCustomer(c.Context(), actor, customer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(updated)})
}
