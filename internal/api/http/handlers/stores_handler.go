package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/service"
)

// StoresHandler exposes store management endpoints.
type StoresHandler struct {
	stores *service.StoreService
}

// NewStoresHandler constructs handler.
func NewStoresHandler(stores *service.StoreService) *StoresHandler {
	return &StoresHandler{stores: stores}
}

func storeResponse(s *domain.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		Name:           s.Name,
		Address:        s.Address,
		Phone:          s.Phone,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
	}
}

// List handles GET /stores.
func (h *StoresHandler) List(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	stores, err := h.stores.ListStores(c.Context(), actor)
	if err != nil {
		return err
	}
	resp := make([]dto.StoreResponse, 0, len(stores))
	for i := range stores {
		resp = append(resp, storeResponse(&stores[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /stores/:id.
func (h *StoresHandler) Get(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	store, err := h.stores.GetStore(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": storeResponse(store)})
}

// Create handles POST /stores.
func (h *StoresHandler) Create(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	store := &domain.Store{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
	created, err := h.stores.CreateStore(c.Context(), actor, store)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": storeResponse(created)})
}

// Update handles PUT /stores/:id.
func (h *StoresHandler) Update(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	store := &domain.Store{
		ID:       c.Params("id"),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	updated, err := h.stores.UpdateStore(c.Context(), actor, store)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": storeResponse(updated)})
}
