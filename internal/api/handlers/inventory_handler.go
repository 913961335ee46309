package handlers

import (
	"errors"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/inventory"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InventoryHandler interface {
		AddItem(c *fiber.Ctx) error
		GetItems(c *fiber.Ctx) error
		GetItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		RemoveItem(c *fiber.Ctx) error
		GetLowStock(c *fiber.Ctx) error
		GetMovements(c *fiber.Ctx) error
	}

	inventoryHandler struct {
		inventoryService inventory.InventoryService
		validator        *validator.Validate
	}
)

func NewInventoryHandler(inventoryService inventory.InventoryService, validator *validator.Validate) InventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		validator:        validator,
	}
}

func (h *inventoryHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.AddInventoryItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddInventoryItem, err)
	}

	res, err := h.inventoryService.AddItem(c.UserContext(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddInventoryItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddInventoryItem)
}

func (h *inventoryHandler) GetItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemType := c.Query("type", "all")
	page := c.QueryInt("page", domain.DefaultPage)
	limit := c.QueryInt("limit", domain.DefaultLimit)
	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}

	items, total, err := h.inventoryService.GetItems(c.UserContext(), userID, itemType, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetInventoryItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items":      items,
		"pagination": domain.NewPaginationResponse(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetInventoryItems)
}

func (h *inventoryHandler) GetItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.inventoryService.GetItem(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, notFoundOr(err, domain.ErrInventoryItemNotFound), domain.MessageFailedGetInventoryItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInventoryItems)
}

func (h *inventoryHandler) UpdateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.UpdateInventoryItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateInventoryItem, err)
	}

	res, err := h.inventoryService.UpdateItem(c.UserContext(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, notFoundOr(err, domain.ErrInventoryItemNotFound), domain.MessageFailedUpdateInventoryItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateInventoryItem)
}

func (h *inventoryHandler) RemoveItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.inventoryService.RemoveItem(c.UserContext(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, notFoundOr(err, domain.ErrInventoryItemNotFound), domain.MessageFailedRemoveInventoryItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveInventoryItem)
}

func (h *inventoryHandler) GetLowStock(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.inventoryService.GetLowStock(c.UserContext(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetLowStock, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLowStock)
}

func (h *inventoryHandler) GetMovements(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := max(c.QueryInt("page", domain.DefaultPage), 1)
	limit := c.QueryInt("limit", domain.DefaultLimit)
	if limit < 1 {
		limit = domain.DefaultLimit
	}

	movements, total, err := h.inventoryService.GetMovements(c.UserContext(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetStockMovements, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"movements":  movements,
		"pagination": domain.NewPaginationResponse(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetStockMovements)
}

// notFoundOr maps target to 404 and everything else to 400.
func notFoundOr(err error, target error) int {
	if errors.Is(err, target) {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadRequest
}
