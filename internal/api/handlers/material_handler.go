package handlers

import (
	"net/url"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/material"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MaterialHandler interface {
		SaveDefinition(c *fiber.Ctx) error
		GetDefinitions(c *fiber.Ctx) error
		GetDefinition(c *fiber.Ctx) error
	}

	materialHandler struct {
		materialService material.MaterialService
		validator       *validator.Validate
	}
)

func NewMaterialHandler(materialService material.MaterialService, validator *validator.Validate) MaterialHandler {
	return &materialHandler{
		materialService: materialService,
		validator:       validator,
	}
}

func (h *materialHandler) SaveDefinition(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SaveMaterialDefinitionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveMaterialDefinition, err)
	}

	res, err := h.materialService.SaveDefinition(c.UserContext(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveMaterialDefinition, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSaveMaterialDefinition)
}

func (h *materialHandler) GetDefinitions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.materialService.GetDefinitions(c.UserContext(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetMaterialDefinitions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMaterialDefinitions)
}

func (h *materialHandler) GetDefinition(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// product names carry spaces, e.g. "Grapefruit base"
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMaterialDefinitions, err)
	}

	res, err := h.materialService.GetDefinition(c.UserContext(), name, userID)
	if err != nil {
		return presenters.ErrorResponse(c, notFoundOr(err, domain.ErrMaterialDefinitionNotFound), domain.MessageFailedGetMaterialDefinitions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMaterialDefinitions)
}
