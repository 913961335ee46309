package handlers

import (
	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/production"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProductionHandler interface {
		SubmitDistillation(c *fiber.Ctx) error
		SubmitBottling(c *fiber.Ctx) error
	}

	productionHandler struct {
		productionService production.ProductionService
		validator         *validator.Validate
	}
)

func NewProductionHandler(productionService production.ProductionService, validator *validator.Validate) ProductionHandler {
	return &productionHandler{
		productionService: productionService,
		validator:         validator,
	}
}

func (h *productionHandler) SubmitDistillation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.DistillationLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitDistillation, err)
	}

	res, err := h.productionService.SubmitDistillation(c.UserContext(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSubmitDistillation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubmitDistillation)
}

func (h *productionHandler) SubmitBottling(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.BottlingLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitBottling, err)
	}

	res, err := h.productionService.SubmitBottling(c.UserContext(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSubmitBottling, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubmitBottling)
}
