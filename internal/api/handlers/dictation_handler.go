package handlers

import (
	"errors"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/dictation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DictationHandler interface {
		Prefill(c *fiber.Ctx) error
	}

	dictationHandler struct {
		dictationService dictation.DictationService
		validator        *validator.Validate
	}
)

func NewDictationHandler(dictationService dictation.DictationService, validator *validator.Validate) DictationHandler {
	return &dictationHandler{
		dictationService: dictationService,
		validator:        validator,
	}
}

func (h *dictationHandler) Prefill(c *fiber.Ctx) error {
	req := new(domain.DictationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDictation, err)
	}

	res, err := h.dictationService.Prefill(c.UserContext(), c.Params("kind"), *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUnknownDictationKind):
			status = fiber.StatusNotFound
		case errors.Is(err, domain.ErrDictationUnavailable):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, domain.ErrDictationFailed):
			status = fiber.StatusBadGateway
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedDictation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessDictation)
}
