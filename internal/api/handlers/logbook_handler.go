package handlers

import (
	"errors"
	"fmt"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/export"
	"stillhouse/pkg/logbook"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	LogbookHandler interface {
		GetLogs(c *fiber.Ctx) error
		Export(c *fiber.Ctx) error
	}

	logbookHandler struct {
		logbookService logbook.LogbookService
		exportService  export.ExportService
		validator      *validator.Validate
	}
)

func NewLogbookHandler(logbookService logbook.LogbookService, exportService export.ExportService, validator *validator.Validate) LogbookHandler {
	return &logbookHandler{
		logbookService: logbookService,
		exportService:  exportService,
		validator:      validator,
	}
}

func (h *logbookHandler) GetLogs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page := c.QueryInt("page", domain.DefaultPage)

	res, err := h.logbookService.GetLogs(c.UserContext(), userID, page)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidPage) {
			status = fiber.StatusBadRequest
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetLogs, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLogs)
}

func (h *logbookHandler) Export(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.ExportRequest)
	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedExport, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedExport, err)
	}

	res, err := h.exportService.Export(c.UserContext(), userID, *req)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUnsupportedExportFormat), errors.Is(err, domain.ErrInvalidPage):
			status = fiber.StatusBadRequest
		case errors.Is(err, domain.ErrStorageUnavailable):
			status = fiber.StatusServiceUnavailable
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedExport, err)
	}

	if req.Upload {
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessExport)
	}

	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
	return c.Status(fiber.StatusOK).Send(res.Body)
}
