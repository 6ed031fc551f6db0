package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medical-records-service/internal/api/dto"
	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/service"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

// RecordsHandler manages medical record endpoints.
type RecordsHandler struct {
	service *service.RecordService
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(recordService *service.RecordService) *RecordsHandler {
	return &RecordsHandler{service: recordService}
}

// CreateRecord POST /api/records.
func (h *RecordsHandler) CreateRecord(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.UnauthorizedMessage)
	}
	var req dto.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	record, err := h.service.CreateRecord(c.Context(), actor, service.RecordInput{
		Patient:     req.Patient,
		Diagnoses:   req.Diagnoses,
		Medications: req.Medications,
		Allergies:   req.Allergies,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"status": "success", "data": fiber.Map{"record": record}})
}

// ListRecords GET /api/records.
func (h *RecordsHandler) ListRecords(c *fiber.Ctx) error {
	filter := service.RecordFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	records, err := h.service.ListRecords(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"records": records}})
}

// GetRecord GET /api/records/:id.
func (h *RecordsHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.service.GetRecord(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"record": record}})
}

// UpdateRecord PUT /api/records/:id.
func (h *RecordsHandler) UpdateRecord(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.UnauthorizedMessage)
	}
	var req dto.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	record, err := h.service.UpdateRecord(c.Context(), actor, c.Params("id"), service.RecordInput{
		Patient:     req.Patient,
		Diagnoses:   req.Diagnoses,
		Medications: req.Medications,
		Allergies:   req.Allergies,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"record": record}})
}

// DeleteRecord DELETE /api/records/:id.
func (h *RecordsHandler) DeleteRecord(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.UnauthorizedMessage)
	}
	if err := h.service.DeleteRecord(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": nil})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
