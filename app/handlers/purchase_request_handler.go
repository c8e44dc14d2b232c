// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/fieldops/prtrack/app/dto"
	businessflow "github.com/fieldops/prtrack/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

// PurchaseRequestHandlerInterface defines the contract for purchase request handlers
type PurchaseRequestHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	ExportExcel(c fiber.Ctx) error
	ExportCSV(c fiber.Ctx) error
}

// PurchaseRequestHandler handles purchase request HTTP requests
type PurchaseRequestHandler struct {
	prFlow    businessflow.PurchaseRequestFlow
	validator *validator.Validate
}

// NewPurchaseRequestHandler creates a new purchase request handler
func NewPurchaseRequestHandler(prFlow businessflow.PurchaseRequestFlow) *PurchaseRequestHandler {
	handler := &PurchaseRequestHandler{
		prFlow:    prFlow,
		validator: validator.New(),
	}

	setupCustomValidations(handler.validator)

	return handler
}

func (h *PurchaseRequestHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PurchaseRequestHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// mapBusinessError translates flow errors into HTTP responses shared by
// several handlers below.
func (h *PurchaseRequestHandler) mapBusinessError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsUnknownCode(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown location or department", "UNKNOWN_CODE", nil)
	}
	if businessflow.IsPurchaseRequestNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Purchase request not found", "NOT_FOUND", nil)
	}
	if businessflow.IsDuplicateCode(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Purchase request code already exists", "DUPLICATE_CODE", nil)
	}
	if businessflow.IsInvalidStatus(err) || businessflow.IsNegativeAmount(err) || businessflow.IsInvalidDate(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", nil)
	}

	log.Println(fallbackMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// Create handles purchase request creation
// @Summary Create Purchase Request
// @Description Create a purchase request with an assigned sequence number and code
// @Tags PurchaseRequests
// @Accept json
// @Produce json
// @Param request body dto.CreatePurchaseRequestRequest true "Purchase request data"
// @Success 201 {object} dto.APIResponse{data=dto.PurchaseRequestDTO} "Purchase request created"
// @Failure 400 {object} dto.APIResponse "Validation error or unknown code"
// @Failure 409 {object} dto.APIResponse "Duplicate code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/pr/create [post]
func (h *PurchaseRequestHandler) Create(c fiber.Ctx) error {
	var req dto.CreatePurchaseRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.prFlow.Create(h.createRequestContext(c, "/api/pr/create"), &req, metadata)
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to create purchase request", "CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Purchase request created successfully", result)
}

// List handles listing purchase requests newest first
// @Summary List Purchase Requests
// @Description List purchase requests, newest first, with optional filters
// @Tags PurchaseRequests
// @Produce json
// @Param location query string false "Filter by location"
// @Param department query string false "Filter by department"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.APIResponse{data=[]dto.PurchaseRequestDTO} "Purchase requests"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/pr/ [get]
func (h *PurchaseRequestHandler) List(c fiber.Ctx) error {
	query := dto.ListPurchaseRequestsQuery{
		Location:   c.Query("location"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}

	if err := h.validator.Struct(&query); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.prFlow.List(h.createRequestContext(c, "/api/pr/"), &query)
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to list purchase requests", "LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Purchase requests retrieved successfully", result)
}

// Get handles retrieving a single purchase request by ID
// @Summary Get Purchase Request
// @Description Retrieve a purchase request by its numeric ID
// @Tags PurchaseRequests
// @Produce json
// @Param id path int true "Purchase request ID"
// @Success 200 {object} dto.APIResponse{data=dto.PurchaseRequestDTO} "Purchase request"
// @Failure 400 {object} dto.APIResponse "Malformed ID"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/pr/{id} [get]
func (h *PurchaseRequestHandler) Get(c fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid purchase request ID", "INVALID_ID", nil)
	}

	result, err := h.prFlow.Get(h.createRequestContext(c, "/api/pr/:id"), id)
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to load purchase request", "GET_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Purchase request retrieved successfully", result)
}

// Update handles modifying mutable fields of a purchase request
// @Summary Update Purchase Request
// @Description Update mutable fields; code and sequence number never change
// @Tags PurchaseRequests
// @Accept json
// @Produce json
// @Param id path int true "Purchase request ID"
// @Param request body dto.UpdatePurchaseRequestRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PurchaseRequestDTO} "Purchase request updated"
// @Failure 400 {object} dto.APIResponse "Validation error or malformed ID"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/pr/{id} [put]
func (h *PurchaseRequestHandler) Update(c fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid purchase request ID", "INVALID_ID", nil)
	}

	var req dto.UpdatePurchaseRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.prFlow.Update(h.createRequestContext(c, "/api/pr/:id"), id, &req, metadata)
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to update purchase request", "UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Purchase request updated successfully", result)
}

// Delete handles removing a purchase request
// @Summary Delete Purchase Request
// @Description Delete a purchase request by its numeric ID
// @Tags PurchaseRequests
// @Produce json
// @Param id path int true "Purchase request ID"
// @Success 200 {object} dto.APIResponse "Purchase request deleted"
// @Failure 400 {object} dto.APIResponse "Malformed ID"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/pr/{id} [delete]
func (h *PurchaseRequestHandler) Delete(c fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid purchase request ID", "INVALID_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	if err := h.prFlow.Delete(h.createRequestContext(c, "/api/pr/:id"), id, metadata); err != nil {
		return h.mapBusinessError(c, err, "Failed to delete purchase request", "DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Purchase request deleted successfully", nil)
}

// ExportExcel streams all purchase requests as an xlsx attachment
// @Summary Export Purchase Requests (Excel)
// @Tags PurchaseRequests
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/pr/export/excel [get]
func (h *PurchaseRequestHandler) ExportExcel(c fiber.Ctx) error {
	filename, data, err := h.prFlow.ExportExcel(h.createRequestContext(c, "/api/pr/export/excel"))
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to export purchase requests", "EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportCSV streams all purchase requests as a CSV attachment
// @Summary Export Purchase Requests (CSV)
// @Tags PurchaseRequests
// @Produce text/csv
// @Success 200 {file} binary "CSV file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/pr/export/csv [get]
func (h *PurchaseRequestHandler) ExportCSV(c fiber.Ctx) error {
	filename, data, err := h.prFlow.ExportCSV(h.createRequestContext(c, "/api/pr/export/csv"))
	if err != nil {
		return h.mapBusinessError(c, err, "Failed to export purchase requests", "EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, contentTypeCSV)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// parseID extracts and validates the numeric :id path parameter
func (h *PurchaseRequestHandler) parseID(c fiber.Ctx) (uint, bool) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *PurchaseRequestHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
