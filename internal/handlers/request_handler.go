package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"property-desk/internal/models"
	"property-desk/internal/services"
)

// RequestHandler exposes the maintenance request ledger
type RequestHandler struct {
	service        *services.MaintenanceService
	maxUploadBytes int64
}

// NewRequestHandler creates a new maintenance request handler
func NewRequestHandler(service *services.MaintenanceService, maxUploadBytes int64) *RequestHandler {
	return &RequestHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// multipartOverhead is the room left for text fields and part headers
const multipartOverhead = 64 << 10

type submitRequestForm struct {
	TenantID        uint   `form:"tenant_id" json:"tenant_id"`
	ApartmentNumber string `form:"apartment_number" json:"apartment_number"`
	ProblemArea     string `form:"problem_area" json:"problem_area"`
	Description     string `form:"description" json:"description"`
}

// FilterRequests handles GET /requests
func (h *RequestHandler) FilterRequests(c *gin.Context) {
	var filter models.RequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	requests, err := h.service.FilterRequests(c.Request.Context(), filter)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Maintenance requests retrieved", requests)
}

// SubmitRequest handles POST /requests. The photo is an optional
// multipart file field named "photo".
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	if err := h.limitBody(c); err != nil {
		HandleServiceError(c, err)
		return
	}

	var form submitRequestForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleServiceError(c, h.photoTooLarge())
			return
		}
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	request, err := h.service.SubmitRequest(c.Request.Context(), services.SubmitRequestInput{
		TenantID:        form.TenantID,
		ApartmentNumber: form.ApartmentNumber,
		ProblemArea:     form.ProblemArea,
		Description:     form.Description,
		Photo:           photo,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Your maintenance request has been successfully submitted", request)
}

// GetRequest handles GET /requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	request, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Maintenance request retrieved", request)
}

// CompleteRequest handles POST /requests/:id/complete
func (h *RequestHandler) CompleteRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	request, err := h.service.CompleteRequest(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Request status updated successfully", request)
}

// limitBody caps a multipart body at the photo limit plus room for the
// text fields, so oversized uploads fail while they are being read
func (h *RequestHandler) limitBody(c *gin.Context) error {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil
	}

	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		return h.photoTooLarge()
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return nil
}

func (h *RequestHandler) photoTooLarge() error {
	return services.NewValidationError("photo", fmt.Sprintf("must be at most %d bytes", h.maxUploadBytes))
}

// readPhoto returns the uploaded photo, or nil when none was attached
func (h *RequestHandler) readPhoto(c *gin.Context) (*services.PhotoUpload, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}

	fileHeader, err := c.FormFile("photo")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, services.NewValidationError("photo", "could not be read")
	}
	if fileHeader.Filename == "" {
		return nil, nil
	}
	if fileHeader.Size > h.maxUploadBytes {
		return nil, h.photoTooLarge()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, services.NewValidationError("photo", "could not be read")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, services.NewValidationError("photo", "could not be read")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, h.photoTooLarge()
	}

	return &services.PhotoUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}
