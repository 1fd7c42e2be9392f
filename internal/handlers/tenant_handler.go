package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"property-desk/internal/services"
)

// TenantHandler exposes the tenant directory
type TenantHandler struct {
	service *services.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(service *services.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

type addTenantRequest struct {
	Name            string `form:"name" json:"name"`
	Phone           string `form:"phone" json:"phone"`
	Email           string `form:"email" json:"email"`
	ApartmentNumber string `form:"apartment_number" json:"apartment_number"`
}

type moveTenantRequest struct {
	NewApartmentNumber string `form:"new_apartment_number" json:"new_apartment_number"`
}

// ListTenants handles GET /tenants
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.service.ListTenants(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenants retrieved", tenants)
}

// AddTenant handles POST /tenants
func (h *TenantHandler) AddTenant(c *gin.Context) {
	var req addTenantRequest
	if err := c.ShouldBind(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tenant, err := h.service.AddTenant(c.Request.Context(), services.AddTenantInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		ApartmentNumber: req.ApartmentNumber,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Tenant added successfully", tenant)
}

// GetTenant handles GET /tenants/:id
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.service.GetTenant(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant retrieved", tenant)
}

// MoveTenant handles PUT /tenants/:id/apartment
func (h *TenantHandler) MoveTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req moveTenantRequest
	if err := c.ShouldBind(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tenant, err := h.service.MoveTenant(c.Request.Context(), id, req.NewApartmentNumber)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant moved successfully", tenant)
}

// CheckOutTenant handles POST /tenants/:id/checkout
func (h *TenantHandler) CheckOutTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.service.CheckOutTenant(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant checked out", tenant)
}

// DeleteTenant handles DELETE /tenants/:id
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTenant(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant deleted successfully", nil)
}
