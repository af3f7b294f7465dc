package handler

import (
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/model"
	"fintrack/internal/service"
	"fintrack/pkg/pagination"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	manage := middleware.RequireRole(model.RoleFinanceOfficer, model.RoleProgramsManager)

	vendors := router.Group("/vendors")
	{
		vendors.GET("", h.ListVendors)
		vendors.GET("/:id", h.GetVendor)
		vendors.POST("", manage, h.CreateVendor)
		vendors.PUT("/:id", manage, h.UpdateVendor)
		vendors.DELETE("/:id", manage, h.DeleteVendor)
	}
}

// CreateVendor registers a vendor
// @Summary      Create vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.VendorRequest  true  "Vendor Payload"
// @Success      201      {object}  response.Response{data=service.VendorResponse}
// @Failure      400      {object}  response.Response
// @Router       /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vendor))
}

// UpdateVendor edits vendor details
// @Summary      Update vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Vendor ID"
// @Param        payload  body      service.VendorRequest  true  "Vendor Payload"
// @Success      200      {object}  response.Response{data=service.VendorResponse}
// @Failure      404      {object}  response.Response
// @Router       /vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	var req service.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// DeleteVendor soft deletes a vendor
// @Summary      Delete vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendorService.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Vendor deleted successfully"))
}

// GetVendor fetches one vendor
// @Summary      Get vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=service.VendorResponse}
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// ListVendors lists vendors with an optional search filter
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name, email or phone search"
// @Success      200     {object}  response.Response{data=object}
// @Router       /vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	params := pagination.Parse(c)

	vendors, total, err := h.vendorService.ListVendors(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"vendors": vendors,
		"meta":    params.Meta(total),
	}))
}
