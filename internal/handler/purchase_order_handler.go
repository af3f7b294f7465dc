package handler

import (
	"net/http"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/pagination"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/purchase-orders")
	{
		pos.POST("", h.CreatePO)
		pos.GET("", h.ListPOs)
		pos.GET("/:id", h.GetPO)
		pos.PUT("/:id", h.UpdatePO)
		pos.POST("/:id/submit", h.SubmitPO)
		pos.POST("/:id/approve", h.ApprovePO)
		pos.POST("/:id/reject", h.RejectPO)
		pos.POST("/:id/receive", h.ReceiveItems)
		pos.POST("/:id/complete", h.CompletePO)
		pos.POST("/:id/cancel", h.CancelPO)
		pos.POST("/:id/expenses/:expenseId", h.LinkExpense)
		pos.DELETE("/:id/expenses/:expenseId", h.UnlinkExpense)
	}
}

// CreatePO creates a draft purchase order with its line items
// @Summary      Create purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePORequest  true  "Create PO Payload"
// @Success      201      {object}  response.Response{data=service.POResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.CreatePO(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, po))
}

// ListPOs lists purchase orders with optional filters
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Param        vendor_id   query     string  false  "Vendor ID"
// @Param        status      query     string  false  "PO status"
// @Success      200         {object}  response.Response{data=object}
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) ListPOs(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.PurchaseOrderFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project_id"))
			return
		}
		filter.ProjectID = &projectID
	}
	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid vendor_id"))
			return
		}
		filter.VendorID = &vendorID
	}

	pos, total, err := h.poService.ListPOs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"purchase_orders": pos,
		"meta":            params.Meta(total),
	}))
}

// GetPO fetches one purchase order with its items
// @Summary      Get purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      404  {object}  response.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetPO(c *gin.Context) {
	po, err := h.poService.GetPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// UpdatePO edits a Draft purchase order
// @Summary      Update purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "PO ID"
// @Param        payload  body      service.UpdatePORequest  true  "Update PO Payload"
// @Success      200      {object}  response.Response{data=service.POResponse}
// @Failure      409      {object}  response.Response
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) UpdatePO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.UpdatePO(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// SubmitPO moves a Draft PO into Pending
// @Summary      Submit purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      409  {object}  response.Response
// @Router       /purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) SubmitPO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	po, err := h.poService.SubmitPO(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// ApprovePO approves a Pending PO
// @Summary      Approve purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) ApprovePO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	po, err := h.poService.ApprovePO(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// RejectPO rejects a Pending PO
// @Summary      Reject purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      409  {object}  response.Response
// @Router       /purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) RejectPO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	po, err := h.poService.RejectPO(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// ReceiveItems records a (possibly partial) delivery against PO line items
// @Summary      Receive purchase order items
// @Description  Records received quantities per line item. The whole delivery is rejected if any line would exceed its ordered quantity.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "PO ID"
// @Param        payload  body      service.ReceiveItemsRequest  true  "Received quantities keyed by line item ID"
// @Success      200      {object}  response.Response{data=service.POResponse}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) ReceiveItems(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.ReceiveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.ReceiveItems(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// CompletePO closes a fully received PO
// @Summary      Complete purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      409  {object}  response.Response
// @Router       /purchase-orders/{id}/complete [post]
func (h *PurchaseOrderHandler) CompletePO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	po, err := h.poService.CompletePO(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// CancelPO cancels a PO from any non-terminal state
// @Summary      Cancel purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "PO ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      409  {object}  response.Response
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) CancelPO(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	po, err := h.poService.CancelPO(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// LinkExpense associates an expense with an approved PO
// @Summary      Link expense to purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "PO ID"
// @Param        expenseId  path      string  true  "Expense ID"
// @Success      200        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /purchase-orders/{id}/expenses/{expenseId} [post]
func (h *PurchaseOrderHandler) LinkExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.poService.LinkExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Expense linked"))
}

// UnlinkExpense removes the association between an expense and a PO
// @Summary      Unlink expense from purchase order
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "PO ID"
// @Param        expenseId  path      string  true  "Expense ID"
// @Success      200        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /purchase-orders/{id}/expenses/{expenseId} [delete]
func (h *PurchaseOrderHandler) UnlinkExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.poService.UnlinkExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Expense unlinked"))
}
