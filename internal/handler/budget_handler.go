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

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Budget shaping is a management concern, not a workflow one.
	manage := middleware.RequireRole(model.RoleProgramsManager, model.RoleFinanceOfficer)

	budgets := router.Group("/budgets")
	{
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.POST("", manage, h.CreateBudget)
		budgets.POST("/:id/items", manage, h.AddItem)
	}
	router.PUT("/budget-items/:itemId", manage, h.UpdateItemAllocation)
}

// CreateBudget creates a budget with its line items
// @Summary      Create budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBudgetRequest  true  "Create Budget Payload"
// @Success      201      {object}  response.Response{data=service.BudgetResponse}
// @Failure      400      {object}  response.Response
// @Router       /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req service.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, budget))
}

// GetBudget returns a budget with per-item utilization
// @Summary      Get budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget ID"
// @Success      200  {object}  response.Response{data=service.BudgetResponse}
// @Failure      404  {object}  response.Response
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, budget))
}

// ListBudgets lists budgets, optionally scoped to a project
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Success      200         {object}  response.Response{data=object}
// @Router       /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	params := pagination.Parse(c)

	budgets, total, err := h.budgetService.ListBudgets(c.Request.Context(), c.Query("project_id"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"budgets": budgets,
		"meta":    params.Meta(total),
	}))
}

// AddItem adds a line item to an existing budget
// @Summary      Add budget item
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Budget ID"
// @Param        payload  body      service.BudgetItemRequest  true  "Budget Item Payload"
// @Success      201      {object}  response.Response{data=service.BudgetItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /budgets/{id}/items [post]
func (h *BudgetHandler) AddItem(c *gin.Context) {
	var req service.BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.budgetService.AddItem(c.Request.Context(), c.Param("id"), c.Query("currency"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItemAllocation changes the allocated amount of a budget item
// @Summary      Update budget item allocation
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId   path      string  true  "Budget Item ID"
// @Success      200      {object}  response.Response{data=service.BudgetItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /budget-items/{itemId} [put]
func (h *BudgetHandler) UpdateItemAllocation(c *gin.Context) {
	var req struct {
		AllocatedMinor int64 `json:"allocated_minor" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.budgetService.UpdateItemAllocation(c.Request.Context(), c.Param("itemId"), req.AllocatedMinor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
