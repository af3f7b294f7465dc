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

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes binds the expense endpoints. All routes require a valid
// token; per-transition role checks run inside the service guard so a wrong
// role against a wrong state reports the state problem first.
func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/expenses")
	{
		expenses.POST("", h.CreateExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/:id", h.GetExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
		expenses.POST("/:id/submit", h.SubmitExpense)
		expenses.POST("/:id/review", h.ReviewExpense)
		expenses.POST("/:id/approve", h.ApproveExpense)
		expenses.POST("/:id/reject", h.RejectExpense)
		expenses.POST("/:id/pay", h.MarkPaid)
		expenses.GET("/:id/history", h.GetApprovalHistory)
	}
}

// CreateExpense creates a draft expense
// @Summary      Create expense
// @Description  Creates a new expense in Draft, owned by the caller
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateExpenseRequest  true  "Create Expense Payload"
// @Success      201      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Router       /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ListExpenses returns expenses filtered by project, status or submitter
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Param        status      query     string  false  "Expense status"
// @Param        mine        query     bool    false  "Only the caller's expenses"
// @Success      200         {object}  response.Response{data=object}
// @Router       /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.ExpenseFilter{
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
	if c.Query("mine") == "true" {
		filter.SubmittedBy = &actor.ID
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"meta":     params.Meta(total),
	}))
}

// GetExpense fetches a single expense by ID
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      404  {object}  response.Response
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expense, err := h.expenseService.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// UpdateExpense edits an editable (Draft or Rejected) expense
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Expense ID"
// @Param        payload  body      service.UpdateExpenseRequest  true  "Update Expense Payload"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      409      {object}  response.Response
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// DeleteExpense removes an editable expense
// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Expense deleted successfully"))
}

// SubmitExpense moves a Draft or Rejected expense into Submitted
// @Summary      Submit expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      409  {object}  response.Response
// @Router       /expenses/{id}/submit [post]
func (h *ExpenseHandler) SubmitExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// ReviewExpense records the finance review decision on a Submitted expense
// @Summary      Review expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Expense ID"
// @Param        payload  body      service.ReviewExpenseRequest  true  "Review Decision"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /expenses/{id}/review [post]
func (h *ExpenseHandler) ReviewExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.ReviewExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.ReviewExpense(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// ApproveExpense grants final approval and posts the budget spend
// @Summary      Approve expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Comments string `json:"comments"`
	}
	// Empty body is fine, comments are optional on approval
	_ = c.ShouldBindJSON(&req)

	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), c.Param("id"), actor, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// RejectExpense rejects an in-flight expense with a mandatory reason
// @Summary      Reject expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Expense ID"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// MarkPaid records the disbursement for an Approved expense
// @Summary      Mark expense paid
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Expense ID"
// @Param        payload  body      service.MarkPaidRequest  true  "Payment Details"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /expenses/{id}/pay [post]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.MarkPaid(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// GetApprovalHistory returns the decision trail of one expense
// @Summary      Expense approval history
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=[]service.ExpenseApprovalResponse}
// @Failure      404  {object}  response.Response
// @Router       /expenses/{id}/history [get]
func (h *ExpenseHandler) GetApprovalHistory(c *gin.Context) {
	history, err := h.expenseService.GetApprovalHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
