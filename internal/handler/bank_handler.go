package handler

import (
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/pagination"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BankHandler struct {
	bankService service.BankService
}

func NewBankHandler(bankService service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

func (h *BankHandler) RegisterRoutes(router *gin.RouterGroup) {
	finance := middleware.RequireRole(model.RoleFinanceOfficer, model.RoleProgramsManager)

	accounts := router.Group("/bank-accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.POST("", finance, h.CreateAccount)
		accounts.PUT("/:id/active", finance, h.SetAccountActive)
	}

	router.GET("/cashflows", h.ListCashFlows)
	router.POST("/donations", finance, h.RecordDonation)
}

// CreateAccount opens a bank account with an optional opening balance
// @Summary      Create bank account
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBankAccountRequest  true  "Create Account Payload"
// @Success      201      {object}  response.Response{data=service.BankAccountResponse}
// @Failure      400      {object}  response.Response
// @Router       /bank-accounts [post]
func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req service.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// GetAccount returns one bank account
// @Summary      Get bank account
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response{data=service.BankAccountResponse}
// @Failure      404  {object}  response.Response
// @Router       /bank-accounts/{id} [get]
func (h *BankHandler) GetAccount(c *gin.Context) {
	account, err := h.bankService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// ListAccounts lists bank accounts
// @Summary      List bank accounts
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Router       /bank-accounts [get]
func (h *BankHandler) ListAccounts(c *gin.Context) {
	params := pagination.Parse(c)

	accounts, total, err := h.bankService.ListAccounts(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"meta":     params.Meta(total),
	}))
}

// SetAccountActive activates or deactivates an account
// @Summary      Set bank account active flag
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /bank-accounts/{id}/active [put]
func (h *BankHandler) SetAccountActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.bankService.SetAccountActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Account updated"))
}

// RecordDonation posts a donor disbursement into a bank account
// @Summary      Record donation
// @Tags         bank
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.RecordDonationRequest  true  "Donation Payload"
// @Success      201      {object}  response.Response{data=service.CashFlowResponse}
// @Failure      400      {object}  response.Response
// @Router       /donations [post]
func (h *BankHandler) RecordDonation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.bankService.RecordDonation(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ListCashFlows lists cash ledger entries with optional filters
// @Summary      List cash flows
// @Tags         bank
// @Produce      json
// @Security     BearerAuth
// @Param        bank_account_id  query     string  false  "Bank Account ID"
// @Param        project_id       query     string  false  "Project ID"
// @Param        type             query     string  false  "INFLOW or OUTFLOW"
// @Success      200              {object}  response.Response{data=object}
// @Router       /cashflows [get]
func (h *BankHandler) ListCashFlows(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.CashFlowFilter{
		Type:  c.Query("type"),
		Page:  params.Page,
		Limit: params.Limit,
	}
	if raw := c.Query("bank_account_id"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid bank_account_id"))
			return
		}
		filter.BankAccountID = &accountID
	}
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project_id"))
			return
		}
		filter.ProjectID = &projectID
	}

	flows, total, err := h.bankService.ListCashFlows(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"cashflows": flows,
		"meta":      params.Meta(total),
	}))
}
