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
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(model.RoleAuditor, model.RoleProgramsManager, model.RoleFinanceOfficer)

	audit := router.Group("/audit-logs")
	{
		audit.GET("", read, h.ListLogs)
		audit.GET("/entity/:entityId", read, h.EntityHistory)
	}
}

// ListLogs returns the audit trail, newest first
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action     query     string  false  "Action filter"
// @Param        entity_id  query     string  false  "Entity filter"
// @Success      200        {object}  response.Response{data=object}
// @Router       /audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.AuditFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs": logs,
		"meta": params.Meta(total),
	}))
}

// EntityHistory returns every audit entry recorded for one entity
// @Summary      Audit history for entity
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entityId  path      string  true  "Entity ID"
// @Success      200       {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /audit-logs/entity/{entityId} [get]
func (h *AuditHandler) EntityHistory(c *gin.Context) {
	history, err := h.auditService.EntityHistory(c.Request.Context(), c.Param("entityId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
