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

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	manage := middleware.RequireRole(model.RoleProgramsManager)

	projects := router.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.POST("", manage, h.CreateProject)
		projects.PUT("/:id", manage, h.UpdateProject)
	}

	donors := router.Group("/donors")
	{
		donors.GET("", h.ListDonors)
		donors.POST("", manage, h.CreateDonor)
		donors.PUT("/:id", manage, h.UpdateDonor)
	}
}

// CreateProject registers a new project
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProjectRequest  true  "Create Project Payload"
// @Success      201      {object}  response.Response{data=service.ProjectResponse}
// @Failure      400      {object}  response.Response
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// UpdateProject edits project details or status
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Project ID"
// @Param        payload  body      service.UpdateProjectRequest  true  "Update Project Payload"
// @Success      200      {object}  response.Response{data=service.ProjectResponse}
// @Failure      404      {object}  response.Response
// @Router       /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// GetProject fetches one project
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=service.ProjectResponse}
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// ListProjects lists projects with optional status and search filters
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Project status"
// @Param        search  query     string  false  "Name or code search"
// @Success      200     {object}  response.Response{data=object}
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := pagination.Parse(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), c.Query("status"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"projects": projects,
		"meta":     params.Meta(total),
	}))
}

// CreateDonor registers a donor
// @Summary      Create donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DonorRequest  true  "Donor Payload"
// @Success      201      {object}  response.Response{data=service.DonorResponse}
// @Failure      400      {object}  response.Response
// @Router       /donors [post]
func (h *ProjectHandler) CreateDonor(c *gin.Context) {
	var req service.DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donor, err := h.projectService.CreateDonor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, donor))
}

// UpdateDonor edits donor details
// @Summary      Update donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Donor ID"
// @Param        payload  body      service.DonorRequest  true  "Donor Payload"
// @Success      200      {object}  response.Response{data=service.DonorResponse}
// @Failure      404      {object}  response.Response
// @Router       /donors/{id} [put]
func (h *ProjectHandler) UpdateDonor(c *gin.Context) {
	var req service.DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	donor, err := h.projectService.UpdateDonor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, donor))
}

// ListDonors lists donors
// @Summary      List donors
// @Tags         donors
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name search"
// @Success      200     {object}  response.Response{data=object}
// @Router       /donors [get]
func (h *ProjectHandler) ListDonors(c *gin.Context) {
	params := pagination.Parse(c)

	donors, total, err := h.projectService.ListDonors(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"donors": donors,
		"meta":   params.Meta(total),
	}))
}
