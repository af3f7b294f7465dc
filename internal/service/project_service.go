package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateProjectRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DonorID     string `json:"donor_id"`
	StartDate   string `json:"start_date"` // RFC 3339 date
	EndDate     string `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=ACTIVE COMPLETED ON_HOLD"`
}

type ProjectResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DonorID     *string `json:"donor_id"`
	DonorName   string  `json:"donor_name,omitempty"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	CreatedAt   string  `json:"created_at"`
}

type DonorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
}

type DonorResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (ProjectResponse, error)
	GetProject(ctx context.Context, id string) (ProjectResponse, error)
	ListProjects(ctx context.Context, status, search string, page, limit int) ([]ProjectResponse, int64, error)

	CreateDonor(ctx context.Context, req DonorRequest) (DonorResponse, error)
	UpdateDonor(ctx context.Context, id string, req DonorRequest) (DonorResponse, error)
	ListDonors(ctx context.Context, search string, page, limit int) ([]DonorResponse, int64, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	donorRepo   repository.DonorRepository
}

func NewProjectService(projectRepo repository.ProjectRepository, donorRepo repository.DonorRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, donorRepo: donorRepo}
}

// --- Implementation ---

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error) {
	project := model.Project{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectStatusActive,
	}

	if req.DonorID != "" {
		donorID, err := uuid.Parse(req.DonorID)
		if err != nil {
			return ProjectResponse{}, fmt.Errorf("%w: invalid donor_id", model.ErrValidation)
		}
		if _, err := s.donorRepo.FindByID(ctx, donorID); err != nil {
			return ProjectResponse{}, err
		}
		project.DonorID = &donorID
	}

	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return ProjectResponse{}, fmt.Errorf("%w: invalid start_date", model.ErrValidation)
		}
		project.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return ProjectResponse{}, fmt.Errorf("%w: invalid end_date", model.ErrValidation)
		}
		project.EndDate = &end
	}

	if err := s.projectRepo.Create(ctx, &project); err != nil {
		return ProjectResponse{}, fmt.Errorf("failed to create project: %w", err)
	}

	return toProjectResponse(project), nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return ProjectResponse{}, fmt.Errorf("%w: invalid project id", model.ErrValidation)
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return ProjectResponse{}, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Status != "" {
		project.Status = req.Status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return ProjectResponse{}, fmt.Errorf("failed to update project: %w", err)
	}

	return toProjectResponse(*project), nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (ProjectResponse, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return ProjectResponse{}, fmt.Errorf("%w: invalid project id", model.ErrValidation)
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(*project), nil
}

func (s *projectService) ListProjects(ctx context.Context, status, search string, page, limit int) ([]ProjectResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	projects, total, err := s.projectRepo.List(ctx, status, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		result = append(result, toProjectResponse(p))
	}
	return result, total, nil
}

func (s *projectService) CreateDonor(ctx context.Context, req DonorRequest) (DonorResponse, error) {
	donor := model.Donor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
	}
	if err := s.donorRepo.Create(ctx, &donor); err != nil {
		return DonorResponse{}, fmt.Errorf("failed to create donor: %w", err)
	}
	return toDonorResponse(donor), nil
}

func (s *projectService) UpdateDonor(ctx context.Context, id string, req DonorRequest) (DonorResponse, error) {
	donorID, err := uuid.Parse(id)
	if err != nil {
		return DonorResponse{}, fmt.Errorf("%w: invalid donor id", model.ErrValidation)
	}

	donor, err := s.donorRepo.FindByID(ctx, donorID)
	if err != nil {
		return DonorResponse{}, err
	}

	donor.Name = req.Name
	donor.ContactPerson = req.ContactPerson
	donor.Email = req.Email
	donor.Phone = req.Phone

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return DonorResponse{}, fmt.Errorf("failed to update donor: %w", err)
	}
	return toDonorResponse(*donor), nil
}

func (s *projectService) ListDonors(ctx context.Context, search string, page, limit int) ([]DonorResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	donors, total, err := s.donorRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]DonorResponse, 0, len(donors))
	for _, d := range donors {
		result = append(result, toDonorResponse(d))
	}
	return result, total, nil
}

// --- Helpers ---

func toProjectResponse(p model.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.DonorID != nil {
		v := p.DonorID.String()
		resp.DonorID = &v
	}
	if p.Donor != nil {
		resp.DonorName = p.Donor.Name
	}
	if p.StartDate != nil {
		v := p.StartDate.Format(time.RFC3339)
		resp.StartDate = &v
	}
	if p.EndDate != nil {
		v := p.EndDate.Format(time.RFC3339)
		resp.EndDate = &v
	}
	return resp
}

func toDonorResponse(d model.Donor) DonorResponse {
	return DonorResponse{
		ID:            d.ID.String(),
		Name:          d.Name,
		ContactPerson: d.ContactPerson,
		Email:         d.Email,
		Phone:         d.Phone,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}
