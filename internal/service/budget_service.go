package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// --- DTOs ---

type BudgetItemRequest struct {
	Category       string `json:"category" binding:"required"`
	AllocatedMinor int64  `json:"allocated_minor" binding:"required,gt=0"`
}

type CreateBudgetRequest struct {
	ProjectID   string              `json:"project_id" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	FiscalYear  int                 `json:"fiscal_year" binding:"required"`
	Currency    string              `json:"currency" binding:"required,len=3"`
	Description string              `json:"description"`
	Items       []BudgetItemRequest `json:"items" binding:"required,min=1,dive"`
}

type BudgetItemResponse struct {
	ID          string      `json:"id"`
	Category    string      `json:"category"`
	Allocated   money.Money `json:"allocated"`
	Spent       money.Money `json:"spent"`
	Utilization string      `json:"utilization"` // percent, 2dp half-up; may exceed 100
}

type BudgetResponse struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"project_id"`
	Name        string               `json:"name"`
	FiscalYear  int                  `json:"fiscal_year"`
	Description string               `json:"description"`
	Items       []BudgetItemResponse `json:"items"`
	CreatedAt   string               `json:"created_at"`
}

// --- Interface ---

type BudgetService interface {
	CreateBudget(ctx context.Context, req CreateBudgetRequest) (BudgetResponse, error)
	GetBudget(ctx context.Context, id string) (BudgetResponse, error)
	ListBudgets(ctx context.Context, projectID string, page, limit int) ([]BudgetResponse, int64, error)
	AddItem(ctx context.Context, budgetID string, currency string, req BudgetItemRequest) (BudgetItemResponse, error)
	UpdateItemAllocation(ctx context.Context, itemID string, allocatedMinor int64) (BudgetItemResponse, error)
}

type budgetService struct {
	budgetRepo  repository.BudgetRepository
	projectRepo repository.ProjectRepository
	txManager   repository.TransactionManager
}

func NewBudgetService(budgetRepo repository.BudgetRepository, projectRepo repository.ProjectRepository, txManager repository.TransactionManager) BudgetService {
	return &budgetService{budgetRepo: budgetRepo, projectRepo: projectRepo, txManager: txManager}
}

// --- Implementation ---

func (s *budgetService) CreateBudget(ctx context.Context, req CreateBudgetRequest) (BudgetResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("%w: invalid project_id", model.ErrValidation)
	}

	var budget model.Budget
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.projectRepo.FindByID(txCtx, projectID); findErr != nil {
			return findErr
		}

		budget = model.Budget{
			ProjectID:   projectID,
			Name:        req.Name,
			FiscalYear:  req.FiscalYear,
			Description: req.Description,
		}
		if createErr := s.budgetRepo.CreateBudget(txCtx, &budget); createErr != nil {
			return fmt.Errorf("failed to create budget: %w", createErr)
		}

		for _, itemReq := range req.Items {
			item := model.BudgetItem{
				BudgetID:  budget.ID,
				Category:  itemReq.Category,
				Allocated: money.New(itemReq.AllocatedMinor, req.Currency),
				Spent:     money.Zero(req.Currency),
			}
			if itemErr := s.budgetRepo.CreateItem(txCtx, &item); itemErr != nil {
				return fmt.Errorf("failed to create budget item: %w", itemErr)
			}
			budget.Items = append(budget.Items, item)
		}

		return nil
	})
	if err != nil {
		return BudgetResponse{}, err
	}

	return toBudgetResponse(budget), nil
}

func (s *budgetService) GetBudget(ctx context.Context, id string) (BudgetResponse, error) {
	budgetID, err := uuid.Parse(id)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("%w: invalid budget id", model.ErrValidation)
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return BudgetResponse{}, err
	}
	return toBudgetResponse(*budget), nil
}

func (s *budgetService) ListBudgets(ctx context.Context, projectID string, page, limit int) ([]BudgetResponse, int64, error) {
	var pid *uuid.UUID
	if projectID != "" {
		parsed, err := uuid.Parse(projectID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid project_id", model.ErrValidation)
		}
		pid = &parsed
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	budgets, total, err := s.budgetRepo.ListBudgets(ctx, pid, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		result = append(result, toBudgetResponse(b))
	}
	return result, total, nil
}

func (s *budgetService) AddItem(ctx context.Context, budgetID string, currency string, req BudgetItemRequest) (BudgetItemResponse, error) {
	bID, err := uuid.Parse(budgetID)
	if err != nil {
		return BudgetItemResponse{}, fmt.Errorf("%w: invalid budget id", model.ErrValidation)
	}

	var item model.BudgetItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.budgetRepo.FindBudgetByID(txCtx, bID); findErr != nil {
			return findErr
		}

		item = model.BudgetItem{
			BudgetID:  bID,
			Category:  req.Category,
			Allocated: money.New(req.AllocatedMinor, currency),
			Spent:     money.Zero(currency),
		}
		if createErr := s.budgetRepo.CreateItem(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to create budget item: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return BudgetItemResponse{}, err
	}

	return toBudgetItemResponse(item), nil
}

func (s *budgetService) UpdateItemAllocation(ctx context.Context, itemID string, allocatedMinor int64) (BudgetItemResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return BudgetItemResponse{}, fmt.Errorf("%w: invalid budget item id", model.ErrValidation)
	}
	if allocatedMinor <= 0 {
		return BudgetItemResponse{}, fmt.Errorf("%w: allocation must be positive", model.ErrValidation)
	}

	var item *model.BudgetItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		item, findErr = s.budgetRepo.FindItemByIDForUpdate(txCtx, id)
		if findErr != nil {
			return findErr
		}

		item.Allocated = money.New(allocatedMinor, item.Allocated.Currency)
		if saveErr := s.budgetRepo.SaveItem(txCtx, item); saveErr != nil {
			return fmt.Errorf("failed to update allocation: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return BudgetItemResponse{}, err
	}

	return toBudgetItemResponse(*item), nil
}

// --- Helpers ---

func toBudgetItemResponse(item model.BudgetItem) BudgetItemResponse {
	return BudgetItemResponse{
		ID:          item.ID.String(),
		Category:    item.Category,
		Allocated:   item.Allocated,
		Spent:       item.Spent,
		Utilization: item.Spent.PercentOf(item.Allocated).StringFixed(2),
	}
}

func toBudgetResponse(b model.Budget) BudgetResponse {
	items := make([]BudgetItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, toBudgetItemResponse(item))
	}
	return BudgetResponse{
		ID:          b.ID.String(),
		ProjectID:   b.ProjectID.String(),
		Name:        b.Name,
		FiscalYear:  b.FiscalYear,
		Description: b.Description,
		Items:       items,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}
