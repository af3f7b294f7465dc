package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/event"
	"fintrack/internal/ledger"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateBankAccountRequest struct {
	Name           string `json:"name" binding:"required"`
	AccountNumber  string `json:"account_number" binding:"required"`
	BankName       string `json:"bank_name"`
	Currency       string `json:"currency" binding:"required,len=3"`
	OpeningMinor   int64  `json:"opening_minor" binding:"gte=0"`
}

type RecordDonationRequest struct {
	BankAccountID string `json:"bank_account_id" binding:"required"`
	DonorID       string `json:"donor_id" binding:"required"`
	ProjectID     string `json:"project_id"`
	AmountMinor   int64  `json:"amount_minor" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,len=3"`
	Reference     string `json:"reference"`
	Narrative     string `json:"narrative"`
}

type BankAccountResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	AccountNumber string      `json:"account_number"`
	BankName      string      `json:"bank_name"`
	Balance       money.Money `json:"balance"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     string      `json:"created_at"`
}

type CashFlowResponse struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Amount        money.Money `json:"amount"`
	BankAccountID string      `json:"bank_account_id"`
	ProjectID     *string     `json:"project_id"`
	ExpenseID     *string     `json:"expense_id"`
	DonorID       *string     `json:"donor_id"`
	Reference     string      `json:"reference"`
	Description   string      `json:"description"`
	BalanceBefore money.Money `json:"balance_before"`
	BalanceAfter  money.Money `json:"balance_after"`
	CreatedAt     string      `json:"created_at"`
}

// --- Interface ---

type BankService interface {
	CreateAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccountResponse, error)
	GetAccount(ctx context.Context, id string) (BankAccountResponse, error)
	ListAccounts(ctx context.Context, page, limit int) ([]BankAccountResponse, int64, error)
	SetAccountActive(ctx context.Context, id string, active bool) error
	RecordDonation(ctx context.Context, actor Actor, req RecordDonationRequest) (CashFlowResponse, error)
	ListCashFlows(ctx context.Context, filter repository.CashFlowFilter) ([]CashFlowResponse, int64, error)
}

type bankService struct {
	accountRepo  repository.BankAccountRepository
	cashFlowRepo repository.CashFlowRepository
	donorRepo    repository.DonorRepository
	txManager    repository.TransactionManager
	cashLedger   ledger.CashLedger
	events       event.Publisher
}

func NewBankService(
	accountRepo repository.BankAccountRepository,
	cashFlowRepo repository.CashFlowRepository,
	donorRepo repository.DonorRepository,
	txManager repository.TransactionManager,
	cashLedger ledger.CashLedger,
	events event.Publisher,
) BankService {
	return &bankService{
		accountRepo:  accountRepo,
		cashFlowRepo: cashFlowRepo,
		donorRepo:    donorRepo,
		txManager:    txManager,
		cashLedger:   cashLedger,
		events:       events,
	}
}

// --- Implementation ---

func (s *bankService) CreateAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccountResponse, error) {
	account := model.BankAccount{
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Balance:       money.New(req.OpeningMinor, req.Currency),
		IsActive:      true,
	}
	if err := s.accountRepo.Create(ctx, &account); err != nil {
		return BankAccountResponse{}, fmt.Errorf("failed to create bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}

func (s *bankService) GetAccount(ctx context.Context, id string) (BankAccountResponse, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return BankAccountResponse{}, fmt.Errorf("%w: invalid bank account id", model.ErrValidation)
	}
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return BankAccountResponse{}, err
	}
	return toBankAccountResponse(*account), nil
}

func (s *bankService) ListAccounts(ctx context.Context, page, limit int) ([]BankAccountResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	accounts, total, err := s.accountRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]BankAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toBankAccountResponse(a))
	}
	return result, total, nil
}

func (s *bankService) SetAccountActive(ctx context.Context, id string, active bool) error {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid bank account id", model.ErrValidation)
	}
	return s.accountRepo.SetActive(ctx, accountID, active)
}

// RecordDonation posts a donor disbursement as an inflow through the cash
// ledger, inside one transaction.
func (s *bankService) RecordDonation(ctx context.Context, actor Actor, req RecordDonationRequest) (CashFlowResponse, error) {
	accountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		return CashFlowResponse{}, fmt.Errorf("%w: invalid bank_account_id", model.ErrValidation)
	}
	donorID, err := uuid.Parse(req.DonorID)
	if err != nil {
		return CashFlowResponse{}, fmt.Errorf("%w: invalid donor_id", model.ErrValidation)
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		parsed, parseErr := uuid.Parse(req.ProjectID)
		if parseErr != nil {
			return CashFlowResponse{}, fmt.Errorf("%w: invalid project_id", model.ErrValidation)
		}
		projectID = &parsed
	}

	var result ledger.PostingResult
	var donor *model.Donor
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		donor, findErr = s.donorRepo.FindByID(txCtx, donorID)
		if findErr != nil {
			return findErr
		}

		narrative := req.Narrative
		if narrative == "" {
			narrative = fmt.Sprintf("Donation from %s", donor.Name)
		}

		var postErr error
		result, postErr = s.cashLedger.PostReceipt(txCtx, accountID, ledger.Receipt{
			Amount:    money.New(req.AmountMinor, req.Currency),
			DonorID:   &donorID,
			ProjectID: projectID,
			Reference: req.Reference,
			Narrative: narrative,
			ActorID:   actor.ID,
		})
		return postErr
	})
	if err != nil {
		return CashFlowResponse{}, err
	}

	if s.events != nil {
		s.events.Publish(event.Event{
			Type:     event.DonationReceived,
			EntityID: result.CashFlowEntryID,
			ActorID:  actor.ID,
			Data: map[string]interface{}{
				"donor": donor.Name,
			},
		})
	}

	// Reload the entry for the response snapshot.
	entries, _, err := s.cashFlowRepo.List(ctx, repository.CashFlowFilter{BankAccountID: &accountID, Limit: 1})
	if err != nil || len(entries) == 0 {
		// Entry committed; fall back to a minimal snapshot.
		return CashFlowResponse{
			ID:            result.CashFlowEntryID.String(),
			Type:          model.CashFlowInflow,
			BankAccountID: req.BankAccountID,
			BalanceAfter:  result.NewBalance,
		}, nil
	}
	return toCashFlowResponse(entries[0]), nil
}

func (s *bankService) ListCashFlows(ctx context.Context, filter repository.CashFlowFilter) ([]CashFlowResponse, int64, error) {
	entries, total, err := s.cashFlowRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]CashFlowResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toCashFlowResponse(e))
	}
	return result, total, nil
}

// --- Helpers ---

func toBankAccountResponse(a model.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		BankName:      a.BankName,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toCashFlowResponse(e model.CashFlow) CashFlowResponse {
	resp := CashFlowResponse{
		ID:            e.ID.String(),
		Type:          e.Type,
		Amount:        e.Amount,
		BankAccountID: e.BankAccountID.String(),
		Reference:     e.Reference,
		Description:   e.Description,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
	if e.ProjectID != nil {
		v := e.ProjectID.String()
		resp.ProjectID = &v
	}
	if e.ExpenseID != nil {
		v := e.ExpenseID.String()
		resp.ExpenseID = &v
	}
	if e.DonorID != nil {
		v := e.DonorID.String()
		resp.DonorID = &v
	}
	return resp
}
