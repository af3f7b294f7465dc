package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/authz"
	"fintrack/internal/event"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type POItemRequest struct {
	Description    string `json:"description" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	UnitPriceMinor int64  `json:"unit_price_minor" binding:"required,gt=0"`
}

type CreatePORequest struct {
	VendorID  string          `json:"vendor_id" binding:"required"`
	ProjectID string          `json:"project_id" binding:"required"`
	Currency  string          `json:"currency" binding:"required,len=3"`
	TaxRate   string          `json:"tax_rate"` // decimal string, e.g. "0.10"
	Note      string          `json:"note"`
	Items     []POItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdatePORequest struct {
	TaxRate string          `json:"tax_rate"`
	Note    string          `json:"note"`
	Items   []POItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ReceiveItemsRequest maps line item id -> quantity received in this delivery.
type ReceiveItemsRequest struct {
	Receipts map[string]int `json:"receipts" binding:"required"`
}

type POItemResponse struct {
	ID               string      `json:"id"`
	Description      string      `json:"description"`
	Quantity         int         `json:"quantity"`
	QuantityReceived int         `json:"quantity_received"`
	UnitPrice        money.Money `json:"unit_price"`
}

type POResponse struct {
	ID              string           `json:"id"`
	PONo            string           `json:"po_no"`
	VendorID        string           `json:"vendor_id"`
	ProjectID       string           `json:"project_id"`
	Status          string           `json:"status"`
	TaxRate         string           `json:"tax_rate"`
	Subtotal        money.Money      `json:"subtotal"`
	Tax             money.Money      `json:"tax"`
	Total           money.Money      `json:"total"`
	Items           []POItemResponse `json:"items"`
	CreatedBy       string           `json:"created_by"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Note            string           `json:"note,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// --- Interface ---

// PurchaseOrderService orchestrates the procurement state machine, including
// monotonic partial receipt and PO-to-expense association.
type PurchaseOrderService interface {
	CreatePO(ctx context.Context, actor Actor, req CreatePORequest) (POResponse, error)
	UpdatePO(ctx context.Context, id string, actor Actor, req UpdatePORequest) (POResponse, error)
	SubmitPO(ctx context.Context, id string, actor Actor) (POResponse, error)
	ApprovePO(ctx context.Context, id string, actor Actor) (POResponse, error)
	RejectPO(ctx context.Context, id string, actor Actor, reason string) (POResponse, error)
	ReceiveItems(ctx context.Context, id string, actor Actor, req ReceiveItemsRequest) (POResponse, error)
	CompletePO(ctx context.Context, id string, actor Actor) (POResponse, error)
	CancelPO(ctx context.Context, id string, actor Actor, reason string) (POResponse, error)
	LinkExpense(ctx context.Context, id string, expenseID string, actor Actor) error
	UnlinkExpense(ctx context.Context, id string, expenseID string, actor Actor) error
	GetPO(ctx context.Context, id string) (POResponse, error)
	ListPOs(ctx context.Context, filter repository.PurchaseOrderFilter) ([]POResponse, int64, error)
}

type purchaseOrderService struct {
	poRepo      repository.PurchaseOrderRepository
	expenseRepo repository.ExpenseRepository
	vendorRepo  repository.VendorRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	events      event.Publisher
}

func NewPurchaseOrderService(
	poRepo repository.PurchaseOrderRepository,
	expenseRepo repository.ExpenseRepository,
	vendorRepo repository.VendorRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events event.Publisher,
) PurchaseOrderService {
	return &purchaseOrderService{
		poRepo:      poRepo,
		expenseRepo: expenseRepo,
		vendorRepo:  vendorRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		events:      events,
	}
}

// --- Implementation ---

func (s *purchaseOrderService) CreatePO(ctx context.Context, actor Actor, req CreatePORequest) (POResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid vendor_id", model.ErrValidation)
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid project_id", model.ErrValidation)
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil || taxRate.IsNegative() {
			return POResponse{}, fmt.Errorf("%w: invalid tax_rate", model.ErrValidation)
		}
	}

	items, err := buildPOItems(req.Items, req.Currency)
	if err != nil {
		return POResponse{}, err
	}

	var po model.PurchaseOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.vendorRepo.FindByID(txCtx, vendorID); findErr != nil {
			return findErr
		}
		if _, findErr := s.projectRepo.FindByID(txCtx, projectID); findErr != nil {
			return findErr
		}

		poNo, noErr := s.poRepo.NextPONo(txCtx)
		if noErr != nil {
			return fmt.Errorf("failed to generate purchase order number: %w", noErr)
		}

		po = model.PurchaseOrder{
			PONo:      poNo,
			VendorID:  vendorID,
			ProjectID: projectID,
			Status:    model.POStatusDraft,
			Items:     items,
			TaxRate:   taxRate,
			CreatedBy: actor.ID,
			Note:      req.Note,
		}
		recomputeTotals(&po)

		if createErr := s.poRepo.Create(txCtx, &po); createErr != nil {
			return fmt.Errorf("failed to create purchase order: %w", createErr)
		}

		return s.audit(txCtx, actor, model.ActionCreatePO, &po, map[string]interface{}{
			"total": po.Total.String(),
		})
	})
	if err != nil {
		return POResponse{}, err
	}

	return toPOResponse(po), nil
}

func (s *purchaseOrderService) UpdatePO(ctx context.Context, id string, actor Actor, req UpdatePORequest) (POResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid purchase order id", model.ErrValidation)
	}

	var po *model.PurchaseOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		po, findErr = s.poRepo.FindByIDForUpdate(txCtx, poID)
		if findErr != nil {
			return findErr
		}

		// Items are mutable only while DRAFT; reuse the submit rule's state
		// and ownership requirements.
		if guardErr := authz.CanTransition(actor.Role, authz.POSubmit, po.Status,
			authz.Facts{IsOwner: po.CreatedBy == actor.ID}); guardErr != nil {
			return guardErr
		}

		if req.TaxRate != "" {
			taxRate, parseErr := decimal.NewFromString(req.TaxRate)
			if parseErr != nil || taxRate.IsNegative() {
				return fmt.Errorf("%w: invalid tax_rate", model.ErrValidation)
			}
			po.TaxRate = taxRate
		}
		if req.Note != "" {
			po.Note = req.Note
		}
		if len(req.Items) > 0 {
			currency := po.Subtotal.Currency
			items, buildErr := buildPOItems(req.Items, currency)
			if buildErr != nil {
				return buildErr
			}
			if replaceErr := s.poRepo.ReplaceItems(txCtx, po.ID, items); replaceErr != nil {
				return fmt.Errorf("failed to replace items: %w", replaceErr)
			}
			po.Items = items
		}

		recomputeTotals(po)

		if saveErr := s.poRepo.Save(txCtx, po); saveErr != nil {
			return fmt.Errorf("failed to update purchase order: %w", saveErr)
		}

		return s.audit(txCtx, actor, model.ActionUpdatePO, po, map[string]interface{}{
			"total": po.Total.String(),
		})
	})
	if err != nil {
		return POResponse{}, err
	}

	return toPOResponse(*po), nil
}

func (s *purchaseOrderService) SubmitPO(ctx context.Context, id string, actor Actor) (POResponse, error) {
	return s.transition(ctx, id, actor, authz.POSubmit, model.ActionSubmitPO, event.POSubmitted,
		func(po *model.PurchaseOrder) error {
			actorID := actor.ID
			po.Status = model.POStatusPending
			po.SubmittedBy = &actorID
			return nil
		}, true)
}

func (s *purchaseOrderService) ApprovePO(ctx context.Context, id string, actor Actor) (POResponse, error) {
	return s.transition(ctx, id, actor, authz.POApprove, model.ActionApprovePO, event.POApproved,
		func(po *model.PurchaseOrder) error {
			actorID := actor.ID
			po.Status = model.POStatusApproved
			po.ApprovedBy = &actorID
			return nil
		}, false)
}

func (s *purchaseOrderService) RejectPO(ctx context.Context, id string, actor Actor, reason string) (POResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return POResponse{}, fmt.Errorf("%w: a rejection requires a non-empty reason", model.ErrValidation)
	}
	return s.transition(ctx, id, actor, authz.POReject, model.ActionRejectPO, event.PORejected,
		func(po *model.PurchaseOrder) error {
			actorID := actor.ID
			po.Status = model.POStatusRejected
			po.RejectedBy = &actorID
			po.RejectionReason = reason
			return nil
		}, false)
}

// ReceiveItems accumulates received quantities per line. The whole call
// aborts on the first line that would exceed its ordered quantity; no partial
// application. The PO's aggregate status is derived from the lines.
func (s *purchaseOrderService) ReceiveItems(ctx context.Context, id string, actor Actor, req ReceiveItemsRequest) (POResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid purchase order id", model.ErrValidation)
	}
	if len(req.Receipts) == 0 {
		return POResponse{}, fmt.Errorf("%w: at least one receipt line is required", model.ErrValidation)
	}

	receipts := make(map[uuid.UUID]int, len(req.Receipts))
	for rawID, qty := range req.Receipts {
		itemID, parseErr := uuid.Parse(rawID)
		if parseErr != nil {
			return POResponse{}, fmt.Errorf("%w: invalid item id %q", model.ErrValidation, rawID)
		}
		if qty <= 0 {
			return POResponse{}, fmt.Errorf("%w: received quantity must be positive", model.ErrValidation)
		}
		receipts[itemID] = qty
	}

	var po *model.PurchaseOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		po, findErr = s.poRepo.FindByIDForUpdate(txCtx, poID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.POReceive, po.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		// Validate every line before touching any: over-receipt anywhere
		// aborts the whole call.
		byID := make(map[uuid.UUID]*model.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			byID[po.Items[i].ID] = &po.Items[i]
		}
		for itemID, qty := range receipts {
			item, ok := byID[itemID]
			if !ok {
				return fmt.Errorf("%w: item %s is not on purchase order %s", model.ErrNotFound, itemID, po.PONo)
			}
			if item.QuantityReceived+qty > item.Quantity {
				return fmt.Errorf("%w: line %q ordered %d, already received %d, delivery of %d",
					model.ErrOverReceipt, item.Description, item.Quantity, item.QuantityReceived, qty)
			}
		}

		for itemID, qty := range receipts {
			item := byID[itemID]
			item.QuantityReceived += qty
			if saveErr := s.poRepo.SaveItem(txCtx, item); saveErr != nil {
				return fmt.Errorf("failed to update received quantity: %w", saveErr)
			}
		}

		fromStatus := po.Status
		po.Status = deriveReceiptStatus(po)

		if saveErr := s.poRepo.SaveFromStatus(txCtx, po, fromStatus); saveErr != nil {
			return saveErr
		}

		return s.audit(txCtx, actor, model.ActionReceivePO, po, map[string]interface{}{
			"lines": len(receipts),
		})
	})
	if err != nil {
		return POResponse{}, err
	}

	s.publish(event.POReceived, po, actor, nil)
	return toPOResponse(*po), nil
}

func (s *purchaseOrderService) CompletePO(ctx context.Context, id string, actor Actor) (POResponse, error) {
	return s.transition(ctx, id, actor, authz.POComplete, model.ActionCompletePO, event.POCompleted,
		func(po *model.PurchaseOrder) error {
			po.Status = model.POStatusCompleted
			return nil
		}, false)
}

func (s *purchaseOrderService) CancelPO(ctx context.Context, id string, actor Actor, reason string) (POResponse, error) {
	return s.transition(ctx, id, actor, authz.POCancel, model.ActionCancelPO, event.POCancelled,
		func(po *model.PurchaseOrder) error {
			po.Status = model.POStatusCancelled
			if reason != "" {
				po.Note = reason
			}
			return nil
		}, false)
}

// LinkExpense associates an expense with the PO for reconciliation. Pure
// association: no ledger effect. Both must reference the same project.
func (s *purchaseOrderService) LinkExpense(ctx context.Context, id string, expenseID string, actor Actor) error {
	return s.setExpenseLink(ctx, id, expenseID, actor, true)
}

// UnlinkExpense removes the association.
func (s *purchaseOrderService) UnlinkExpense(ctx context.Context, id string, expenseID string, actor Actor) error {
	return s.setExpenseLink(ctx, id, expenseID, actor, false)
}

func (s *purchaseOrderService) setExpenseLink(ctx context.Context, id string, rawExpenseID string, actor Actor, link bool) error {
	poID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid purchase order id", model.ErrValidation)
	}
	expenseID, err := uuid.Parse(rawExpenseID)
	if err != nil {
		return fmt.Errorf("%w: invalid expense id", model.ErrValidation)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po, findErr := s.poRepo.FindByIDForUpdate(txCtx, poID)
		if findErr != nil {
			return findErr
		}

		if guardErr := authz.CanTransition(actor.Role, authz.POLink, po.Status, authz.Facts{}); guardErr != nil {
			return guardErr
		}

		expense, expErr := s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if expErr != nil {
			return expErr
		}

		if link {
			if expense.ProjectID != po.ProjectID {
				return fmt.Errorf("%w: expense %s and purchase order %s reference different projects",
					model.ErrValidation, expense.ExpenseNo, po.PONo)
			}
			linkID := po.ID
			expense.PurchaseOrderID = &linkID
		} else {
			if expense.PurchaseOrderID == nil || *expense.PurchaseOrderID != po.ID {
				return fmt.Errorf("%w: expense %s is not linked to purchase order %s",
					model.ErrValidation, expense.ExpenseNo, po.PONo)
			}
			expense.PurchaseOrderID = nil
		}

		if saveErr := s.expenseRepo.Save(txCtx, expense); saveErr != nil {
			return fmt.Errorf("failed to update expense link: %w", saveErr)
		}

		action := model.ActionLinkPO
		if !link {
			action = model.ActionUnlinkPO
		}
		return s.audit(txCtx, actor, action, po, map[string]interface{}{
			"expense_no": expense.ExpenseNo,
		})
	})
}

func (s *purchaseOrderService) GetPO(ctx context.Context, id string) (POResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid purchase order id", model.ErrValidation)
	}
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return POResponse{}, err
	}
	return toPOResponse(*po), nil
}

func (s *purchaseOrderService) ListPOs(ctx context.Context, filter repository.PurchaseOrderFilter) ([]POResponse, int64, error) {
	pos, total, err := s.poRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]POResponse, 0, len(pos))
	for _, po := range pos {
		result = append(result, toPOResponse(po))
	}
	return result, total, nil
}

// --- Helpers ---

// transition runs the shared shape of a simple status change: lock, guard,
// mutate, status-guarded save, audit, event.
func (s *purchaseOrderService) transition(
	ctx context.Context,
	id string,
	actor Actor,
	action authz.Action,
	auditAction string,
	eventType string,
	mutate func(po *model.PurchaseOrder) error,
	ownerGated bool,
) (POResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return POResponse{}, fmt.Errorf("%w: invalid purchase order id", model.ErrValidation)
	}

	var po *model.PurchaseOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		po, findErr = s.poRepo.FindByIDForUpdate(txCtx, poID)
		if findErr != nil {
			return findErr
		}

		facts := authz.Facts{}
		if ownerGated {
			facts.IsOwner = po.CreatedBy == actor.ID
		}
		if guardErr := authz.CanTransition(actor.Role, action, po.Status, facts); guardErr != nil {
			return guardErr
		}

		fromStatus := po.Status
		if mutErr := mutate(po); mutErr != nil {
			return mutErr
		}

		if saveErr := s.poRepo.SaveFromStatus(txCtx, po, fromStatus); saveErr != nil {
			return saveErr
		}

		return s.audit(txCtx, actor, auditAction, po, map[string]interface{}{
			"from": fromStatus,
			"to":   po.Status,
		})
	})
	if err != nil {
		return POResponse{}, err
	}

	s.publish(eventType, po, actor, nil)
	return toPOResponse(*po), nil
}

func buildPOItems(items []POItemRequest, currency string) ([]model.PurchaseOrderItem, error) {
	result := make([]model.PurchaseOrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPriceMinor <= 0 {
			return nil, fmt.Errorf("%w: item quantity and unit price must be positive", model.ErrValidation)
		}
		result = append(result, model.PurchaseOrderItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money.New(item.UnitPriceMinor, currency),
		})
	}
	return result, nil
}

// recomputeTotals rebuilds subtotal/tax/total from the line items. Called
// whenever items change while the PO is still DRAFT.
func recomputeTotals(po *model.PurchaseOrder) {
	currency := "USD"
	if len(po.Items) > 0 {
		currency = po.Items[0].UnitPrice.Currency
	}

	subtotal := money.Zero(currency)
	for _, item := range po.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(int64(item.Quantity)))
	}

	po.Subtotal = subtotal
	po.Tax = subtotal.ApplyRate(po.TaxRate)
	po.Total = subtotal.Add(po.Tax)
}

// deriveReceiptStatus computes the aggregate receipt state from the lines.
func deriveReceiptStatus(po *model.PurchaseOrder) string {
	allFull := true
	for i := range po.Items {
		if !po.Items[i].FullyReceived() {
			allFull = false
			break
		}
	}
	if allFull {
		return model.POStatusReceived
	}
	return model.POStatusPartiallyReceived
}

func (s *purchaseOrderService) audit(ctx context.Context, actor Actor, action string, po *model.PurchaseOrder, extra map[string]interface{}) error {
	payload := map[string]interface{}{
		"po_no":  po.PONo,
		"status": po.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	details, _ := json.Marshal(payload)

	actorID := actor.ID
	entry := model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   po.ID.String(),
		EntityName: po.PONo,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *purchaseOrderService) publish(eventType string, po *model.PurchaseOrder, actor Actor, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(event.Event{
		Type:     eventType,
		EntityID: po.ID,
		ActorID:  actor.ID,
		Data:     data,
	})
}

func toPOResponse(po model.PurchaseOrder) POResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		items = append(items, POItemResponse{
			ID:               item.ID.String(),
			Description:      item.Description,
			Quantity:         item.Quantity,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        item.UnitPrice,
		})
	}

	return POResponse{
		ID:              po.ID.String(),
		PONo:            po.PONo,
		VendorID:        po.VendorID.String(),
		ProjectID:       po.ProjectID.String(),
		Status:          po.Status,
		TaxRate:         po.TaxRate.String(),
		Subtotal:        po.Subtotal,
		Tax:             po.Tax,
		Total:           po.Total,
		Items:           items,
		CreatedBy:       po.CreatedBy.String(),
		RejectionReason: po.RejectionReason,
		Note:            po.Note,
		CreatedAt:       po.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       po.UpdatedAt.Format(time.RFC3339),
	}
}
