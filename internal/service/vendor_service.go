package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
)

type VendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxCode       string `json:"tax_code"`
}

type VendorResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxCode       string `json:"tax_code"`
	CreatedAt     string `json:"created_at"`
}

type VendorService interface {
	CreateVendor(ctx context.Context, req VendorRequest) (VendorResponse, error)
	UpdateVendor(ctx context.Context, id string, req VendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, id string) error
	GetVendor(ctx context.Context, id string) (VendorResponse, error)
	ListVendors(ctx context.Context, search string, page, limit int) ([]VendorResponse, int64, error)
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

func (s *vendorService) CreateVendor(ctx context.Context, req VendorRequest) (VendorResponse, error) {
	vendor := model.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if req.TaxCode != "" {
		vendor.TaxCode = &req.TaxCode
	}
	if err := s.vendorRepo.Create(ctx, &vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to create vendor: %w", err)
	}
	return toVendorResponse(vendor), nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, id string, req VendorRequest) (VendorResponse, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("%w: invalid vendor id", model.ErrValidation)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return VendorResponse{}, err
	}

	vendor.Name = req.Name
	vendor.ContactPerson = req.ContactPerson
	vendor.Email = req.Email
	vendor.Phone = req.Phone
	vendor.Address = req.Address
	if req.TaxCode != "" {
		vendor.TaxCode = &req.TaxCode
	} else {
		vendor.TaxCode = nil
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to update vendor: %w", err)
	}
	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid vendor id", model.ErrValidation)
	}
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return err
	}
	return s.vendorRepo.Delete(ctx, vendorID)
}

func (s *vendorService) GetVendor(ctx context.Context, id string) (VendorResponse, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("%w: invalid vendor id", model.ErrValidation)
	}
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(*vendor), nil
}

func (s *vendorService) ListVendors(ctx context.Context, search string, page, limit int) ([]VendorResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vendors, total, err := s.vendorRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		result = append(result, toVendorResponse(v))
	}
	return result, total, nil
}

func toVendorResponse(v model.Vendor) VendorResponse {
	resp := VendorResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		ContactPerson: v.ContactPerson,
		Email:         v.Email,
		Phone:         v.Phone,
		Address:       v.Address,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
	if v.TaxCode != nil {
		resp.TaxCode = *v.TaxCode
	}
	return resp
}
