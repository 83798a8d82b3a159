package suppliers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// UseCase CRUD de proveedores. El workflow solo referencia proveedores por ID
// al aprobar compras; aquí vive su ciclo de vida.
type UseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso de proveedores.
func NewUseCase(repo repository.SupplierRepository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// Create da de alta un proveedor. Requiere capability purchasing.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.SupplierRequest) (*entity.Supplier, error) {
	if !actor.Can(entity.CapPurchasing) {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		Country:       in.Country,
		TaxNumber:     in.TaxNumber,
		PaymentTerms:  in.PaymentTerms,
		Notes:         in.Notes,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Get obtiene un proveedor por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Update actualiza los datos del proveedor. Requiere capability purchasing.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.SupplierRequest) (*entity.Supplier, error) {
	if !actor.Can(entity.CapPurchasing) {
		return nil, domain.ErrUnauthorized
	}
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		s.Name = in.Name
	}
	s.ContactPerson = in.ContactPerson
	s.Email = in.Email
	s.Phone = in.Phone
	s.Address = in.Address
	s.City = in.City
	s.Country = in.Country
	s.TaxNumber = in.TaxNumber
	s.PaymentTerms = in.PaymentTerms
	s.Notes = in.Notes
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(s); err != nil {
		return nil, err
	}
	return s, nil
}

// List lista proveedores activos.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return uc.repo.List(limit, offset)
}

// Deactivate desactiva un proveedor. Requiere capability purchasing.
func (uc *UseCase) Deactivate(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.Can(entity.CapPurchasing) {
		return domain.ErrUnauthorized
	}
	return uc.repo.Deactivate(id)
}
