package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// RecordPurchaseRequest cuerpo para asentar un achat directo (sin workflow).
type RecordPurchaseRequest struct {
	ItemName     string          `json:"item_name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Period       string          `json:"period"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier,omitempty"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
}

// PurchaseDTO respuesta de un achat.
type PurchaseDTO struct {
	ID           string          `json:"id"`
	ItemName     string          `json:"item_name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Period       string          `json:"period"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
	Supplier     string          `json:"supplier,omitempty"`
	PurchaseDate time.Time       `json:"purchase_date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PurchaseFromEntity convierte la entidad a DTO.
func PurchaseFromEntity(p *entity.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:           p.ID,
		ItemName:     p.ItemName,
		Description:  p.Description,
		Category:     p.Category,
		Period:       p.Period,
		Quantity:     p.Quantity,
		UnitPrice:    p.UnitPrice,
		Amount:       p.Amount,
		Supplier:     p.Supplier,
		PurchaseDate: p.PurchaseDate,
		CreatedAt:    p.CreatedAt,
	}
}
