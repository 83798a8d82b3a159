package dto

import (
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// CreateItemRequest cuerpo para crear un artículo de stock explícitamente.
type CreateItemRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	MinThreshold int    `json:"min_threshold"`
	MaxThreshold int    `json:"max_threshold"`
	Unit         string `json:"unit"`
	Location     string `json:"location"`
}

// UpdateItemRequest campos descriptivos actualizables de un artículo.
// La cantidad nunca se toca por aquí: solo el ledger la mueve.
type UpdateItemRequest struct {
	Description  *string `json:"description"`
	MinThreshold *int    `json:"min_threshold"`
	MaxThreshold *int    `json:"max_threshold"`
	Unit         *string `json:"unit"`
	Location     *string `json:"location"`
}

// PostMovementRequest cuerpo para asentar un movimiento manual.
// type: entry | exit | adjustment. Para adjustment, quantity es el nuevo
// valor absoluto (>= 0); para entry/exit es un delta positivo.
type PostMovementRequest struct {
	StockItemID string `json:"stock_item_id"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// ItemDTO respuesta de un artículo de stock.
type ItemDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	CurrentQuantity int       `json:"current_quantity"`
	MinThreshold    int       `json:"min_threshold"`
	MaxThreshold    int       `json:"max_threshold"`
	Unit            string    `json:"unit"`
	Location        string    `json:"location,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemFromEntity convierte la entidad a DTO.
func ItemFromEntity(i *entity.StockItem) ItemDTO {
	return ItemDTO{
		ID:              i.ID,
		Name:            i.Name,
		Description:     i.Description,
		Category:        i.Category,
		CurrentQuantity: i.CurrentQuantity,
		MinThreshold:    i.MinThreshold,
		MaxThreshold:    i.MaxThreshold,
		Unit:            i.Unit,
		Location:        i.Location,
		IsActive:        i.IsActive,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// MovementDTO respuesta de un movimiento del ledger.
type MovementDTO struct {
	ID          string    `json:"id"`
	StockItemID string    `json:"stock_item_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementFromEntity convierte la entidad a DTO.
func MovementFromEntity(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:          m.ID,
		StockItemID: m.StockItemID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		Reference:   m.Reference,
		ActorID:     m.ActorID,
		CreatedAt:   m.CreatedAt,
	}
}

// StockAlertDTO alerta de rupture o seuil bas.
type StockAlertDTO struct {
	ItemID          string `json:"item_id"`
	ItemName        string `json:"item_name"`
	CurrentQuantity int    `json:"current_quantity"`
	MinThreshold    int    `json:"min_threshold"`
	Status          string `json:"status"` // out_of_stock, low, critical
}

// ReorderSuggestionDTO artículo a réapprovisionner con cantidad sugerida.
type ReorderSuggestionDTO struct {
	ItemID            string `json:"item_id"`
	Name              string `json:"name"`
	CurrentQuantity   int    `json:"current_quantity"`
	MinThreshold      int    `json:"min_threshold"`
	MaxThreshold      int    `json:"max_threshold"`
	SuggestedQuantity int    `json:"suggested_quantity"`
	Location          string `json:"location,omitempty"`
}
