package dto

import (
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// CreateRequestRequest cuerpo para crear una demanda de compra.
type CreateRequestRequest struct {
	ItemName      string `json:"item_name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit"`
	Urgency       string `json:"urgency"`
	Justification string `json:"justification"`
	Department    string `json:"department"`
}

// ApproveDGRequest decisión del DG sobre una demanda pendiente.
// decision: "approve" (requiere signature) | "reject" (requiere reason).
type ApproveDGRequest struct {
	Decision  string `json:"decision"`
	Signature string `json:"signature,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ApprovePurchaseRequest aprobación por el servicio de compras.
type ApprovePurchaseRequest struct {
	SupplierID string `json:"supplier_id"`
}

// ReceiveRequest datos de recepción física de una commande.
type ReceiveRequest struct {
	ReceivedBy string `json:"received_by"`
	Signature  string `json:"signature"`
	Notes      string `json:"notes,omitempty"`
}

// TransitionDTO una transición del historial de la demanda.
type TransitionDTO struct {
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	OccurredAt  time.Time `json:"occurred_at"`
	Signature   string    `json:"signature,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
	ReceivedBy  string    `json:"received_by,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// RequestDTO respuesta de una demanda de compra.
type RequestDTO struct {
	ID            string          `json:"id"`
	RequestNumber string          `json:"request_number"`
	ItemName      string          `json:"item_name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	Urgency       string          `json:"urgency"`
	Justification string          `json:"justification,omitempty"`
	Department    string          `json:"department"`
	Status        string          `json:"status"`
	RequestedBy   string          `json:"requested_by"`
	RequestedByID string          `json:"requested_by_id"`
	OrderNumber   string          `json:"order_number,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Transitions   []TransitionDTO `json:"transitions,omitempty"`
}

// RequestFromEntity convierte la entidad a DTO de respuesta.
func RequestFromEntity(r *entity.PurchaseRequest) RequestDTO {
	out := RequestDTO{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		ItemName:      r.ItemName,
		Description:   r.Description,
		Category:      r.Category,
		Quantity:      r.Quantity,
		Unit:          r.Unit,
		Urgency:       r.Urgency,
		Justification: r.Justification,
		Department:    r.Department,
		Status:        r.Status,
		RequestedBy:   r.RequestedBy,
		RequestedByID: r.RequestedByID,
		OrderNumber:   r.OrderNumber,
		SupplierID:    r.SupplierID,
		CreatedAt:     r.CreatedAt,
	}
	for _, t := range r.Transitions {
		out.Transitions = append(out.Transitions, TransitionDTO{
			FromStatus:  t.FromStatus,
			ToStatus:    t.ToStatus,
			ActorID:     t.ActorID,
			ActorName:   t.ActorName,
			OccurredAt:  t.OccurredAt,
			Signature:   t.Signature,
			Reason:      t.Reason,
			SupplierID:  t.SupplierID,
			OrderNumber: t.OrderNumber,
			ReceivedBy:  t.ReceivedBy,
			Notes:       t.Notes,
		})
	}
	return out
}

// RequestStatsDTO conteos por estado para el tablero.
type RequestStatsDTO struct {
	Total              int `json:"total_requests"`
	Pending            int `json:"pending_requests"`
	ApprovedByDG       int `json:"approved_by_dg"`
	ApprovedByPurchase int `json:"approved_by_purchase"`
	Received           int `json:"received_requests"`
	Completed          int `json:"completed_requests"`
	Rejected           int `json:"rejected_requests"`
}
