package entity

import "time"

// Estados del workflow de una demanda de compra.
const (
	StatusPending            = "pending"
	StatusApprovedByDG       = "approved_by_dg"
	StatusApprovedByPurchase = "approved_by_purchase"
	StatusReceived           = "received"
	StatusCompleted          = "completed"
	StatusRejected           = "rejected"
)

// Niveles de urgencia de una demanda.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// ValidUrgency indica si el valor es un nivel de urgencia conocido.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// PurchaseRequest demanda de compra con workflow de aprobación multi-nivel.
// El estado solo avanza por las aristas definidas en domain/workflow; cada
// transición queda registrada como RequestTransition (append-only).
type PurchaseRequest struct {
	ID            string
	RequestNumber string // DEM-..., único, asignado una sola vez al crear

	ItemName      string
	Description   string
	Category      string
	Quantity      int // entero positivo
	Unit          string
	Urgency       string // low, normal, high, urgent
	Justification string
	Department    string

	Status          string
	RequestedBy     string // nombre del solicitante
	RequestedByID   string // UserID del solicitante
	OrderNumber     string // CMD-..., único; presente desde approved_by_purchase
	SupplierID      string // asignado en approved_by_purchase

	CreatedAt time.Time
	UpdatedAt time.Time

	// Historial append-only de transiciones (actor, timestamp, payload).
	Transitions []RequestTransition
}

// Terminal indica si el estado actual no admite más transiciones.
func (r *PurchaseRequest) Terminal() bool {
	switch r.Status {
	case StatusReceived, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Transition devuelve la transición hacia el estado dado, si ocurrió.
func (r *PurchaseRequest) Transition(toStatus string) *RequestTransition {
	for i := range r.Transitions {
		if r.Transitions[i].ToStatus == toStatus {
			return &r.Transitions[i]
		}
	}
	return nil
}

// RequestTransition registro inmutable de una transición del workflow.
// El payload depende de la arista: firma DG, motivo de rechazo, proveedor y
// número de commande, o datos de recepción.
type RequestTransition struct {
	ID         string
	RequestID  string
	FromStatus string
	ToStatus   string
	ActorID    string
	ActorName  string
	OccurredAt time.Time

	Signature   string // firma electrónica (base64); aprobación DG y recepción
	Reason      string // motivo de rechazo
	SupplierID  string // aprobación compras
	OrderNumber string // aprobación compras
	ReceivedBy  string // nombre de quien recibe físicamente
	Notes       string // notas de recepción
}
