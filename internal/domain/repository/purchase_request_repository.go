package repository

import (
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// RequestFilter filtros de listado de demandas.
type RequestFilter struct {
	Status        string
	Department    string
	RequestedByID string // vacío = sin filtrar (roles elevados)
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StatusCounts conteo de demandas por estado (tablero).
type StatusCounts struct {
	Total              int
	Pending            int
	ApprovedByDG       int
	ApprovedByPurchase int
	Received           int
	Completed          int
	Rejected           int
}

// PurchaseRequestRepository define el puerto de persistencia para PurchaseRequest (DIP).
// Create retorna ErrDuplicate ante violación del UNIQUE de request_number
// (el caso de uso regenera el número y reintenta).
type PurchaseRequestRepository interface {
	Create(request *entity.PurchaseRequest) error
	GetByID(id string) (*entity.PurchaseRequest, error)
	// GetForUpdate bloquea la fila de la demanda dentro de la transacción actual.
	GetForUpdate(id string) (*entity.PurchaseRequest, error)
	// UpdateStatus aplica un compare-and-set: solo escribe si el estado actual
	// sigue siendo expectedStatus. Retorna ErrInvalidTransition si otro caller
	// ganó la carrera, ErrDuplicate si order_number viola su UNIQUE.
	UpdateStatus(request *entity.PurchaseRequest, expectedStatus string) error
	List(filter RequestFilter) ([]*entity.PurchaseRequest, error)
	CountByStatus(requestedByID string) (*StatusCounts, error)
}

// RequestTransitionRepository puerto del log append-only de transiciones.
type RequestTransitionRepository interface {
	Append(transition *entity.RequestTransition) error
	ListByRequest(requestID string) ([]entity.RequestTransition, error)
}
