package repository

import "github.com/tra18/systeme-gestion-stock/internal/domain/entity"

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	StockItemID string
	Type        string
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del ledger append-only. Solo Create y
// lecturas: los movimientos nunca se actualizan ni se borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
}
