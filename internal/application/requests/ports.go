package requests

import (
	"context"

	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del workflow atados a esa tx. La transición de estado, el
// registro en el log de transiciones y el eventual asiento de stock de la
// recepción son una sola unidad: o todo o nada.
type TxRunner interface {
	RunWorkflow(ctx context.Context, fn func(
		reqRepo repository.PurchaseRequestRepository,
		trRepo repository.RequestTransitionRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Numberer genera los identificadores legibles de demanda y de commande.
// La unicidad dura la garantiza el UNIQUE del storage: ante ErrDuplicate el
// caso de uso regenera y reintenta un número acotado de veces.
type Numberer interface {
	RequestNumber() string
	OrderNumber() string
}
