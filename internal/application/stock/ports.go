package stock

import (
	"context"

	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger:
// el check de suficiencia, el update del agregado y el insert del movimiento
// ocurren bajo el mismo bloqueo de fila.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
