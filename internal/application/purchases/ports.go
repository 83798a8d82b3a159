package purchases

import (
	"context"

	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// TxRunner ejecuta el registro de un achat y su asiento de stock dentro de
// una sola transacción.
type TxRunner interface {
	RunIntake(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
