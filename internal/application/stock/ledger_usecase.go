package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// LedgerUseCase asienta movimientos sobre el ledger append-only y mantiene el
// agregado CurrentQuantity de cada artículo. Toda mutación corre dentro de una
// transacción con bloqueo de fila (SELECT FOR UPDATE) sobre el artículo, de
// modo que dos salidas concurrentes nunca pasen el check de suficiencia contra
// una cantidad obsoleta.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.StockItemRepository // lecturas fuera de tx
	movRepo  repository.StockMovementRepository
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		now:      time.Now,
	}
}

// MovementInput entrada para asentar un movimiento.
// Entry/Exit: Quantity es un delta positivo. Adjustment: el nuevo valor absoluto.
type MovementInput struct {
	StockItemID string
	Quantity    int
	Reason      string
	Reference   string
}

// PostEntry asienta una entrada: incrementa el agregado y agrega el movimiento.
// Una entrada nunca viola la no-negatividad, así que siempre aplica una vez
// resuelto el artículo.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, actor entity.Actor, in MovementInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, movRepo repository.StockMovementRepository) error {
		var err error
		mov, err = PostEntryTx(itemRepo, movRepo, EntryParams{
			StockItemID: in.StockItemID,
			Quantity:    in.Quantity,
			Reason:      in.Reason,
			Reference:   in.Reference,
			ActorID:     actor.ID,
			Now:         uc.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// PostExit asienta una salida. Falla con ErrInsufficientStock si el delta
// supera la cantidad actual; el check y el decremento ocurren bajo el mismo
// bloqueo de fila.
func (uc *LedgerUseCase) PostExit(ctx context.Context, actor entity.Actor, in MovementInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetForUpdate(in.StockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Quantity > item.CurrentQuantity {
			return domain.ErrInsufficientStock
		}
		if err := itemRepo.UpdateQuantity(item.ID, item.CurrentQuantity-in.Quantity); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			StockItemID: item.ID,
			Type:        entity.MovementExit,
			Quantity:    in.Quantity,
			Reason:      in.Reason,
			Reference:   in.Reference,
			ActorID:     actor.ID,
			CreatedAt:   uc.now(),
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// PostAdjustment fija la cantidad en un valor absoluto (inventario físico,
// corrección manual). Re-ancla el invariante de reconciliación en este punto.
func (uc *LedgerUseCase) PostAdjustment(ctx context.Context, actor entity.Actor, itemID string, newQuantity int, reason string) (*entity.StockMovement, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := itemRepo.UpdateQuantity(item.ID, newQuantity); err != nil {
			return err
		}
		if reason == "" {
			reason = "Ajustement manuel"
		}
		mov = &entity.StockMovement{
			StockItemID: item.ID,
			Type:        entity.MovementAdjustment,
			Quantity:    newQuantity,
			Reason:      fmt.Sprintf("%s (ancien: %d, nouveau: %d)", reason, item.CurrentQuantity, newQuantity),
			ActorID:     actor.ID,
			CreatedAt:   uc.now(),
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Reverse asienta el movimiento compensatorio del tipo opuesto (entry<->exit)
// con la misma cantidad, restaurando el agregado a su valor previo. No borra
// el original: es el único mecanismo sancionado para deshacer un asiento.
// Los adjustments no tienen opuesto definido y no se revierten.
func (uc *LedgerUseCase) Reverse(ctx context.Context, actor entity.Actor, movementID string) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, movRepo repository.StockMovementRepository) error {
		original, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.Type == entity.MovementAdjustment {
			return domain.ErrInvalidInput
		}
		item, err := itemRepo.GetForUpdate(original.StockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		newQty := item.CurrentQuantity
		opposite := entity.MovementExit
		if original.Type == entity.MovementExit {
			opposite = entity.MovementEntry
			newQty += original.Quantity
		} else {
			// revertir una entrada es una salida: respeta la no-negatividad
			if original.Quantity > item.CurrentQuantity {
				return domain.ErrInsufficientStock
			}
			newQty -= original.Quantity
		}
		if err := itemRepo.UpdateQuantity(item.ID, newQty); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			StockItemID: item.ID,
			Type:        opposite,
			Quantity:    original.Quantity,
			Reason:      fmt.Sprintf("Annulation mouvement %s", original.ID),
			Reference:   original.ID,
			ActorID:     actor.ID,
			CreatedAt:   uc.now(),
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateItem crea un artículo explícitamente, con cantidad inicial cero.
func (uc *LedgerUseCase) CreateItem(ctx context.Context, item *entity.StockItem) error {
	if item.Name == "" || item.Category == "" {
		return domain.ErrInvalidInput
	}
	if item.MinThreshold <= 0 {
		item.MinThreshold = entity.DefaultMinThreshold
	}
	if item.MaxThreshold <= 0 {
		item.MaxThreshold = entity.DefaultMaxThreshold
	}
	if item.Unit == "" {
		item.Unit = entity.DefaultUnit
	}
	item.CurrentQuantity = 0
	item.IsActive = true
	now := uc.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	return uc.itemRepo.Create(item)
}

// GetItem obtiene un artículo por ID.
func (uc *LedgerUseCase) GetItem(ctx context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// UpdateItem actualiza campos descriptivos y umbrales. La cantidad solo la
// mueve el ledger.
func (uc *LedgerUseCase) UpdateItem(ctx context.Context, id string, description *string, minThreshold, maxThreshold *int, unit, location *string) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if description != nil {
		item.Description = *description
	}
	if minThreshold != nil {
		item.MinThreshold = *minThreshold
	}
	if maxThreshold != nil {
		item.MaxThreshold = *maxThreshold
	}
	if unit != nil {
		item.Unit = *unit
	}
	if location != nil {
		item.Location = *location
	}
	item.UpdatedAt = uc.now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem soft delete: el artículo deja de listarse pero el ledger
// conserva su historial.
func (uc *LedgerUseCase) DeactivateItem(ctx context.Context, id string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.Deactivate(id)
}

// ListItems lista artículos activos con filtros.
func (uc *LedgerUseCase) ListItems(ctx context.Context, filter repository.ItemFilter) ([]*entity.StockItem, error) {
	return uc.itemRepo.List(filter)
}

// ListMovements lista movimientos con filtros.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return uc.movRepo.List(filter)
}

// Alerts devuelve los artículos en rupture, bajo el seuil o en zona crítica.
func (uc *LedgerUseCase) Alerts(ctx context.Context) ([]AlertItem, error) {
	items, err := uc.itemRepo.List(repository.ItemFilter{Limit: 1000})
	if err != nil {
		return nil, err
	}
	var alerts []AlertItem
	for _, item := range items {
		if status := item.AlertStatus(); status != "" {
			alerts = append(alerts, AlertItem{Item: item, Status: status})
		}
	}
	return alerts, nil
}

// AlertItem artículo con su estado de alerta.
type AlertItem struct {
	Item   *entity.StockItem
	Status string
}

// ReorderSuggestion artículo bajo el mínimo con cantidad sugerida de pedido.
type ReorderSuggestion struct {
	Item              *entity.StockItem
	SuggestedQuantity int
}

// ReorderList artículos a réapprovisionner: cantidad sugerida = máximo - actual.
func (uc *LedgerUseCase) ReorderList(ctx context.Context) ([]ReorderSuggestion, error) {
	items, err := uc.itemRepo.ListBelowMin()
	if err != nil {
		return nil, err
	}
	out := make([]ReorderSuggestion, 0, len(items))
	for _, item := range items {
		suggested := item.MaxThreshold - item.CurrentQuantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, ReorderSuggestion{Item: item, SuggestedQuantity: suggested})
	}
	return out, nil
}
