package stock

import (
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// Helpers in-tx: operan con los repositorios atados a la transacción del
// caller, para que la recepción de una demanda o un achat directo asienten su
// entrada dentro de la misma transacción que el resto de sus efectos
// (transición de estado o registro del achat). Si el asiento falla, el caller
// hace rollback de todo.

// EntryParams parámetros de una entrada asentada dentro de la tx del caller.
type EntryParams struct {
	StockItemID string
	Quantity    int
	Reason      string
	Reference   string
	ActorID     string
	Now         time.Time
}

// PostEntryTx bloquea la fila del artículo, incrementa el agregado y asienta
// el movimiento de entrada.
func PostEntryTx(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	p EntryParams,
) (*entity.StockMovement, error) {
	if p.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := itemRepo.GetForUpdate(p.StockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := itemRepo.UpdateQuantity(item.ID, item.CurrentQuantity+p.Quantity); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		StockItemID: item.ID,
		Type:        entity.MovementEntry,
		Quantity:    p.Quantity,
		Reason:      p.Reason,
		Reference:   p.Reference,
		ActorID:     p.ActorID,
		CreatedAt:   p.Now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ResolveItemTx busca el artículo activo por la clave natural exacta
// (name, category); si no existe lo crea con cantidad cero y umbrales por
// defecto. Creación perezosa: primera entrada de un ítem desconocido.
func ResolveItemTx(
	itemRepo repository.StockItemRepository,
	name, category, description, unit string,
	now time.Time,
) (*entity.StockItem, error) {
	item, err := itemRepo.GetActiveByNameCategory(name, category)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	if unit == "" {
		unit = entity.DefaultUnit
	}
	item = &entity.StockItem{
		Name:            name,
		Description:     description,
		Category:        category,
		CurrentQuantity: 0,
		MinThreshold:    entity.DefaultMinThreshold,
		MaxThreshold:    entity.DefaultMaxThreshold,
		Unit:            unit,
		Location:        entity.DefaultLocation,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}
