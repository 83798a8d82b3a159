package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// RecordUseCase asienta achats directos: compras ya realizadas fuera del
// workflow de demandas (registradas a posteriori). Materializa o incrementa
// el artículo de stock correspondiente y asienta la entrada en el ledger,
// todo en una transacción.
type RecordUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository // lecturas fuera de tx
	now          func() time.Time
}

// NewRecordUseCase construye el caso de uso de intake.
func NewRecordUseCase(txRunner TxRunner, purchaseRepo repository.PurchaseRepository) *RecordUseCase {
	return &RecordUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		now:          time.Now,
	}
}

// Record persiste el achat (amount = quantity x unit_price), resuelve o crea
// el artículo por (name, category) y asienta la entrada con referencia
// ACH-<id>. Falla con ErrInvalidInput si la cantidad no es positiva.
func (uc *RecordUseCase) Record(ctx context.Context, actor entity.Actor, in dto.RecordPurchaseRequest) (*entity.Purchase, *entity.StockMovement, error) {
	if in.Quantity <= 0 || in.ItemName == "" || in.Category == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Period == "" {
		in.Period = entity.PeriodMonthly
	}

	now := uc.now()
	purchaseDate := now
	if in.PurchaseDate != nil {
		purchaseDate = *in.PurchaseDate
	}
	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		ItemName:     in.ItemName,
		Description:  in.Description,
		Category:     in.Category,
		Period:       in.Period,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Amount:       in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Supplier:     in.Supplier,
		PurchaseDate: purchaseDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var mov *entity.StockMovement
	err := uc.txRunner.RunIntake(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		item, err := stock.ResolveItemTx(itemRepo, in.ItemName, in.Category, in.Description, "", now)
		if err != nil {
			return err
		}
		mov, err = stock.PostEntryTx(itemRepo, movRepo, stock.EntryParams{
			StockItemID: item.ID,
			Quantity:    in.Quantity,
			Reason:      fmt.Sprintf("Achat - %s", in.ItemName),
			Reference:   fmt.Sprintf("ACH-%s", purchase.ID),
			ActorID:     actor.ID,
			Now:         now,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return purchase, mov, nil
}

// Get obtiene un achat por ID.
func (uc *RecordUseCase) Get(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista achats con filtros de categoría, periodo y rango de fechas.
func (uc *RecordUseCase) List(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.Purchase, error) {
	return uc.purchaseRepo.List(filter)
}
