package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tra18/systeme-gestion-stock/internal/application/purchases"
	"github.com/tra18/systeme-gestion-stock/internal/application/requests"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// Ensure TxRunner implements the transaction ports of each use case.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ requests.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ledger de stock y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewStockItemRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(itemRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWorkflow inicia una transacción con repos de demandas y de stock
// (la recepción asienta la entrada en la misma transacción que la transición).
func (r *TxRunner) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.PurchaseRequestRepository,
	trRepo repository.RequestTransitionRepository,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reqRepo := NewPurchaseRequestRepository(tx)
	trRepo := NewRequestTransitionRepository(tx)
	itemRepo := NewStockItemRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(reqRepo, trRepo, itemRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunIntake inicia una transacción con repos de achats y de stock
// (el registro de un achat directo asienta su entrada de forma atómica).
func (r *TxRunner) RunIntake(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	purchaseRepo := NewPurchaseRepository(tx)
	itemRepo := NewStockItemRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(purchaseRepo, itemRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
