package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger append-only sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento en el ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, stock_item_id, type, quantity, reason, reference, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	actorID := nullIfEmpty(movement.ActorID)
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.StockItemID, movement.Type, movement.Quantity,
		movement.Reason, movement.Reference, actorID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Retorna (nil, nil) si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, type, quantity, reason, reference, actor_id, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var actorID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.StockItemID, &m.Type, &m.Quantity, &m.Reason, &m.Reference, &actorID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if actorID != nil {
		m.ActorID = *actorID
	}
	return &m, nil
}

// List lista movimientos con filtros opcionales, más recientes primero.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, type, quantity, reason, reference, actor_id, created_at
		FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.StockItemID != "" {
		query += fmt.Sprintf(" AND stock_item_id = $%d", pos)
		args = append(args, filter.StockItemID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var actorID *string
		if err := rows.Scan(&m.ID, &m.StockItemID, &m.Type, &m.Quantity,
			&m.Reason, &m.Reference, &actorID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if actorID != nil {
			m.ActorID = *actorID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
