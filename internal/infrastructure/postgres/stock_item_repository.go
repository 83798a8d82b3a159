package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const itemColumns = `id, name, description, category, current_quantity, min_threshold,
	max_threshold, unit, location, is_active, created_at, updated_at`

// StockItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.CurrentQuantity,
		item.MinThreshold, item.MaxThreshold, item.Unit, item.Location,
		item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID. Retorna (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
// El check de suficiencia y el decremento deben ocurrir bajo ese bloqueo.
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetActiveByNameCategory busca por la clave natural exacta (name, category),
// solo activos. Retorna (nil, nil) si no existe.
func (r *StockItemRepo) GetActiveByNameCategory(name, category string) (*entity.StockItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM stock_items WHERE name = $1 AND category = $2 AND is_active = TRUE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, name, category))
}

// Update actualiza los campos descriptivos y umbrales del artículo.
// La cantidad se mantiene solo vía UpdateQuantity (bajo bloqueo de fila).
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $1, description = $2, category = $3, min_threshold = $4,
			max_threshold = $5, unit = $6, location = $7, updated_at = $8
		WHERE id = $9`
	tag, err := r.q.Exec(context.Background(), query,
		item.Name, item.Description, item.Category, item.MinThreshold,
		item.MaxThreshold, item.Unit, item.Location, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity escribe el nuevo agregado de cantidad.
func (r *StockItemRepo) UpdateQuantity(itemID string, quantity int) error {
	query := `UPDATE stock_items SET current_quantity = $1, updated_at = now() WHERE id = $2`
	tag, err := r.q.Exec(context.Background(), query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate desactiva el artículo (soft delete).
func (r *StockItemRepo) Deactivate(id string) error {
	query := `UPDATE stock_items SET is_active = FALSE, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos activos con filtros opcionales.
func (r *StockItemRepo) List(filter repository.ItemFilter) ([]*entity.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items WHERE is_active = TRUE`
	args := []any{}
	pos := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.LowStock != nil {
		if *filter.LowStock {
			query += " AND current_quantity <= min_threshold"
		} else {
			query += " AND current_quantity > min_threshold"
		}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListBelowMin artículos activos con cantidad <= mínimo (lista de reposición).
func (r *StockItemRepo) ListBelowMin() ([]*entity.StockItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM stock_items
		WHERE is_active = TRUE AND current_quantity <= min_threshold
		ORDER BY current_quantity ASC, name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list below min: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *StockItemRepo) scanOne(row pgx.Row) (*entity.StockItem, error) {
	var i entity.StockItem
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Category, &i.CurrentQuantity,
		&i.MinThreshold, &i.MaxThreshold, &i.Unit, &i.Location,
		&i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &i, nil
}

func (r *StockItemRepo) scanAll(rows pgx.Rows) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	for rows.Next() {
		var i entity.StockItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Category, &i.CurrentQuantity,
			&i.MinThreshold, &i.MaxThreshold, &i.Unit, &i.Location,
			&i.IsActive, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
