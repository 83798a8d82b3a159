package repository

import "github.com/tra18/systeme-gestion-stock/internal/domain/entity"

// ItemFilter filtros de listado de artículos.
type ItemFilter struct {
	Category string
	LowStock *bool // true: cantidad <= mínimo; false: por encima
	Limit    int
	Offset   int
}

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) dentro de
	// la transacción actual; el check de suficiencia y el decremento deben
	// ocurrir bajo ese bloqueo.
	GetForUpdate(id string) (*entity.StockItem, error)
	// GetActiveByNameCategory busca por la clave natural exacta (name, category),
	// solo artículos activos. Sin canonicalización: "Papier A4" y "papier a4"
	// son artículos distintos (comportamiento aceptado, ver DESIGN.md).
	GetActiveByNameCategory(name, category string) (*entity.StockItem, error)
	Update(item *entity.StockItem) error
	UpdateQuantity(itemID string, quantity int) error
	Deactivate(id string) error
	List(filter ItemFilter) ([]*entity.StockItem, error)
	// ListBelowMin artículos activos con cantidad <= mínimo (lista de reposición).
	ListBelowMin() ([]*entity.StockItem, error)
}
