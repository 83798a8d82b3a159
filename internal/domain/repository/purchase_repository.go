package repository

import (
	"time"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
)

// PurchaseFilter filtros de listado de achats directos.
type PurchaseFilter struct {
	Category string
	Period   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// PurchaseRepository define el puerto de persistencia para Purchase (DIP).
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	List(filter PurchaseFilter) ([]*entity.Purchase, error)
}
