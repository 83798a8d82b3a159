package entity

import "time"

// Umbrales por defecto al crear un artículo de forma implícita
// (primera entrada de un ítem que no existe en stock).
const (
	DefaultMinThreshold = 5
	DefaultMaxThreshold = 100
	DefaultUnit         = "pièce"
	DefaultLocation     = "Stock général"
)

// StockItem artículo inventariado. CurrentQuantity es el agregado mantenido
// por el ledger: siempre igual a entradas - salidas desde la creación o desde
// el último ajuste. Nunca negativo.
type StockItem struct {
	ID              string
	Name            string
	Description     string
	Category        string // junto con Name forma la clave natural de lookup
	CurrentQuantity int
	MinThreshold    int // consultivo, para alertas
	MaxThreshold    int // consultivo, para lista de reposición
	Unit            string
	Location        string
	IsActive        bool // soft delete: se desactiva, nunca se destruye
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Estados de alerta de stock.
const (
	AlertOutOfStock = "out_of_stock"
	AlertLow        = "low"
	AlertCritical   = "critical"
)

// AlertStatus clasifica el artículo según sus umbrales: out_of_stock con
// cantidad cero, low por debajo del mínimo, critical hasta 1.5x el mínimo.
// Devuelve "" si el stock está sano.
func (i *StockItem) AlertStatus() string {
	switch {
	case i.CurrentQuantity == 0:
		return AlertOutOfStock
	case i.CurrentQuantity <= i.MinThreshold:
		return AlertLow
	case float64(i.CurrentQuantity) <= float64(i.MinThreshold)*1.5:
		return AlertCritical
	}
	return ""
}
