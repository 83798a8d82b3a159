package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodos de compra (reporting externo los agrupa por periodo).
const (
	PeriodDaily      = "daily"
	PeriodWeekly     = "weekly"
	PeriodMonthly    = "monthly"
	PeriodSemestrial = "semestrial"
	PeriodAnnual     = "annual"
)

// Purchase achat directo registrado fuera del workflow de demandas
// (compra ya realizada que se asienta a posteriori). Siempre genera un
// movimiento de entrada sobre el artículo correspondiente.
type Purchase struct {
	ID           string
	ItemName     string
	Description  string
	Category     string
	Period       string
	Quantity     int
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal // Quantity x UnitPrice, calculado al crear
	Supplier     string
	PurchaseDate time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
