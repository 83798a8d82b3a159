package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementEntry      = "entry"      // entrada: delta positivo sobre el agregado
	MovementExit       = "exit"       // salida: delta negativo, nunca bajo cero
	MovementAdjustment = "adjustment" // ajuste: Quantity es el nuevo valor absoluto
)

// ValidMovementType indica si el tipo es conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement entrada inmutable del ledger de un artículo. Una vez insertada
// no se modifica; el único "deshacer" sancionado es un movimiento compensatorio
// del tipo opuesto (ver application/stock Reverse).
type StockMovement struct {
	ID          string
	StockItemID string
	Type        string // entry, exit, adjustment
	Quantity    int    // entry/exit: delta positivo; adjustment: valor absoluto
	Reason      string
	Reference   string // número de demanda/commande, ACH-<id> o movimiento revertido
	ActorID     string
	CreatedAt   time.Time
}
