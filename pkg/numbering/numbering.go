package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de los identificadores legibles.
const (
	RequestPrefix = "DEM" // demande d'achat
	OrderPrefix   = "CMD" // bon de commande
)

// Generator produce números de demanda y de commande legibles y únicos con
// altísima probabilidad: PREFIJO-AAAAMMDD-XXXXXXXX (sufijo aleatorio).
// La unicidad real la garantiza el constraint UNIQUE en la base; el caller
// debe reintentar ante una violación (ver application/requests).
type Generator struct {
	now func() time.Time
}

// New construye el generador con el reloj del sistema.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock construye el generador con un reloj inyectado (tests).
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// RequestNumber devuelve un número de demanda: DEM-20250115-8A3F2B1C.
func (g *Generator) RequestNumber() string {
	return g.compose(RequestPrefix)
}

// OrderNumber devuelve un número de commande: CMD-20250115-8A3F2B1C.
func (g *Generator) OrderNumber() string {
	return g.compose(OrderPrefix)
}

func (g *Generator) compose(prefix string) string {
	date := g.now().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, date, suffix)
}
