package workflow

import "github.com/tra18/systeme-gestion-stock/internal/domain/entity"

// Aristas legales del workflow de demandas. Cualquier transición fuera de esta
// tabla falla con ErrInvalidTransition sin efectos secundarios.
//
//	pending -> approved_by_dg -> approved_by_purchase -> received | completed
//	pending | approved_by_dg -> rejected
//
// No existe cancelación después de approved_by_purchase: una vez emitida la
// commande, las únicas salidas son recepción o cierre sin recepción física.
var edges = map[string]map[string]struct{}{
	entity.StatusPending: {
		entity.StatusApprovedByDG: {},
		entity.StatusRejected:     {},
	},
	entity.StatusApprovedByDG: {
		entity.StatusApprovedByPurchase: {},
		entity.StatusRejected:           {},
	},
	entity.StatusApprovedByPurchase: {
		entity.StatusReceived:  {},
		entity.StatusCompleted: {},
	},
}

// CanTransition indica si la arista from -> to es legal.
func CanTransition(from, to string) bool {
	next, ok := edges[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// NextStates devuelve los estados alcanzables desde from (para la API).
func NextStates(from string) []string {
	next, ok := edges[from]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(next))
	for s := range next {
		out = append(out, s)
	}
	return out
}
