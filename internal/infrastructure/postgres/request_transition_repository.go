package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

var _ repository.RequestTransitionRepository = (*RequestTransitionRepo)(nil)

// RequestTransitionRepo log append-only de transiciones sobre PostgreSQL.
// Solo INSERT y SELECT: las filas nunca se actualizan ni se borran.
type RequestTransitionRepo struct {
	q Querier
}

// NewRequestTransitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestTransitionRepository(q Querier) *RequestTransitionRepo {
	return &RequestTransitionRepo{q: q}
}

// Append inserta un registro de transición.
func (r *RequestTransitionRepo) Append(transition *entity.RequestTransition) error {
	if transition.ID == "" {
		transition.ID = uuid.New().String()
	}
	query := `
		INSERT INTO request_transitions (id, request_id, from_status, to_status, actor_id, actor_name,
			occurred_at, signature, reason, supplier_id, order_number, received_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		transition.ID, transition.RequestID, transition.FromStatus, transition.ToStatus,
		transition.ActorID, transition.ActorName, transition.OccurredAt,
		transition.Signature, transition.Reason,
		nullIfEmpty(transition.SupplierID), nullIfEmpty(transition.OrderNumber),
		transition.ReceivedBy, transition.Notes,
	)
	if err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	return nil
}

// ListByRequest lista las transiciones de una demanda en orden cronológico.
func (r *RequestTransitionRepo) ListByRequest(requestID string) ([]entity.RequestTransition, error) {
	query := `
		SELECT id, request_id, from_status, to_status, actor_id, actor_name,
			occurred_at, signature, reason, supplier_id, order_number, received_by, notes
		FROM request_transitions WHERE request_id = $1 ORDER BY occurred_at ASC`
	rows, err := r.q.Query(context.Background(), query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()
	var list []entity.RequestTransition
	for rows.Next() {
		var t entity.RequestTransition
		var supplierID, orderNumber *string
		if err := rows.Scan(&t.ID, &t.RequestID, &t.FromStatus, &t.ToStatus,
			&t.ActorID, &t.ActorName, &t.OccurredAt, &t.Signature, &t.Reason,
			&supplierID, &orderNumber, &t.ReceivedBy, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if supplierID != nil {
			t.SupplierID = *supplierID
		}
		if orderNumber != nil {
			t.OrderNumber = *orderNumber
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
