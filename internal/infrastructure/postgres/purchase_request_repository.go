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

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

const requestColumns = `id, request_number, item_name, description, category, quantity, unit,
	urgency, justification, department, status, requested_by, requested_by_id,
	order_number, supplier_id, created_at, updated_at`

// PurchaseRequestRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

// Create persiste una demanda nueva. Retorna ErrDuplicate si request_number
// ya existe (el caso de uso regenera el número y reintenta).
func (r *PurchaseRequestRepo) Create(request *entity.PurchaseRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.RequestNumber, request.ItemName, request.Description,
		request.Category, request.Quantity, request.Unit, request.Urgency,
		request.Justification, request.Department, request.Status,
		request.RequestedBy, request.RequestedByID,
		nullIfEmpty(request.OrderNumber), nullIfEmpty(request.SupplierID),
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase request: %w", err)
	}
	return nil
}

// GetByID obtiene una demanda por ID con su historial de transiciones.
// Retorna (nil, nil) si no existe.
func (r *PurchaseRequestRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id = $1`
	req, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil || req == nil {
		return req, err
	}
	transitions, err := NewRequestTransitionRepository(r.q).ListByRequest(id)
	if err != nil {
		return nil, err
	}
	req.Transitions = transitions
	return req, nil
}

// GetForUpdate obtiene la demanda bloqueando la fila (SELECT FOR UPDATE).
// No carga transiciones: el caller dentro de la tx solo necesita el estado.
func (r *PurchaseRequestRepo) GetForUpdate(id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus aplica un compare-and-set sobre el estado: solo escribe si el
// estado actual sigue siendo expectedStatus. Retorna ErrInvalidTransition si
// otro caller ganó la carrera, ErrDuplicate si order_number viola su UNIQUE.
func (r *PurchaseRequestRepo) UpdateStatus(request *entity.PurchaseRequest, expectedStatus string) error {
	query := `
		UPDATE purchase_requests
		SET status = $1, order_number = $2, supplier_id = $3, updated_at = $4
		WHERE id = $5 AND status = $6`
	tag, err := r.q.Exec(context.Background(), query,
		request.Status, nullIfEmpty(request.OrderNumber), nullIfEmpty(request.SupplierID),
		request.UpdatedAt, request.ID, expectedStatus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// List lista demandas con filtros opcionales, más recientes primero.
func (r *PurchaseRequestRepo) List(filter repository.RequestFilter) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", pos)
		args = append(args, filter.Department)
		pos++
	}
	if filter.RequestedByID != "" {
		query += fmt.Sprintf(" AND requested_by_id = $%d", pos)
		args = append(args, filter.RequestedByID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		req, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// CountByStatus cuenta demandas por estado; requestedByID vacío cuenta todas.
func (r *PurchaseRequestRepo) CountByStatus(requestedByID string) (*repository.StatusCounts, error) {
	query := `
		SELECT status, COUNT(*) FROM purchase_requests`
	args := []any{}
	if requestedByID != "" {
		query += ` WHERE requested_by_id = $1`
		args = append(args, requestedByID)
	}
	query += ` GROUP BY status`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	counts := &repository.StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts.Total += n
		switch status {
		case entity.StatusPending:
			counts.Pending = n
		case entity.StatusApprovedByDG:
			counts.ApprovedByDG = n
		case entity.StatusApprovedByPurchase:
			counts.ApprovedByPurchase = n
		case entity.StatusReceived:
			counts.Received = n
		case entity.StatusCompleted:
			counts.Completed = n
		case entity.StatusRejected:
			counts.Rejected = n
		}
	}
	return counts, rows.Err()
}

func (r *PurchaseRequestRepo) scanOne(row pgx.Row) (*entity.PurchaseRequest, error) {
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (r *PurchaseRequestRepo) scanRow(rows pgx.Rows) (*entity.PurchaseRequest, error) {
	return scanRequest(rows.Scan)
}

func scanRequest(scan func(dest ...any) error) (*entity.PurchaseRequest, error) {
	var req entity.PurchaseRequest
	var orderNumber, supplierID *string
	err := scan(
		&req.ID, &req.RequestNumber, &req.ItemName, &req.Description, &req.Category,
		&req.Quantity, &req.Unit, &req.Urgency, &req.Justification, &req.Department,
		&req.Status, &req.RequestedBy, &req.RequestedByID,
		&orderNumber, &supplierID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orderNumber != nil {
		req.OrderNumber = *orderNumber
	}
	if supplierID != nil {
		req.SupplierID = *supplierID
	}
	return &req, nil
}

// nullIfEmpty mapea "" a NULL (columnas opcionales con UNIQUE, como order_number).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
