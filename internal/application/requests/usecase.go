package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
	"github.com/tra18/systeme-gestion-stock/internal/domain/workflow"
)

// Intentos máximos de generación de número ante colisiones del UNIQUE.
const maxNumberAttempts = 5

// Decisiones válidas para la aprobación DG.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// WorkflowUseCase es el motor de aprobación de demandas de compra: valida
// transiciones con gate por capability, registra actor/timestamp/payload por
// transición en un log append-only y, en la recepción, asienta la entrada de
// stock dentro de la misma transacción.
//
// Concurrencia: cada operación relee el estado con bloqueo de fila dentro de
// la tx y escribe con compare-and-set sobre status; de dos callers
// concurrentes sobre la misma demanda, el perdedor falla con
// ErrInvalidTransition sin pisar el efecto del ganador.
type WorkflowUseCase struct {
	txRunner     TxRunner
	reqRepo      repository.PurchaseRequestRepository // lecturas fuera de tx
	supplierRepo repository.SupplierRepository
	numbers      Numberer
	now          func() time.Time
}

// NewWorkflowUseCase construye el motor de workflow.
func NewWorkflowUseCase(
	txRunner TxRunner,
	reqRepo repository.PurchaseRequestRepository,
	supplierRepo repository.SupplierRepository,
	numbers Numberer,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:     txRunner,
		reqRepo:      reqRepo,
		supplierRepo: supplierRepo,
		numbers:      numbers,
		now:          time.Now,
	}
}

// Create crea una demanda en estado pending con número DEM- único.
// Ante colisión del UNIQUE regenera el número; agotados los intentos falla
// con ErrNumberExhausted. Sin interacción con el ledger.
func (uc *WorkflowUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateRequestRequest) (*entity.PurchaseRequest, error) {
	if in.ItemName == "" || in.Category == "" || in.Department == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Urgency == "" {
		in.Urgency = entity.UrgencyNormal
	}
	if !entity.ValidUrgency(in.Urgency) {
		return nil, domain.ErrInvalidInput
	}
	if in.Unit == "" {
		in.Unit = entity.DefaultUnit
	}

	now := uc.now()
	req := &entity.PurchaseRequest{
		ID:            uuid.New().String(),
		ItemName:      in.ItemName,
		Description:   in.Description,
		Category:      in.Category,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		Urgency:       in.Urgency,
		Justification: in.Justification,
		Department:    in.Department,
		Status:        entity.StatusPending,
		RequestedBy:   actor.Name,
		RequestedByID: actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		req.RequestNumber = uc.numbers.RequestNumber()
		err := uc.reqRepo.Create(req)
		if err == nil {
			return req, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// colisión de request_number: regenerar y reintentar
	}
	return nil, domain.ErrNumberExhausted
}

// ApproveByDG resuelve el primer gate del workflow. decision=approve exige
// firma y lleva la demanda a approved_by_dg; decision=reject exige motivo y
// la lleva a rejected. Requiere la capability approve_dg.
func (uc *WorkflowUseCase) ApproveByDG(ctx context.Context, actor entity.Actor, requestID string, in dto.ApproveDGRequest) (*entity.PurchaseRequest, error) {
	if !actor.Can(entity.CapApproveDG) {
		return nil, domain.ErrUnauthorized
	}

	var target string
	switch in.Decision {
	case DecisionApprove:
		if in.Signature == "" {
			return nil, domain.ErrInvalidInput
		}
		target = entity.StatusApprovedByDG
	case DecisionReject:
		if in.Reason == "" {
			return nil, domain.ErrInvalidInput
		}
		target = entity.StatusRejected
	default:
		return nil, domain.ErrInvalidInput
	}

	var out *entity.PurchaseRequest
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.PurchaseRequestRepository,
		trRepo repository.RequestTransitionRepository,
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := uc.lockAndCheck(reqRepo, requestID, target)
		if err != nil {
			return err
		}
		tr := &entity.RequestTransition{
			RequestID:  req.ID,
			FromStatus: req.Status,
			ToStatus:   target,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			OccurredAt: uc.now(),
			Signature:  in.Signature,
			Reason:     in.Reason,
		}
		if err := uc.applyTransition(reqRepo, trRepo, req, tr); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveByPurchase aprueba por el servicio de compras: valida que el
// proveedor exista, acuña el número de commande CMD- (con reintento ante
// colisión) y lleva la demanda a approved_by_purchase. Requiere purchasing.
func (uc *WorkflowUseCase) ApproveByPurchase(ctx context.Context, actor entity.Actor, requestID, supplierID string) (*entity.PurchaseRequest, error) {
	if !actor.Can(entity.CapPurchasing) {
		return nil, domain.ErrUnauthorized
	}
	if supplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	var out *entity.PurchaseRequest
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		orderNumber := uc.numbers.OrderNumber()
		err := uc.txRunner.RunWorkflow(ctx, func(
			reqRepo repository.PurchaseRequestRepository,
			trRepo repository.RequestTransitionRepository,
			_ repository.StockItemRepository,
			_ repository.StockMovementRepository,
		) error {
			req, err := uc.lockAndCheck(reqRepo, requestID, entity.StatusApprovedByPurchase)
			if err != nil {
				return err
			}
			req.OrderNumber = orderNumber
			req.SupplierID = supplierID
			tr := &entity.RequestTransition{
				RequestID:   req.ID,
				FromStatus:  req.Status,
				ToStatus:    entity.StatusApprovedByPurchase,
				ActorID:     actor.ID,
				ActorName:   actor.Name,
				OccurredAt:  uc.now(),
				SupplierID:  supplierID,
				OrderNumber: orderNumber,
			}
			if err := uc.applyTransition(reqRepo, trRepo, req, tr); err != nil {
				return err
			}
			out = req
			return nil
		})
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// colisión de order_number: regenerar y reintentar con otra tx
	}
	return nil, domain.ErrNumberExhausted
}

// Receive marca la commande como recibida con firma y asienta la entrada de
// stock en la misma transacción: si el asiento falla, la transición entera se
// revierte (ninguna demanda received sin movimiento, ni al revés).
func (uc *WorkflowUseCase) Receive(ctx context.Context, actor entity.Actor, requestID string, in dto.ReceiveRequest) (*entity.PurchaseRequest, error) {
	if in.Signature == "" || in.ReceivedBy == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.PurchaseRequest
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.PurchaseRequestRepository,
		trRepo repository.RequestTransitionRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		req, err := uc.lockAndCheck(reqRepo, requestID, entity.StatusReceived)
		if err != nil {
			return err
		}
		now := uc.now()
		tr := &entity.RequestTransition{
			RequestID:  req.ID,
			FromStatus: req.Status,
			ToStatus:   entity.StatusReceived,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			OccurredAt: now,
			Signature:  in.Signature,
			ReceivedBy: in.ReceivedBy,
			Notes:      in.Notes,
		}
		if err := uc.applyTransition(reqRepo, trRepo, req, tr); err != nil {
			return err
		}

		// Efecto sobre el ledger: resolver (o crear) el artículo por
		// (name, category) y asentar la entrada referenciando la commande.
		item, err := stock.ResolveItemTx(itemRepo, req.ItemName, req.Category, req.Description, req.Unit, now)
		if err != nil {
			return err
		}
		_, err = stock.PostEntryTx(itemRepo, movRepo, stock.EntryParams{
			StockItemID: item.ID,
			Quantity:    req.Quantity,
			Reason:      fmt.Sprintf("Réception demande %s", req.RequestNumber),
			Reference:   req.OrderNumber,
			ActorID:     actor.ID,
			Now:         now,
		})
		if err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete cierra una commande sin recepción física (servicios, intangibles).
// Sin efecto sobre el ledger.
func (uc *WorkflowUseCase) Complete(ctx context.Context, actor entity.Actor, requestID string) (*entity.PurchaseRequest, error) {
	var out *entity.PurchaseRequest
	err := uc.txRunner.RunWorkflow(ctx, func(
		reqRepo repository.PurchaseRequestRepository,
		trRepo repository.RequestTransitionRepository,
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := uc.lockAndCheck(reqRepo, requestID, entity.StatusCompleted)
		if err != nil {
			return err
		}
		tr := &entity.RequestTransition{
			RequestID:  req.ID,
			FromStatus: req.Status,
			ToStatus:   entity.StatusCompleted,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			OccurredAt: uc.now(),
		}
		if err := uc.applyTransition(reqRepo, trRepo, req, tr); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve una demanda con su historial. Un solicitante ordinario solo ve
// las suyas; view_all_requests amplía el alcance.
func (uc *WorkflowUseCase) Get(ctx context.Context, actor entity.Actor, requestID string) (*entity.PurchaseRequest, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.Can(entity.CapViewAllRequests) && req.RequestedByID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// List lista demandas con filtros, acotadas al alcance del actor.
func (uc *WorkflowUseCase) List(ctx context.Context, actor entity.Actor, filter repository.RequestFilter) ([]*entity.PurchaseRequest, error) {
	if !actor.Can(entity.CapViewAllRequests) {
		filter.RequestedByID = actor.ID
	}
	return uc.reqRepo.List(filter)
}

// Stats conteos por estado para el tablero, con el mismo alcance que List.
func (uc *WorkflowUseCase) Stats(ctx context.Context, actor entity.Actor) (*repository.StatusCounts, error) {
	requestedByID := ""
	if !actor.Can(entity.CapViewAllRequests) {
		requestedByID = actor.ID
	}
	return uc.reqRepo.CountByStatus(requestedByID)
}

// lockAndCheck bloquea la fila de la demanda y valida que la arista hacia
// target sea legal desde el estado releído. Es la primera mitad del
// compare-and-set; UpdateStatus remata la segunda.
func (uc *WorkflowUseCase) lockAndCheck(reqRepo repository.PurchaseRequestRepository, requestID, target string) (*entity.PurchaseRequest, error) {
	req, err := reqRepo.GetForUpdate(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !workflow.CanTransition(req.Status, target) {
		return nil, domain.ErrInvalidTransition
	}
	return req, nil
}

// applyTransition escribe el nuevo estado con compare-and-set sobre el estado
// previo y agrega el registro al log append-only.
func (uc *WorkflowUseCase) applyTransition(
	reqRepo repository.PurchaseRequestRepository,
	trRepo repository.RequestTransitionRepository,
	req *entity.PurchaseRequest,
	tr *entity.RequestTransition,
) error {
	expected := req.Status
	req.Status = tr.ToStatus
	req.UpdatedAt = tr.OccurredAt
	if err := reqRepo.UpdateStatus(req, expected); err != nil {
		return err
	}
	if err := trRepo.Append(tr); err != nil {
		return err
	}
	req.Transitions = append(req.Transitions, *tr)
	return nil
}
