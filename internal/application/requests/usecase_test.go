package requests_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/requests"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
	"github.com/tra18/systeme-gestion-stock/pkg/numbering"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeReqRepo struct {
	requests map[string]*entity.PurchaseRequest
	trRepo   *fakeTrRepo
}

func newFakeReqRepo(trRepo *fakeTrRepo) *fakeReqRepo {
	return &fakeReqRepo{requests: make(map[string]*entity.PurchaseRequest), trRepo: trRepo}
}

func (r *fakeReqRepo) Create(req *entity.PurchaseRequest) error {
	for _, existing := range r.requests {
		if existing.RequestNumber == req.RequestNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeReqRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	cp.Transitions, _ = r.trRepo.ListByRequest(id)
	return &cp, nil
}

func (r *fakeReqRepo) GetForUpdate(id string) (*entity.PurchaseRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *fakeReqRepo) UpdateStatus(req *entity.PurchaseRequest, expectedStatus string) error {
	stored, ok := r.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != expectedStatus {
		return domain.ErrInvalidTransition
	}
	if req.OrderNumber != "" {
		for id, other := range r.requests {
			if id != req.ID && other.OrderNumber == req.OrderNumber {
				return domain.ErrDuplicate
			}
		}
	}
	stored.Status = req.Status
	stored.OrderNumber = req.OrderNumber
	stored.SupplierID = req.SupplierID
	stored.UpdatedAt = req.UpdatedAt
	return nil
}

func (r *fakeReqRepo) List(filter repository.RequestFilter) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	for _, req := range r.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequestedByID != "" && req.RequestedByID != filter.RequestedByID {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeReqRepo) CountByStatus(requestedByID string) (*repository.StatusCounts, error) {
	counts := &repository.StatusCounts{}
	for _, req := range r.requests {
		if requestedByID != "" && req.RequestedByID != requestedByID {
			continue
		}
		counts.Total++
		switch req.Status {
		case entity.StatusPending:
			counts.Pending++
		case entity.StatusApprovedByDG:
			counts.ApprovedByDG++
		case entity.StatusApprovedByPurchase:
			counts.ApprovedByPurchase++
		case entity.StatusReceived:
			counts.Received++
		case entity.StatusCompleted:
			counts.Completed++
		case entity.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

type fakeTrRepo struct {
	transitions []entity.RequestTransition
}

func (r *fakeTrRepo) Append(tr *entity.RequestTransition) error {
	if tr.ID == "" {
		tr.ID = uuid.New().String()
	}
	r.transitions = append(r.transitions, *tr)
	return nil
}

func (r *fakeTrRepo) ListByRequest(requestID string) ([]entity.RequestTransition, error) {
	var out []entity.RequestTransition
	for _, tr := range r.transitions {
		if tr.RequestID == requestID {
			out = append(out, tr)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { return nil }

func (r *fakeSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) { return nil, nil }

func (r *fakeSupplierRepo) Deactivate(id string) error { return nil }

type fakeItemRepo struct {
	items map[string]*entity.StockItem
}

func (r *fakeItemRepo) Create(item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.StockItem, error) { return r.GetByID(id) }

func (r *fakeItemRepo) GetActiveByNameCategory(name, category string) (*entity.StockItem, error) {
	for _, item := range r.items {
		if item.IsActive && item.Name == name && item.Category == category {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(item *entity.StockItem) error { return nil }

func (r *fakeItemRepo) UpdateQuantity(itemID string, quantity int) error {
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.CurrentQuantity = quantity
	return nil
}

func (r *fakeItemRepo) Deactivate(id string) error { return nil }

func (r *fakeItemRepo) List(filter repository.ItemFilter) ([]*entity.StockItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) ListBelowMin() ([]*entity.StockItem, error) { return nil, nil }

type fakeMovRepo struct {
	movements []*entity.StockMovement
	failNext  bool
}

func (r *fakeMovRepo) Create(m *entity.StockMovement) error {
	if r.failNext {
		r.failNext = false
		return assert.AnError
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }

func (r *fakeMovRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}

// fakeWorkflowRunner ejecuta el callback sobre los fakes y simula el rollback:
// si fn falla, restaura demandas, transiciones, artículos y movimientos al
// estado previo. Replica la semántica begin/rollback/commit de la tx real.
type fakeWorkflowRunner struct {
	reqRepo  *fakeReqRepo
	trRepo   *fakeTrRepo
	itemRepo *fakeItemRepo
	movRepo  *fakeMovRepo
}

func (r *fakeWorkflowRunner) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.PurchaseRequestRepository,
	trRepo repository.RequestTransitionRepository,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	reqSnapshot := make(map[string]entity.PurchaseRequest, len(r.reqRepo.requests))
	for id, req := range r.reqRepo.requests {
		reqSnapshot[id] = *req
	}
	itemSnapshot := make(map[string]entity.StockItem, len(r.itemRepo.items))
	for id, item := range r.itemRepo.items {
		itemSnapshot[id] = *item
	}
	trCount := len(r.trRepo.transitions)
	movCount := len(r.movRepo.movements)

	if err := fn(r.reqRepo, r.trRepo, r.itemRepo, r.movRepo); err != nil {
		r.reqRepo.requests = make(map[string]*entity.PurchaseRequest, len(reqSnapshot))
		for id, req := range reqSnapshot {
			cp := req
			r.reqRepo.requests[id] = &cp
		}
		r.itemRepo.items = make(map[string]*entity.StockItem, len(itemSnapshot))
		for id, item := range itemSnapshot {
			cp := item
			r.itemRepo.items[id] = &cp
		}
		r.trRepo.transitions = r.trRepo.transitions[:trCount]
		r.movRepo.movements = r.movRepo.movements[:movCount]
		return err
	}
	return nil
}

// fixedNumberer siempre devuelve el mismo número (para forzar colisiones).
type fixedNumberer struct{ value string }

func (n fixedNumberer) RequestNumber() string { return n.value }
func (n fixedNumberer) OrderNumber() string   { return n.value }

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	uc       *requests.WorkflowUseCase
	reqRepo  *fakeReqRepo
	trRepo   *fakeTrRepo
	itemRepo *fakeItemRepo
	movRepo  *fakeMovRepo
}

func newHarness() *harness {
	trRepo := &fakeTrRepo{}
	reqRepo := newFakeReqRepo(trRepo)
	itemRepo := &fakeItemRepo{items: make(map[string]*entity.StockItem)}
	movRepo := &fakeMovRepo{}
	supplierRepo := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"supplier-1": {ID: "supplier-1", Name: "Papeterie Centrale", IsActive: true},
	}}
	runner := &fakeWorkflowRunner{reqRepo: reqRepo, trRepo: trRepo, itemRepo: itemRepo, movRepo: movRepo}
	uc := requests.NewWorkflowUseCase(runner, reqRepo, supplierRepo, numbering.New())
	return &harness{uc: uc, reqRepo: reqRepo, trRepo: trRepo, itemRepo: itemRepo, movRepo: movRepo}
}

var (
	requester = entity.Actor{ID: "user-1", Name: "Aline Dupont", Role: entity.RoleUser,
		Capabilities: entity.NewCapabilitySet([]string{"manage_stock"})}
	dg = entity.Actor{ID: "dg-1", Name: "Directeur Général", Role: entity.RoleManager,
		Capabilities: entity.NewCapabilitySet([]string{"approve_dg", "manage_stock", "view_all_requests"})}
	buyer = entity.Actor{ID: "buyer-1", Name: "Service Achats", Role: entity.RoleUser,
		Capabilities: entity.NewCapabilitySet([]string{"purchasing", "manage_stock"})}
)

func createPending(t *testing.T, h *harness) *entity.PurchaseRequest {
	t.Helper()
	req, err := h.uc.Create(context.Background(), requester, dto.CreateRequestRequest{
		ItemName:   "Papier A4",
		Category:   "Fournitures",
		Quantity:   50,
		Department: "Comptabilité",
	})
	require.NoError(t, err)
	return req
}

func approveToDG(t *testing.T, h *harness, id string) {
	t.Helper()
	_, err := h.uc.ApproveByDG(context.Background(), dg, id, dto.ApproveDGRequest{
		Decision: requests.DecisionApprove, Signature: "c2lnbmF0dXJl",
	})
	require.NoError(t, err)
}

func approveToPurchase(t *testing.T, h *harness, id string) *entity.PurchaseRequest {
	t.Helper()
	req, err := h.uc.ApproveByPurchase(context.Background(), buyer, id, "supplier-1")
	require.NoError(t, err)
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DemandaPendiente(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	assert.Equal(t, entity.StatusPending, req.Status)
	assert.True(t, strings.HasPrefix(req.RequestNumber, "DEM-"),
		"la demanda lleva número con prefijo DEM")
	assert.Equal(t, requester.ID, req.RequestedByID)
	assert.Equal(t, requester.Name, req.RequestedBy)
	assert.Equal(t, entity.UrgencyNormal, req.Urgency, "urgencia por defecto normal")
	assert.Equal(t, entity.DefaultUnit, req.Unit)
	assert.Empty(t, h.movRepo.movements, "crear una demanda no toca el ledger")
}

func TestCreate_Validacion(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.uc.Create(ctx, requester, dto.CreateRequestRequest{Category: "X", Quantity: 1, Department: "Y"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin item_name")

	_, err = h.uc.Create(ctx, requester, dto.CreateRequestRequest{ItemName: "X", Category: "C", Quantity: 0, Department: "Y"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	_, err = h.uc.Create(ctx, requester, dto.CreateRequestRequest{ItemName: "X", Category: "C", Quantity: 1, Department: "Y", Urgency: "extreme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "urgencia desconocida")
}

func TestCreate_NumerosAgotados(t *testing.T) {
	trRepo := &fakeTrRepo{}
	reqRepo := newFakeReqRepo(trRepo)
	itemRepo := &fakeItemRepo{items: make(map[string]*entity.StockItem)}
	movRepo := &fakeMovRepo{}
	runner := &fakeWorkflowRunner{reqRepo: reqRepo, trRepo: trRepo, itemRepo: itemRepo, movRepo: movRepo}
	uc := requests.NewWorkflowUseCase(runner, reqRepo, &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{}},
		fixedNumberer{value: "DEM-20250115-COLISION"})

	// Ocupar el único número que el generador fijo puede producir.
	require.NoError(t, reqRepo.Create(&entity.PurchaseRequest{
		ID: "pre", RequestNumber: "DEM-20250115-COLISION", Status: entity.StatusPending,
	}))

	_, err := uc.Create(context.Background(), requester, dto.CreateRequestRequest{
		ItemName: "Papier", Category: "Fournitures", Quantity: 1, Department: "RH",
	})
	assert.ErrorIs(t, err, domain.ErrNumberExhausted,
		"agotados los reintentos de número único, la creación falla explícitamente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Gate DG
// ──────────────────────────────────────────────────────────────────────────────

func TestApproveByDG_ConFirma(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	out, err := h.uc.ApproveByDG(context.Background(), dg, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionApprove, Signature: "c2lnbmF0dXJl",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApprovedByDG, out.Status)

	trs, _ := h.trRepo.ListByRequest(req.ID)
	require.Len(t, trs, 1)
	assert.Equal(t, entity.StatusPending, trs[0].FromStatus)
	assert.Equal(t, entity.StatusApprovedByDG, trs[0].ToStatus)
	assert.Equal(t, dg.ID, trs[0].ActorID)
	assert.Equal(t, "c2lnbmF0dXJl", trs[0].Signature)
}

func TestApproveByDG_SinCapability(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	_, err := h.uc.ApproveByDG(context.Background(), requester, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionApprove, Signature: "x",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestApproveByDG_AprobarSinFirma(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	_, err := h.uc.ApproveByDG(context.Background(), dg, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionApprove,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "aprobar exige firma")
}

func TestApproveByDG_RechazarSinMotivo(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	_, err := h.uc.ApproveByDG(context.Background(), dg, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionReject,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rechazar exige motivo")
}

func TestApproveByDG_Rechazo_EsTerminal(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	ctx := context.Background()

	out, err := h.uc.ApproveByDG(ctx, dg, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionReject, Reason: "Budget épuisé",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, out.Status)

	// Una demanda rechazada no admite más transiciones.
	_, err = h.uc.ApproveByDG(ctx, dg, req.ID, dto.ApproveDGRequest{
		Decision: requests.DecisionApprove, Signature: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	trs, _ := h.trRepo.ListByRequest(req.ID)
	require.Len(t, trs, 1)
	assert.Equal(t, "Budget épuisé", trs[0].Reason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación compras
// ──────────────────────────────────────────────────────────────────────────────

func TestApproveByPurchase_AsignaCommande(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)

	out := approveToPurchase(t, h, req.ID)
	assert.Equal(t, entity.StatusApprovedByPurchase, out.Status)
	assert.True(t, strings.HasPrefix(out.OrderNumber, "CMD-"),
		"la aprobación de compras acuña el número de commande")
	assert.Equal(t, "supplier-1", out.SupplierID)

	trs, _ := h.trRepo.ListByRequest(req.ID)
	require.Len(t, trs, 2)
	assert.Equal(t, out.OrderNumber, trs[1].OrderNumber)
	assert.Equal(t, "supplier-1", trs[1].SupplierID)
}

func TestApproveByPurchase_SinCapability(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)

	_, err := h.uc.ApproveByPurchase(context.Background(), dg, req.ID, "supplier-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "approve_dg no implica purchasing")
}

func TestApproveByPurchase_ProveedorInexistente(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)

	_, err := h.uc.ApproveByPurchase(context.Background(), buyer, req.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveByPurchase_DesdePending_Rechazado(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)

	_, err := h.uc.ApproveByPurchase(context.Background(), buyer, req.ID, "supplier-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"no se puede saltar el gate DG")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción: transición + asiento de stock atómicos
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_FlujoCompleto(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	approved := approveToPurchase(t, h, req.ID)

	out, err := h.uc.Receive(context.Background(), requester, req.ID, dto.ReceiveRequest{
		ReceivedBy: "Aline Dupont", Signature: "c2ln", Notes: "Complet",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, out.Status)

	// El artículo se materializa perezosamente por (name, category).
	item, _ := h.itemRepo.GetActiveByNameCategory("Papier A4", "Fournitures")
	require.NotNil(t, item, "la recepción crea el artículo si no existe")
	assert.Equal(t, 50, item.CurrentQuantity, "la entrada asienta la cantidad de la demanda")

	require.Len(t, h.movRepo.movements, 1)
	mov := h.movRepo.movements[0]
	assert.Equal(t, entity.MovementEntry, mov.Type)
	assert.Equal(t, approved.OrderNumber, mov.Reference, "la entrada referencia la commande")
	assert.Contains(t, mov.Reason, req.RequestNumber)

	trs, _ := h.trRepo.ListByRequest(req.ID)
	require.Len(t, trs, 3, "todo el historial queda en el log append-only")
	assert.Equal(t, "Aline Dupont", trs[2].ReceivedBy)
}

func TestReceive_SegundaVez_SinDobleEntrada(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	approveToPurchase(t, h, req.ID)
	ctx := context.Background()

	in := dto.ReceiveRequest{ReceivedBy: "Aline", Signature: "c2ln"}
	_, err := h.uc.Receive(ctx, requester, req.ID, in)
	require.NoError(t, err)

	_, err = h.uc.Receive(ctx, requester, req.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "received es terminal")

	item, _ := h.itemRepo.GetActiveByNameCategory("Papier A4", "Fournitures")
	assert.Equal(t, 50, item.CurrentQuantity, "la segunda recepción no duplica la entrada")
	assert.Len(t, h.movRepo.movements, 1)
}

func TestReceive_SinFirma(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	approveToPurchase(t, h, req.ID)

	_, err := h.uc.Receive(context.Background(), requester, req.ID, dto.ReceiveRequest{ReceivedBy: "Aline"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si el asiento de stock falla, la transición entera se revierte: ninguna
// demanda queda received sin su movimiento de entrada.
func TestReceive_AsientoFalla_TransicionRevertida(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	approveToPurchase(t, h, req.ID)

	h.movRepo.failNext = true
	_, err := h.uc.Receive(context.Background(), requester, req.ID, dto.ReceiveRequest{
		ReceivedBy: "Aline", Signature: "c2ln",
	})
	require.Error(t, err)

	stored, _ := h.reqRepo.GetByID(req.ID)
	assert.Equal(t, entity.StatusApprovedByPurchase, stored.Status,
		"el estado vuelve al previo si el asiento falla")
	assert.Empty(t, h.movRepo.movements)
	trs, _ := h.trRepo.ListByRequest(req.ID)
	assert.Len(t, trs, 2, "la transición de recepción no queda registrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre sin recepción física
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_SinEfectoEnLedger(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	approveToPurchase(t, h, req.ID)

	out, err := h.uc.Complete(context.Background(), requester, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, out.Status)
	assert.Empty(t, h.movRepo.movements, "completed no asienta stock")

	// Tampoco admite recepción posterior.
	_, err = h.uc.Receive(context.Background(), requester, req.ID, dto.ReceiveRequest{
		ReceivedBy: "Aline", Signature: "c2ln",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance de lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_SoloElSolicitante(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	ctx := context.Background()

	got, err := h.uc.Get(ctx, requester, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	otro := entity.Actor{ID: "user-2", Name: "Otro", Role: entity.RoleUser,
		Capabilities: entity.NewCapabilitySet(nil)}
	_, err = h.uc.Get(ctx, otro, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// view_all_requests amplía el alcance.
	_, err = h.uc.Get(ctx, dg, req.ID)
	assert.NoError(t, err)
}

func TestList_AcotadaAlActor(t *testing.T) {
	h := newHarness()
	createPending(t, h)
	ctx := context.Background()

	// Otra demanda de un segundo solicitante, sembrada directamente.
	require.NoError(t, h.reqRepo.Create(&entity.PurchaseRequest{
		ID: "req-2", RequestNumber: "DEM-20250115-OTRO0001",
		RequestedByID: "user-2", Status: entity.StatusPending,
	}))

	own, err := h.uc.List(ctx, requester, repository.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1, "sin view_all_requests solo se ven las propias")
	assert.Equal(t, requester.ID, own[0].RequestedByID)

	all, err := h.uc.List(ctx, dg, repository.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStats_ConteosPorEstado(t *testing.T) {
	h := newHarness()
	req := createPending(t, h)
	approveToDG(t, h, req.ID)
	createPending(t, h)

	counts, err := h.uc.Stats(context.Background(), dg)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.ApprovedByDG)
}
