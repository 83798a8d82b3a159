package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.StockItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.StockItem)}
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

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.GetByID(id)
}

func (r *fakeItemRepo) GetActiveByNameCategory(name, category string) (*entity.StockItem, error) {
	for _, item := range r.items {
		if item.IsActive && item.Name == name && item.Category == category {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(item *entity.StockItem) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *item
	cp.CurrentQuantity = stored.CurrentQuantity
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) UpdateQuantity(itemID string, quantity int) error {
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.CurrentQuantity = quantity
	return nil
}

func (r *fakeItemRepo) Deactivate(id string) error {
	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = false
	return nil
}

func (r *fakeItemRepo) List(filter repository.ItemFilter) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, item := range r.items {
		if !item.IsActive {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.LowStock != nil {
			low := item.CurrentQuantity <= item.MinThreshold
			if low != *filter.LowStock {
				continue
			}
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeItemRepo) ListBelowMin() ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, item := range r.items {
		if item.IsActive && item.CurrentQuantity <= item.MinThreshold {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

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

func (r *fakeMovRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if filter.StockItemID != "" && m.StockItemID != filter.StockItemID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback sobre los fakes y simula el rollback
// restaurando cantidades y recortando el ledger si fn falla.
type fakeTxRunner struct {
	itemRepo *fakeItemRepo
	movRepo  *fakeMovRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	quantities := make(map[string]int, len(r.itemRepo.items))
	for id, item := range r.itemRepo.items {
		quantities[id] = item.CurrentQuantity
	}
	movCount := len(r.movRepo.movements)

	if err := fn(r.itemRepo, r.movRepo); err != nil {
		for id, q := range quantities {
			if item, ok := r.itemRepo.items[id]; ok {
				item.CurrentQuantity = q
			}
		}
		r.movRepo.movements = r.movRepo.movements[:movCount]
		return err
	}
	return nil
}

func newLedger() (*stock.LedgerUseCase, *fakeItemRepo, *fakeMovRepo) {
	itemRepo := newFakeItemRepo()
	movRepo := &fakeMovRepo{}
	uc := stock.NewLedgerUseCase(&fakeTxRunner{itemRepo: itemRepo, movRepo: movRepo}, itemRepo, movRepo)
	return uc, itemRepo, movRepo
}

func seedItem(t *testing.T, repo *fakeItemRepo, name string, qty int) *entity.StockItem {
	t.Helper()
	item := &entity.StockItem{
		ID:              uuid.New().String(),
		Name:            name,
		Category:        "Fournitures",
		CurrentQuantity: qty,
		MinThreshold:    5,
		MaxThreshold:    100,
		Unit:            "pièce",
		Location:        "Stock général",
		IsActive:        true,
	}
	require.NoError(t, repo.Create(item))
	return item
}

var tester = entity.Actor{ID: "actor-1", Name: "Testeur", Role: entity.RoleUser,
	Capabilities: entity.NewCapabilitySet([]string{"manage_stock"})}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestPostEntry_IncrementaYAsienta(t *testing.T) {
	uc, itemRepo, movRepo := newLedger()
	item := seedItem(t, itemRepo, "Papier A4", 10)

	mov, err := uc.PostEntry(context.Background(), tester, stock.MovementInput{
		StockItemID: item.ID, Quantity: 25, Reason: "Livraison", Reference: "CMD-20250115-AAAA1111",
	})
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 35, got.CurrentQuantity, "la entrada debe sumar sobre el agregado")
	assert.Equal(t, entity.MovementEntry, mov.Type)
	assert.Equal(t, "CMD-20250115-AAAA1111", mov.Reference)
	assert.Len(t, movRepo.movements, 1)
}

func TestPostExit_DescuentaYAsienta(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Papier A4", 10)

	mov, err := uc.PostExit(context.Background(), tester, stock.MovementInput{
		StockItemID: item.ID, Quantity: 4, Reason: "Distribution bureau",
	})
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 6, got.CurrentQuantity)
	assert.Equal(t, entity.MovementExit, mov.Type)
}

// La salida que excede el stock debe fallar sin tocar ni el agregado ni el ledger.
func TestPostExit_StockInsuficiente_SinEfectos(t *testing.T) {
	uc, itemRepo, movRepo := newLedger()
	item := seedItem(t, itemRepo, "Toner", 10)

	_, err := uc.PostExit(context.Background(), tester, stock.MovementInput{
		StockItemID: item.ID, Quantity: 15,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 10, got.CurrentQuantity, "la cantidad no debe cambiar tras un rechazo")
	assert.Empty(t, movRepo.movements, "un movimiento rechazado no deja rastro en el ledger")
}

func TestPostExit_ExactamenteTodo_DejaCero(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Toner", 10)

	_, err := uc.PostExit(context.Background(), tester, stock.MovementInput{
		StockItemID: item.ID, Quantity: 10,
	})
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 0, got.CurrentQuantity, "vaciar el stock es legal; quedar negativo no")
}

func TestPostEntry_CantidadNoPositiva(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Papier", 10)

	_, err := uc.PostEntry(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.PostExit(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostEntry_ArticuloInexistente(t *testing.T) {
	uc, _, _ := newLedger()
	_, err := uc.PostEntry(context.Background(), tester, stock.MovementInput{StockItemID: "no-existe", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestPostAdjustment_FijaValorAbsoluto(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Stylos", 37)

	mov, err := uc.PostAdjustment(context.Background(), tester, item.ID, 100, "Inventaire physique")
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 100, got.CurrentQuantity)
	assert.Equal(t, entity.MovementAdjustment, mov.Type)
	assert.Equal(t, 100, mov.Quantity, "en un ajuste, Quantity es el nuevo valor absoluto")
	assert.Contains(t, mov.Reason, "ancien: 37")
	assert.Contains(t, mov.Reason, "nouveau: 100")
}

func TestPostAdjustment_NegativoRechazado(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Stylos", 10)

	_, err := uc.PostAdjustment(context.Background(), tester, item.ID, -1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ajuste seguido de entrada: el ajuste re-ancla la reconciliación y los deltas
// posteriores aplican sobre el nuevo valor.
func TestPostAdjustment_LuegoEntrada(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Cartouches", 42)

	_, err := uc.PostAdjustment(context.Background(), tester, item.ID, 100, "Inventaire")
	require.NoError(t, err)
	_, err = uc.PostEntry(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 5})
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 105, got.CurrentQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión por compensación
// ──────────────────────────────────────────────────────────────────────────────

func TestReverse_EntradaGeneraSalida(t *testing.T) {
	uc, itemRepo, movRepo := newLedger()
	item := seedItem(t, itemRepo, "Papier", 10)

	original, err := uc.PostEntry(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 5})
	require.NoError(t, err)

	comp, err := uc.Reverse(context.Background(), tester, original.ID)
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 10, got.CurrentQuantity, "la compensación restaura el agregado")
	assert.Equal(t, entity.MovementExit, comp.Type)
	assert.Equal(t, original.ID, comp.Reference, "la compensación referencia al original")
	assert.Len(t, movRepo.movements, 2, "el original nunca se borra")
}

func TestReverse_SalidaGeneraEntrada(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Papier", 10)

	original, err := uc.PostExit(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 4})
	require.NoError(t, err)

	comp, err := uc.Reverse(context.Background(), tester, original.ID)
	require.NoError(t, err)

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, 10, got.CurrentQuantity)
	assert.Equal(t, entity.MovementEntry, comp.Type)
}

// Revertir una entrada ya consumida violaría la no-negatividad: se rechaza.
func TestReverse_EntradaConsumida_Rechazada(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Toner", 0)

	entry, err := uc.PostEntry(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = uc.PostExit(context.Background(), tester, stock.MovementInput{StockItemID: item.ID, Quantity: 8})
	require.NoError(t, err)

	_, err = uc.Reverse(context.Background(), tester, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReverse_AjusteNoReversible(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Stylos", 10)

	adj, err := uc.PostAdjustment(context.Background(), tester, item.ID, 50, "")
	require.NoError(t, err)

	_, err = uc.Reverse(context.Background(), tester, adj.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación: agregado == repliegue del ledger desde el último ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestReconciliacion_AgregadoIgualALedger(t *testing.T) {
	uc, itemRepo, movRepo := newLedger()
	item := seedItem(t, itemRepo, "Papier", 0)
	ctx := context.Background()

	_, err := uc.PostEntry(ctx, tester, stock.MovementInput{StockItemID: item.ID, Quantity: 20})
	require.NoError(t, err)
	_, err = uc.PostExit(ctx, tester, stock.MovementInput{StockItemID: item.ID, Quantity: 7})
	require.NoError(t, err)
	_, err = uc.PostAdjustment(ctx, tester, item.ID, 50, "Inventaire")
	require.NoError(t, err)
	_, err = uc.PostEntry(ctx, tester, stock.MovementInput{StockItemID: item.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = uc.PostExit(ctx, tester, stock.MovementInput{StockItemID: item.ID, Quantity: 11})
	require.NoError(t, err)

	// Repliegue: el último ajuste re-ancla, luego se aplican los deltas.
	replayed := 0
	for _, m := range movRepo.movements {
		switch m.Type {
		case entity.MovementAdjustment:
			replayed = m.Quantity
		case entity.MovementEntry:
			replayed += m.Quantity
		case entity.MovementExit:
			replayed -= m.Quantity
		}
	}

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, replayed, got.CurrentQuantity,
		"el agregado debe reconciliar exactamente con el repliegue del ledger")
	assert.Equal(t, 42, got.CurrentQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos, alertas y reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateItem_AplicaDefaults(t *testing.T) {
	uc, itemRepo, _ := newLedger()

	item := &entity.StockItem{Name: "Agrafeuses", Category: "Fournitures"}
	require.NoError(t, uc.CreateItem(context.Background(), item))

	got, _ := itemRepo.GetByID(item.ID)
	assert.Equal(t, entity.DefaultMinThreshold, got.MinThreshold)
	assert.Equal(t, entity.DefaultMaxThreshold, got.MaxThreshold)
	assert.Equal(t, entity.DefaultUnit, got.Unit)
	assert.Equal(t, 0, got.CurrentQuantity, "todo artículo nace con cantidad cero")
	assert.True(t, got.IsActive)
}

func TestCreateItem_SinNombre(t *testing.T) {
	uc, _, _ := newLedger()
	err := uc.CreateItem(context.Background(), &entity.StockItem{Category: "Fournitures"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAlerts_Clasificacion(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	seedItem(t, itemRepo, "Vide", 0)     // out_of_stock
	seedItem(t, itemRepo, "Bas", 5)      // low (== min)
	seedItem(t, itemRepo, "Critique", 7) // critical (<= 1.5*min)
	seedItem(t, itemRepo, "Sain", 50)    // sin alerta

	alerts, err := uc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	byName := make(map[string]string)
	for _, a := range alerts {
		byName[a.Item.Name] = a.Status
	}
	assert.Equal(t, entity.AlertOutOfStock, byName["Vide"])
	assert.Equal(t, entity.AlertLow, byName["Bas"])
	assert.Equal(t, entity.AlertCritical, byName["Critique"])
}

func TestReorderList_CantidadSugerida(t *testing.T) {
	uc, itemRepo, _ := newLedger()
	item := seedItem(t, itemRepo, "Papier", 2) // min 5, max 100

	list, err := uc.ReorderList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, item.ID, list[0].Item.ID)
	assert.Equal(t, 98, list[0].SuggestedQuantity, "sugerido = máximo - actual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución lazy por clave natural (name, category)
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveItemTx_CreaConDefaults(t *testing.T) {
	itemRepo := newFakeItemRepo()

	item, err := stock.ResolveItemTx(itemRepo, "Papier A4", "Fournitures", "Ramette 500", "", time.Now())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, entity.DefaultUnit, item.Unit)
	assert.Equal(t, entity.DefaultLocation, item.Location)
	assert.Equal(t, entity.DefaultMinThreshold, item.MinThreshold)
	assert.Equal(t, 0, item.CurrentQuantity)
}

func TestResolveItemTx_ReutilizaExistente(t *testing.T) {
	itemRepo := newFakeItemRepo()
	existing := seedItem(t, itemRepo, "Papier A4", 30)

	item, err := stock.ResolveItemTx(itemRepo, "Papier A4", "Fournitures", "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, item.ID, "misma clave natural reutiliza el artículo")
	assert.Equal(t, 30, item.CurrentQuantity)
}

// El matching es exacto y sensible a mayúsculas: variantes crean artículos distintos.
func TestResolveItemTx_MatchingExacto(t *testing.T) {
	itemRepo := newFakeItemRepo()
	existing := seedItem(t, itemRepo, "Papier A4", 30)

	item, err := stock.ResolveItemTx(itemRepo, "papier a4", "Fournitures", "", "", time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, item.ID)
}
