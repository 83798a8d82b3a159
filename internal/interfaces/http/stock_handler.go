package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del ledger de stock (protegido).
type StockHandler struct {
	uc *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// CreateItem godoc
// @Summary      Crear artículo de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y category son requeridos"})
	}
	now := time.Now()
	item := &entity.StockItem{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		MinThreshold: in.MinThreshold,
		MaxThreshold: in.MaxThreshold,
		Unit:         in.Unit,
		Location:     in.Location,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.uc.CreateItem(c.Context(), item); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemFromEntity(item))
}

// GetItem godoc
// @Summary      Obtener artículo por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// UpdateItem godoc
// @Summary      Actualizar campos descriptivos de un artículo
// @Description  La cantidad nunca se modifica por aquí; solo el ledger la mueve.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [put]
func (h *StockHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateItem(c.Context(), c.Params("id"), in.Description, in.MinThreshold, in.MaxThreshold, in.Unit, in.Location)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// DeactivateItem godoc
// @Summary      Desactivar artículo (soft delete)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [delete]
func (h *StockHandler) DeactivateItem(c *fiber.Ctx) error {
	if err := h.uc.DeactivateItem(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "artículo desactivado"})
}

// ListItems godoc
// @Summary      Listar artículos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category   query  string  false  "Filtrar por categoría"
// @Param        low_stock  query  bool    false  "Solo artículos en o bajo el mínimo"
// @Param        limit      query  int     false  "Límite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ItemDTO
// @Router       /api/stock/items [get]
func (h *StockHandler) ListItems(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		Category: c.Query("category"),
		Limit:    c.QueryInt("limit", 100),
		Offset:   c.QueryInt("offset", 0),
	}
	if v := c.Query("low_stock"); v != "" {
		low := v == "true" || v == "1"
		filter.LowStock = &low
	}
	items, err := h.uc.ListItems(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ItemFromEntity(item))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// PostMovement godoc
// @Summary      Asentar movimiento manual de stock
// @Description  type=entry|exit|adjustment. Para adjustment, quantity es el nuevo valor absoluto.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) PostMovement(c *fiber.Ctx) error {
	var in dto.PostMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetActor(c)
	input := stock.MovementInput{
		StockItemID: in.StockItemID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		Reference:   in.Reference,
	}
	var mov *entity.StockMovement
	var err error
	switch in.Type {
	case entity.MovementEntry:
		mov, err = h.uc.PostEntry(c.Context(), actor, input)
	case entity.MovementExit:
		mov, err = h.uc.PostExit(c.Context(), actor, input)
	case entity.MovementAdjustment:
		mov, err = h.uc.PostAdjustment(c.Context(), actor, in.StockItemID, in.Quantity, in.Reason)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser entry, exit o adjustment"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// ReverseMovement godoc
// @Summary      Revertir un movimiento con su compensatorio
// @Description  Asienta el movimiento opuesto; el original nunca se borra. Los ajustes no se revierten.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento a revertir"
// @Success      201  {object}  dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reverse [post]
func (h *StockHandler) ReverseMovement(c *fiber.Ctx) error {
	mov, err := h.uc.Reverse(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        stock_item_id  query  string  false  "Filtrar por artículo"
// @Param        type           query  string  false  "Filtrar por tipo"
// @Param        limit          query  int     false  "Límite"  default(100)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		StockItemID: c.Query("stock_item_id"),
		Type:        c.Query("type"),
		Limit:       c.QueryInt("limit", 100),
		Offset:      c.QueryInt("offset", 0),
	}
	movements, err := h.uc.ListMovements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Alerts godoc
// @Summary      Alertas de stock (rupture, seuil bas)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.uc.Alerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.StockAlertDTO{
			ItemID:          a.Item.ID,
			ItemName:        a.Item.Name,
			CurrentQuantity: a.Item.CurrentQuantity,
			MinThreshold:    a.Item.MinThreshold,
			Status:          a.Status,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// ReorderList godoc
// @Summary      Lista de réapprovisionnement
// @Description  Artículos en o bajo el mínimo con cantidad sugerida (máximo - actual).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReorderSuggestionDTO
// @Router       /api/stock/reorder-list [get]
func (h *StockHandler) ReorderList(c *fiber.Ctx) error {
	suggestions, err := h.uc.ReorderList(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReorderSuggestionDTO, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, dto.ReorderSuggestionDTO{
			ItemID:            s.Item.ID,
			Name:              s.Item.Name,
			CurrentQuantity:   s.Item.CurrentQuantity,
			MinThreshold:      s.Item.MinThreshold,
			MaxThreshold:      s.Item.MaxThreshold,
			SuggestedQuantity: s.SuggestedQuantity,
			Location:          s.Item.Location,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "reorder_list": out})
}
