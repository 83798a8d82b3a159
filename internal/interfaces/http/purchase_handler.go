package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/purchases"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// PurchaseHandler maneja las peticiones HTTP de achats directos (protegido).
type PurchaseHandler struct {
	uc *purchases.RecordUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.RecordUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar achat directo
// @Description  Asienta el achat y su entrada de stock en la misma transacción.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPurchaseRequest  true  "Datos del achat"
// @Success      201   {object}  dto.PurchaseDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, _, err := h.uc.Record(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseFromEntity(purchase))
}

// GetByID godoc
// @Summary      Obtener achat por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del achat"
// @Success      200  {object}  dto.PurchaseDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseFromEntity(purchase))
}

// List godoc
// @Summary      Listar achats directos
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        period    query  string  false  "Filtrar por periodo"
// @Param        from      query  string  false  "Desde (RFC3339)"
// @Param        to        query  string  false  "Hasta (RFC3339)"
// @Param        limit     query  int     false  "Límite"  default(50)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseDTO
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	filter := repository.PurchaseFilter{
		Category: c.Query("category"),
		Period:   c.Query("period"),
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}
	purchases, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.PurchaseFromEntity(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "purchases": out})
}
