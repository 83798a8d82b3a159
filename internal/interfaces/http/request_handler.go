package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/application/requests"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
)

// RequestHandler maneja las peticiones HTTP del workflow de demandas (protegido).
type RequestHandler struct {
	uc *requests.WorkflowUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *requests.WorkflowUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear demanda de compra
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Datos de la demanda"
// @Success      201   {object}  dto.RequestDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RequestFromEntity(req))
}

// ApproveDG godoc
// @Summary      Decisión DG sobre una demanda pendiente
// @Description  decision=approve requiere signature; decision=reject requiere reason.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la demanda"
// @Param        body  body  dto.ApproveDGRequest  true  "Decisión"
// @Success      200   {object}  dto.RequestDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/dg-decision [post]
func (h *RequestHandler) ApproveDG(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ApproveDGRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.ApproveByDG(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestFromEntity(req))
}

// ApprovePurchase godoc
// @Summary      Aprobación por el servicio de compras
// @Description  Asigna proveedor y número de commande (CMD-...).
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la demanda"
// @Param        body  body  dto.ApprovePurchaseRequest  true  "supplier_id"
// @Success      200   {object}  dto.RequestDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/purchase-approval [post]
func (h *RequestHandler) ApprovePurchase(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ApprovePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.ApproveByPurchase(c.Context(), GetActor(c), id, in.SupplierID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestFromEntity(req))
}

// Receive godoc
// @Summary      Recepción física de una commande
// @Description  Transiciona a received y asienta la entrada de stock en la misma transacción.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la demanda"
// @Param        body  body  dto.ReceiveRequest  true  "received_by, signature, notes"
// @Success      200   {object}  dto.RequestDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/receive [post]
func (h *RequestHandler) Receive(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Receive(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestFromEntity(req))
}

// Complete godoc
// @Summary      Cierre administrativo de una demanda recibida
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la demanda"
// @Success      200  {object}  dto.RequestDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	req, err := h.uc.Complete(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestFromEntity(req))
}

// GetByID godoc
// @Summary      Obtener demanda con su historial de transiciones
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la demanda"
// @Success      200  {object}  dto.RequestDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestFromEntity(req))
}

// List godoc
// @Summary      Listar demandas
// @Description  Sin view_all_requests el listado queda limitado a las demandas propias.
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "Filtrar por estado"
// @Param        department  query  string  false  "Filtrar por departamento"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.RequestDTO
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	filter := repository.RequestFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
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
	list, err := h.uc.List(c.Context(), GetActor(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequestDTO, 0, len(list))
	for _, req := range list {
		out = append(out, dto.RequestFromEntity(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

// Stats godoc
// @Summary      Conteos de demandas por estado (tablero)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RequestStatsDTO
// @Router       /api/requests/stats [get]
func (h *RequestHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.uc.Stats(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RequestStatsDTO{
		Total:              counts.Total,
		Pending:            counts.Pending,
		ApprovedByDG:       counts.ApprovedByDG,
		ApprovedByPurchase: counts.ApprovedByPurchase,
		Received:           counts.Received,
		Completed:          counts.Completed,
		Rejected:           counts.Rejected,
	})
}
