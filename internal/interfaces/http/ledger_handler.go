package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/biblioteca-api/internal/application/dto"
	"github.com/jhoicas/biblioteca-api/internal/application/ledger"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del ledger de stock (protegido).
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// AppendEvent godoc
// @Summary      Registrar evento de stock (recepción, baja o traslado)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendEventRequest  true  "Evento"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/events [post]
func (h *LedgerHandler) AppendEvent(c *fiber.Ctx) error {
	var in dto.AppendEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	eventID, err := h.uc.AppendEvent(c.UserContext(), ledger.AppendEventInput{
		BookID:         in.BookID,
		Kind:           entity.EventKind(in.Kind),
		Delta:          in.Delta,
		Date:           in.Date,
		LocationID:     in.LocationID,
		PrevLocationID: in.PrevLocationID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event_id": eventID})
}

// DeleteEvent godoc
// @Summary      Eliminar evento del ledger (administrativo, revierte cantidades)
// @Tags         ledger
// @Security     Bearer
// @Param        id   path  string  true  "ID del evento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/events/{id} [delete]
func (h *LedgerHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.uc.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStock godoc
// @Summary      Cantidad disponible de un libro (cache O(1))
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del libro"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id}/stock [get]
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	bookID := c.Params("id")
	qty, err := h.uc.GetStock(c.UserContext(), bookID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.StockResponse{BookID: bookID, QuantityOnHand: qty})
}

// Reconcile godoc
// @Summary      Verificar cantidad cacheada contra el fold del ledger
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del libro"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id}/stock/reconcile [get]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	bookID := c.Params("id")
	res, err := h.uc.Reconcile(c.UserContext(), bookID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		BookID:     bookID,
		Cached:     res.Cached,
		LedgerFold: res.LedgerFold,
		Consistent: res.Consistent(),
	})
}

// History godoc
// @Summary      Historial de eventos de un libro (más recientes primero)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del libro"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.LedgerHistoryResponse
// @Router       /api/books/{id}/ledger [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	events, err := h.uc.History(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	items := make([]dto.LedgerEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.LedgerEventResponse{
			ID:             e.ID,
			BookID:         e.BookID,
			LocationID:     e.LocationID,
			PrevLocationID: e.PrevLocationID,
			Kind:           string(e.Kind),
			KindDisplay:    e.Kind.Display(),
			Delta:          e.Delta,
			Date:           e.Date,
			CreatedAt:      e.CreatedAt,
		})
	}
	return c.JSON(dto.LedgerHistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}
