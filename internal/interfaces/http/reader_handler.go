package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/biblioteca-api/internal/application/dto"
	"github.com/jhoicas/biblioteca-api/internal/application/usecase"
)

// ReaderHandler maneja las peticiones HTTP de lectores y carnés (protegido).
type ReaderHandler struct {
	uc *usecase.ReaderUseCase
}

// NewReaderHandler construye el handler.
func NewReaderHandler(uc *usecase.ReaderUseCase) *ReaderHandler {
	return &ReaderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lector
// @Tags         readers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReaderRequest  true  "Datos del lector"
// @Success      201   {object}  dto.ReaderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/readers [post]
func (h *ReaderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReaderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener lector por ID
// @Tags         readers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lector"
// @Success      200  {object}  dto.ReaderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/readers/{id} [get]
func (h *ReaderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lector no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lectores
// @Tags         readers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ReaderListResponse
// @Router       /api/readers [get]
func (h *ReaderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lector
// @Tags         readers
// @Security     Bearer
// @Param        id   path  string  true  "ID del lector"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/readers/{id} [delete]
func (h *ReaderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTicket godoc
// @Summary      Emitir carné para un lector
// @Tags         readers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lector"
// @Param        body  body  dto.CreateTicketRequest  true  "Datos del carné"
// @Success      201   {object}  dto.TicketResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/readers/{id}/tickets [post]
func (h *ReaderHandler) CreateTicket(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateTicket(c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTickets godoc
// @Summary      Listar carnés de un lector
// @Tags         readers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lector"
// @Success      200  {array}  dto.TicketResponse
// @Router       /api/readers/{id}/tickets [get]
func (h *ReaderHandler) ListTickets(c *fiber.Ctx) error {
	out, err := h.uc.ListTickets(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
