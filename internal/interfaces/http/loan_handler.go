package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/biblioteca-api/internal/application/dto"
	"github.com/jhoicas/biblioteca-api/internal/application/loan"
	"github.com/jhoicas/biblioteca-api/internal/domain/entity"
)

// LoanHandler maneja las peticiones HTTP del ciclo de préstamos (protegido).
type LoanHandler struct {
	uc  *loan.UseCase
	gen loan.ReportGenerator
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *loan.UseCase, gen loan.ReportGenerator) *LoanHandler {
	return &LoanHandler{uc: uc, gen: gen}
}

// Create godoc
// @Summary      Abrir préstamo (emite LOAN_ISSUE y descuenta stock)
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoanRequest  true  "Datos del préstamo"
// @Success      201   {object}  dto.LoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), loan.CreateInput{
		ReaderTicketID: in.ReaderTicketID,
		BookID:         in.BookID,
		IssueDate:      in.IssueDate,
		DueDate:        in.DueDate,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLoanResponse(out))
}

// Get godoc
// @Summary      Obtener préstamo (estado y días derivados a hoy)
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del préstamo"
// @Success      200  {object}  dto.LoanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toLoanResponse(out))
}

// Close godoc
// @Summary      Cerrar préstamo (devolución; congela días, estado y multa)
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del préstamo"
// @Param        body  body  dto.CloseLoanRequest  true  "Fecha de devolución"
// @Success      200   {object}  dto.LoanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/close [post]
func (h *LoanHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Close(c.UserContext(), c.Params("id"), in.ReturnDate)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toLoanResponse(out))
}

// MarkLost godoc
// @Summary      Marcar préstamo como perdido (el ejemplar no vuelve al stock)
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del préstamo"
// @Success      200  {object}  dto.LoanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/lost [post]
func (h *LoanHandler) MarkLost(c *fiber.Ctx) error {
	out, err := h.uc.MarkLost(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toLoanResponse(out))
}

// ListOpen godoc
// @Summary      Listar préstamos abiertos (próximos a vencer primero)
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.LoanListResponse
// @Router       /api/loans [get]
func (h *LoanHandler) ListOpen(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.ListOpen(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toLoanList(list, limit, offset))
}

// ListByReader godoc
// @Summary      Listar préstamos de un carné (deudas del lector)
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        ticketId  path  string  true  "ID del carné"
// @Success      200       {object}  dto.LoanListResponse
// @Router       /api/tickets/{ticketId}/loans [get]
func (h *LoanHandler) ListByReader(c *fiber.Ctx) error {
	list, err := h.uc.ListByReader(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toLoanList(list, len(list), 0))
}

// DeleteClosed godoc
// @Summary      Borrar en lote los préstamos cerrados
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DeleteClosedResponse
// @Router       /api/loans/closed [delete]
func (h *LoanHandler) DeleteClosed(c *fiber.Ctx) error {
	n, err := h.uc.DeleteClosed(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.DeleteClosedResponse{Deleted: n})
}

// Delete godoc
// @Summary      Eliminar un préstamo cerrado
// @Tags         loans
// @Security     Bearer
// @Param        id   path  string  true  "ID del préstamo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OverdueReport godoc
// @Summary      Reporte PDF de préstamos vencidos
// @Tags         loans
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/overdue [get]
func (h *LoanHandler) OverdueReport(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.OverdueReport(c.UserContext(), h.gen)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		`attachment; filename="vencidos-`+time.Now().Format("2006-01-02")+`.pdf"`)
	return c.Send(pdfBytes)
}

func toLoanResponse(l *entity.Loan) dto.LoanResponse {
	return dto.LoanResponse{
		ID:             l.ID,
		ReaderTicketID: l.ReaderTicketID,
		BookID:         l.BookID,
		IssueDate:      l.IssueDate,
		DueDate:        l.DueDate,
		ReturnDate:     l.ReturnDate,
		DaysUntilDue:   l.DaysUntilDue,
		Status:         string(l.Status),
		StatusDisplay:  l.Status.Display(),
		PenaltyAmount:  l.PenaltyAmount,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toLoanList(list []*entity.Loan, limit, offset int) dto.LoanListResponse {
	items := make([]dto.LoanResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLoanResponse(l))
	}
	return dto.LoanListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
