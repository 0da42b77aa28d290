package entity

import "time"

// EventKind tipo de operación del ledger (conjunto cerrado).
type EventKind string

const (
	KindReceipt    EventKind = "RECEIPT"
	KindWriteOff   EventKind = "WRITE_OFF"
	KindLoanIssue  EventKind = "LOAN_ISSUE"
	KindLoanReturn EventKind = "LOAN_RETURN"
	KindTransfer   EventKind = "TRANSFER"
)

// Valid reporta si el tipo pertenece al conjunto cerrado.
func (k EventKind) Valid() bool {
	switch k {
	case KindReceipt, KindWriteOff, KindLoanIssue, KindLoanReturn, KindTransfer:
		return true
	}
	return false
}

// Display devuelve la etiqueta canónica para UI (heredada del sistema original).
func (k EventKind) Display() string {
	switch k {
	case KindReceipt:
		return "приход"
	case KindWriteOff:
		return "списание"
	case KindLoanIssue:
		return "долг"
	case KindLoanReturn:
		return "возврат"
	case KindTransfer:
		return "перемещение"
	}
	return string(k)
}

// LedgerEvent representa un hecho inmutable que afecta el stock de un libro:
// recepción, baja, préstamo, devolución o traslado entre ubicaciones.
// Delta es la cantidad con signo; el ledger es append-only salvo la
// eliminación administrativa, que revierte las cantidades cacheadas.
type LedgerEvent struct {
	ID             string
	BookID         string
	LocationID     string // vacío si el evento no está ligado a ubicación
	PrevLocationID string // solo TRANSFER: ubicación de origen
	Kind           EventKind
	Delta          int
	Date           time.Time
	CreatedAt      time.Time
}
