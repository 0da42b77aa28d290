package dto

import "time"

// AppendEventRequest body para POST /api/ledger/events.
// Para RECEIPT/WRITE_OFF: book_id, kind, delta (signo según el tipo) y
// opcionalmente location_id. Para TRANSFER: delta positivo,
// prev_location_id (origen) y location_id (destino).
type AppendEventRequest struct {
	BookID         string    `json:"book_id"`
	Kind           string    `json:"kind"`
	Delta          int       `json:"delta"`
	Date           time.Time `json:"date,omitempty"`
	LocationID     string    `json:"location_id,omitempty"`
	PrevLocationID string    `json:"prev_location_id,omitempty"`
}

// LedgerEventResponse proyección de LedgerEvent para la API.
type LedgerEventResponse struct {
	ID             string    `json:"id"`
	BookID         string    `json:"book_id"`
	LocationID     string    `json:"location_id,omitempty"`
	PrevLocationID string    `json:"prev_location_id,omitempty"`
	Kind           string    `json:"kind"`
	KindDisplay    string    `json:"kind_display"`
	Delta          int       `json:"delta"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

// LedgerHistoryResponse historial paginado de eventos de un libro.
type LedgerHistoryResponse struct {
	Items []LedgerEventResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockResponse cantidad disponible de un libro.
type StockResponse struct {
	BookID         string `json:"book_id"`
	QuantityOnHand int    `json:"quantity_on_hand"`
}

// ReconcileResponse verificación cache vs. fold del ledger.
type ReconcileResponse struct {
	BookID     string `json:"book_id"`
	Cached     int    `json:"cached"`
	LedgerFold int    `json:"ledger_fold"`
	Consistent bool   `json:"consistent"`
}
