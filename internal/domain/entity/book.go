package entity

import "time"

// Book representa un libro del catálogo.
// QuantityOnHand es la cantidad cacheada derivada del ledger de eventos;
// nunca se edita directo, solo al aplicar o revertir un LedgerEvent.
type Book struct {
	ID             string
	ISBN           string // único
	Title          string
	Description    string
	PublishYear    int
	Pages          int
	Language       string
	Publisher      string
	CoverURL       string
	QuantityOnHand int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
