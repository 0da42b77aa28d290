package entity

import "time"

// Location representa una ubicación física de la biblioteca (sala, depósito).
// Amount es la cantidad cacheada por ubicación, con la misma relación
// append/fold con el ledger que Book.QuantityOnHand.
type Location struct {
	ID        string
	Name      string // único
	Amount    int
	CreatedAt time.Time
	UpdatedAt time.Time
}
