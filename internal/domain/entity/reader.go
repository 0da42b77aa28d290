package entity

import "time"

// Reader representa un lector registrado en la biblioteca.
type Reader struct {
	ID        string
	FullName  string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
