package entity

import "time"

// ReaderTicket representa el carné de un lector. EndTime nil = vigente.
type ReaderTicket struct {
	ID               string
	ReaderID         string
	RegistrationDate time.Time
	EndTime          *time.Time
	CreatedAt        time.Time
}

// Active reporta si el carné está vigente a la fecha dada.
func (t *ReaderTicket) Active(at time.Time) bool {
	return t.EndTime == nil || t.EndTime.After(at)
}
