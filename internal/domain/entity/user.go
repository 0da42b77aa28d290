package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleBibliotecario = "bibliotecario"
)

// User representa una cuenta del personal que opera la API.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bibliotecario
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
