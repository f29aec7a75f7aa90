package domain

import "time"

// User representa um operador do sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole é o papel do utilizador. Apenas administradores removem registos.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operador"
)

// UserRegistration representa o payload de entrada para o registo.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest representa o payload de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
