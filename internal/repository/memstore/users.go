package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

// Users guarda os utilizadores em memória (STORE_DRIVER=memory).
type Users struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

// NewUsers cria um repositório de utilizadores vazio.
func NewUsers() *Users {
	return &Users{byEmail: make(map[string]domain.User)}
}

// Save insere um utilizador; o email é único (sem distinção de maiúsculas).
func (u *Users) Save(_ context.Context, user domain.User) (domain.User, error) {
	key := strings.ToLower(user.Email)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.byEmail[key]; exists {
		return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u.byEmail[key] = user
	return user, nil
}

// FindByEmail busca um utilizador pelo email.
func (u *Users) FindByEmail(_ context.Context, email string) (domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
	}
	return user, nil
}
