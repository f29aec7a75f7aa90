package userservice

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
)

// MinPasswordLength é o comprimento mínimo da senha no registo.
const MinPasswordLength = 8

// UserRepository define o contrato que o UserService espera da camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService trata do registo e da autenticação de operadores.
type UserService struct {
	UserRepo    UserRepository
	TokenSvc    TokenService
	logger      logger.Logger
	adminEmails map[string]bool
}

// NewService cria uma nova instância do UserService. Os emails em adminEmails
// recebem o papel admin no registo; os restantes ficam como operador.
func NewService(repo UserRepository, tokenSvc TokenService, log logger.Logger, adminEmails ...string) *UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &UserService{
		UserRepo:    repo,
		TokenSvc:    tokenSvc,
		logger:      log,
		adminEmails: admins,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register regista um novo utilizador com a senha em hash bcrypt.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	email := normalizeEmail(registration.Email)

	// 1. Validação
	if email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, apperror.NewValidationError("Email inválido.")
	}
	if len(registration.Password) < MinPasswordLength {
		return domain.User{}, apperror.NewValidationError(
			fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", MinPasswordLength))
	}

	// 2. Hash da senha
	hashed, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	role := domain.RoleOperator
	if s.adminEmails[email] {
		role = domain.RoleAdmin
	}

	// 3. Persistência
	user, err := s.UserRepo.Save(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		var conflict *apperror.ConflictError
		if errors.As(err, &conflict) {
			s.logger.Info("Registo recusado: email já em uso.", map[string]interface{}{"email": email})
			return domain.User{}, err
		}
		s.logger.Error("Falha ao registar utilizador.", err)
		return domain.User{}, err
	}

	s.logger.Info("Utilizador registado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Login autentica um utilizador e devolve um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// Email desconhecido responde como senha errada.
		if apperror.IsNotFound(err) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Tentativa de login falhada.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Debug("Login bem-sucedido.", map[string]interface{}{"user_id": user.ID})
	return tokenString, nil
}
