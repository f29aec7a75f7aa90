package userservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
	"acristock/internal/repository/memstore"
	"acristock/internal/service/userservice"
)

// MockTokenService é uma implementação mock de TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func TestRegister_Success_OperatorByDefault(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger(), "chefe@acri.pt")

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: " Ana@Acri.pt ", Password: "segredo123"})

	require.NoError(t, err)
	assert.Equal(t, "ana@acri.pt", user.Email)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("segredo123")))
}

func TestRegister_Success_AdminEmail(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger(), "Chefe@acri.pt")

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: "chefe@acri.pt", Password: "segredo123"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestRegister_Fail_Validation(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger())

	for _, reg := range []domain.UserRegistration{
		{Email: "", Password: "segredo123"},
		{Email: "nao-e-email", Password: "segredo123"},
		{Email: "ana@acri.pt", Password: "curta"},
	} {
		_, err := svc.Register(context.Background(), reg)
		assert.IsType(t, &apperror.ValidationError{}, err, reg.Email)
	}
}

func TestRegister_Fail_DuplicateEmail(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger())
	reg := domain.UserRegistration{Email: "ana@acri.pt", Password: "segredo123"}

	_, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), reg)

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestLogin_Success(t *testing.T) {
	tokens := new(MockTokenService)
	svc := userservice.NewService(memstore.NewUsers(), tokens, logger.NewNopLogger())
	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: "ana@acri.pt", Password: "segredo123"})
	require.NoError(t, err)

	tokens.On("GenerateToken", user.ID, "operador").Return("jwt-token", nil)

	tok, err := svc.Login(context.Background(), "ANA@acri.pt", "segredo123")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", tok)
	tokens.AssertExpectations(t)
}

func TestLogin_Fail_WrongPassword(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger())
	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "ana@acri.pt", Password: "segredo123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@acri.pt", "errada123")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestLogin_Fail_UnknownEmail(t *testing.T) {
	svc := userservice.NewService(memstore.NewUsers(), new(MockTokenService), logger.NewNopLogger())

	_, err := svc.Login(context.Background(), "ninguem@acri.pt", "segredo123")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
