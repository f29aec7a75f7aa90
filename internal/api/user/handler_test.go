package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"acristock/internal/api/user"
	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
)

// MockUserService é uma implementação mock de user.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email string, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func TestRegisterUserHandler_Success(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())

	reg := domain.UserRegistration{Email: "ana@acri.pt", Password: "segredo123"}
	svc.On("Register", mock.Anything, reg).Return(domain.User{ID: "u-1", Email: reg.Email, PasswordHash: "hash", Role: domain.RoleOperator}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/register", strings.NewReader(`{"email":"ana@acri.pt","password":"segredo123"}`))
	h.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	var got domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, domain.RoleOperator, got.Role)
	svc.AssertExpectations(t)
}

func TestRegisterUserHandler_Fail_Conflict(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	svc.On("Register", mock.Anything, mock.Anything).Return(domain.User{}, apperror.NewConflictError("Email já registado."))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/register", strings.NewReader(`{"email":"ana@acri.pt","password":"segredo123"}`))
	h.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterUserHandler_Fail_UnknownField(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/register", strings.NewReader(`{"email":"a@b.pt","role":"admin"}`))
	h.RegisterUserHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestLoginUserHandler_Success(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	svc.On("Login", mock.Anything, "ana@acri.pt", "segredo123").Return("jwt-token", nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@acri.pt","password":"segredo123"}`))
	h.LoginUserHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"jwt-token"}`, rec.Body.String())
}

func TestLoginUserHandler_Fail_Unauthorized(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNopLogger())
	svc.On("Login", mock.Anything, "ana@acri.pt", "errada").Return("", apperror.NewUnauthorizedError("Credenciais inválidas."))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@acri.pt","password":"errada"}`))
	h.LoginUserHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
