package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/auth/jwt"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, req auth.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) CreateUser(ctx context.Context, req auth.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func TestAuthHandler_register(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := auth.RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "secret1"}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Register", c.Request.Context(), req).
		Return(&domain.User{ID: 1, Username: "asha", PasswordHash: "$2a$hash", Role: domain.RoleCustomer}, nil)

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$hash")
	mockService.AssertExpectations(t)
}

func TestAuthHandler_register_DropsRoleFromBody(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/register", bytes.NewReader([]byte(`{"username":"mallory","email":"m@example.com","password":"secret1","role":"ADMIN","hubId":1}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	want := auth.RegisterRequest{Username: "mallory", Email: "m@example.com", Password: "secret1"}
	mockService.On("Register", c.Request.Context(), want).
		Return(&domain.User{ID: 2, Username: "mallory", Role: domain.RoleCustomer}, nil)

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"CUSTOMER"`)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthHandler_createUser_RequiresAdmin(t *testing.T) {
	const secret = "secret"
	tests := []struct {
		name   string
		role   domain.Role
		status int
	}{
		{"admin", domain.RoleAdmin, http.StatusCreated},
		{"staff", domain.RoleStaff, http.StatusForbidden},
		{"customer", domain.RoleCustomer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthUseCase{}
			mockService.On("CreateUser", mock.Anything, mock.MatchedBy(func(req auth.CreateUserRequest) bool {
				return req.Role == domain.RoleStaff
			})).Return(&domain.User{ID: 3, Username: "desk1", Role: domain.RoleStaff}, nil).Maybe()

			gin.SetMode(gin.TestMode)
			r := gin.New()
			NewAuthHandler(mockService).RegisterAdmin(r.Group("/api", Authenticate(secret)))

			token, err := jwt.Issue(secret, 1, string(tt.role), time.Hour)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/users", bytes.NewReader([]byte(`{"username":"desk1","email":"d@example.com","password":"secret1","role":"STAFF"}`)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusCreated {
				mockService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAuthHandler_register_Taken(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/register", bytes.NewReader([]byte(`{"username":"asha","email":"a@example.com","password":"secret1"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Register", c.Request.Context(), mock.Anything).Return(nil, auth.ErrUsernameTaken)

	handler.register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, c.Errors)
}

func TestAuthHandler_login(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := auth.LoginRequest{Username: "desk1", Password: "secret1"}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	hub := int64(2)
	mockService.On("Login", c.Request.Context(), req).
		Return(&auth.LoginResult{Token: "jwt", Role: domain.RoleStaff, UserID: 5, HubID: &hub}, nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"jwt","role":"STAFF","userId":5,"hubId":2}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAuthHandler_login_InvalidCredentials(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewAuthHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/login", bytes.NewReader([]byte(`{"username":"desk1","password":"nope"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Login", c.Request.Context(), mock.Anything).Return(nil, auth.ErrInvalidCredentials)

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
