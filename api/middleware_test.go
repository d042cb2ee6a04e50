package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/auth/jwt"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api", Authenticate(testSecret))
	g.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.POST("/staff", RequireRoles(domain.RoleStaff, domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	g.POST("/admin", RequireRoles(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func bearer(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := jwt.Issue(testSecret, 1, string(role), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticateAndRequireRoles(t *testing.T) {
	r := protectedRouter()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"no token", "GET", "/api/open", "", http.StatusUnauthorized},
		{"garbage token", "GET", "/api/open", "Bearer garbage", http.StatusUnauthorized},
		{"customer reads", "GET", "/api/open", bearer(t, domain.RoleCustomer), http.StatusOK},
		{"customer handover", "POST", "/api/staff", bearer(t, domain.RoleCustomer), http.StatusForbidden},
		{"staff handover", "POST", "/api/staff", bearer(t, domain.RoleStaff), http.StatusOK},
		{"staff upload", "POST", "/api/admin", bearer(t, domain.RoleStaff), http.StatusForbidden},
		{"admin upload", "POST", "/api/admin", bearer(t, domain.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRoles_WithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/bookings/1/handover", nil)

	RequireRoles(domain.RoleStaff)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(RequestLogger(logger.NewNop(), m))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		respondError(c, errors.New("boom"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&domain.ReferenceError{Field: "carId"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrBadInput))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(&domain.StateError{Expected: domain.BookingStatusActive, Actual: domain.BookingStatusConfirmed}))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrBookingLocked))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.ErrRendering))
}
