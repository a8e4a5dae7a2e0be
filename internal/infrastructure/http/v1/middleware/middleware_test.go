package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barinalp/internal/core/apperror"
	appctx "barinalp/internal/core/context"
	"barinalp/pkg/logger"
)

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (s stubValidator) ValidateToken(string) (*appctx.UserContext, error) {
	return s.user, s.err
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), Logger(logger.Nop()), ErrorHandler())
	r.GET("/", handlers...)
	return r
}

func serve(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecovery_Returns500(t *testing.T) {
	r := newEngine(func(*gin.Context) { panic("boom") })

	rec := serve(r, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeInternal)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestTrace_ReusesIncomingIDs(t *testing.T) {
	var seen *appctx.TraceContext
	r := newEngine(func(c *gin.Context) {
		seen = appctx.GetTrace(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := serve(r, map[string]string{HeaderRequestID: "req-1"})

	require.NotNil(t, seen)
	assert.Equal(t, "req-1", seen.RequestID)
	assert.NotEmpty(t, seen.TraceID)
	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))
}

func TestErrorHandler_HidesPlainErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
		c.Abort()
	})

	rec := serve(r, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAuthAndRequireRole(t *testing.T) {
	director := &appctx.UserContext{UserID: "dir-1", Role: appctx.RoleDirector}
	technician := &appctx.UserContext{UserID: "tech-1", Role: appctx.RoleTechnician}

	tests := []struct {
		name       string
		validator  stubValidator
		header     string
		wantStatus int
	}{
		{"director passes", stubValidator{user: director}, "Bearer t", http.StatusOK},
		{"technician forbidden", stubValidator{user: technician}, "Bearer t", http.StatusForbidden},
		{"lowercase scheme", stubValidator{user: director}, "bearer t", http.StatusOK},
		{"empty token", stubValidator{user: director}, "Bearer ", http.StatusUnauthorized},
		{"invalid token", stubValidator{err: errors.New("expired")}, "Bearer t", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Auth(tt.validator), RequireRole(appctx.RoleDirector), func(c *gin.Context) {
				assert.Equal(t, "dir-1", appctx.GetUserID(c.Request.Context()))
				c.Status(http.StatusOK)
			})

			rec := serve(r, map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
