package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-with-32-chars!"

func signTestToken(t *testing.T, tenantID, userID uuid.UUID, roles []string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "stockroom-idp",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TenantID: tenantID.String(),
		UserID:   userID.String(),
		Roles:    roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := auth.NewTokenVerifier(config.JWTConfig{Secret: testSecret, Issuer: "stockroom-idp"})

	r := gin.New()
	group := r.Group("/", RequestID(), Auth(verifier))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/probe", func(c *gin.Context) {
		tenantID, _ := GetTenantID(c)
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID, "user_id": userID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("accepts a valid token", func(t *testing.T) {
		r := newAuthTestRouter()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, tenantID, userID, []string{"admin"}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tenantID.String())
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		r := newAuthTestRouter()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		r := newAuthTestRouter()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Token abc")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		r := newAuthTestRouter()
		claims := auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "stockroom-idp",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TenantID: tenantID.String(),
			UserID:   userID.String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret-key-32-chars-min"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("allows a held role", func(t *testing.T) {
		r := newAuthTestRouter("manager")
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, tenantID, userID, []string{"manager", "picker"}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a missing role", func(t *testing.T) {
		r := newAuthTestRouter("admin")
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, tenantID, userID, []string{"picker"}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
