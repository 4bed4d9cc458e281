package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmatss/prova-modelagem-app/src/models"
	"github.com/nmatss/prova-modelagem-app/src/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func assinarToken(t *testing.T, chave string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(chave))
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewarePopulaActor(t *testing.T) {
	SetSecretKey("chave-de-teste")

	var capturado *services.Actor
	router := gin.New()
	router.GET("/x", AuthMiddleware(), func(ctx *gin.Context) {
		capturado, _ = CurrentActor(ctx)
		ctx.Status(http.StatusOK)
	})

	token := assinarToken(t, "chave-de-teste", jwt.MapClaims{
		"id":       float64(9),
		"username": "ana",
		"role":     models.RoleGestor,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturado)
	assert.Equal(t, 9, capturado.ID)
	assert.Equal(t, "ana", capturado.Nome)
	assert.Equal(t, models.RoleGestor, capturado.Role)
}

func TestAuthMiddlewareRejeita(t *testing.T) {
	SetSecretKey("chave-de-teste")

	router := gin.New()
	router.GET("/x", AuthMiddleware(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	casos := []struct {
		nome   string
		header string
	}{
		{"sem header", ""},
		{"formato errado", "Token abc"},
		{"token inválido", "Bearer nao-e-um-jwt"},
		{"chave errada", "Bearer " + assinarToken(t, "outra-chave", jwt.MapClaims{
			"id": float64(1), "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"expirado", "Bearer " + assinarToken(t, "chave-de-teste", jwt.MapClaims{
			"id": float64(1), "exp": time.Now().Add(-time.Hour).Unix(),
		})},
	}

	for _, c := range casos {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, c.nome)
	}
}

func TestAdminMiddlewareExigeAdmin(t *testing.T) {
	comRole := func(role string) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/x", func(ctx *gin.Context) {
			if role != "" {
				ctx.Set(actorKey, &services.Actor{ID: 1, Nome: "ana", Role: role})
			}
		}, AdminMiddleware(), func(ctx *gin.Context) {
			ctx.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, comRole(models.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, comRole(models.RoleGestor).Code)
	assert.Equal(t, http.StatusForbidden, comRole(models.RoleUsuario).Code)
	assert.Equal(t, http.StatusForbidden, comRole("").Code)
}
