package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nmatss/prova-modelagem-app/src/services"
)

const actorKey = "actor"

var secretKey string

func SetSecretKey(key string) {
	secretKey = key
}

func GetSecretKey() string {
	return secretKey
}

// AuthMiddleware verifies the bearer token and stores the request-scoped actor
// in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Gets the authorization header
		authHeader := strings.TrimSpace(ctx.GetHeader("Authorization"))
		if authHeader == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			ctx.Abort()
			return
		}

		// Divides the header into Bearer and Token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			ctx.Abort()
			return
		}

		// Verifies the JWT token
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			ctx.Abort()
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				ctx.Abort()
				return
			}
		}

		actor := &services.Actor{IP: ctx.ClientIP()}
		if id, ok := claims["id"].(float64); ok {
			actor.ID = int(id)
		}
		if username, ok := claims["username"].(string); ok {
			actor.Nome = username
		}
		if role, ok := claims["role"].(string); ok {
			actor.Role = role
		}

		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

// CurrentActor returns the authenticated actor of this request, if any.
func CurrentActor(ctx *gin.Context) (*services.Actor, bool) {
	value, exists := ctx.Get(actorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*services.Actor)
	return actor, ok
}

// AdminMiddleware gates a route group to administrators. It assumes
// AuthMiddleware already ran.
func AdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := CurrentActor(ctx)
		if !ok || !actor.IsAdmin() {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Acesso negado. Área restrita para administradores."})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
