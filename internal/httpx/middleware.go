package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shopcore/shop-backend/internal/auth"
)

const (
	ctxPrincipalID = "principal_id"
	ctxRole        = "role"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.WithFields(log.Fields{
			"rid":    rid,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
			"dur":    time.Since(start).String(),
		}).Info("http request")
	}
}

// Error writes the standard JSON error body: {"error": msg}.
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// Auth verifies a Bearer token and stores the principal in the context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			Error(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := auth.VerifyToken(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			Error(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(ctxPrincipalID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route on an exact role. Runs after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			Error(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func Role(c *gin.Context) string { return c.GetString(ctxRole) }

func PrincipalID(c *gin.Context) string { return c.GetString(ctxPrincipalID) }
