package middlewares

import (
	"errors"
	"net/http"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth. A missing identity still answers
// 401 so the two failures stay distinguishable.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c)

		if _, err := auth.RequireAdmin(claims); err != nil {
			if errors.Is(err, auth.ErrForbidden) {
				abortWithError(c, http.StatusForbidden, "forbidden", "Admin role required")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Missing identity context")
			return
		}

		c.Next()
	}
}
