package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context key holding the authenticated user id.
const userIDKey = "userId"

// bearerToken extracts the token from an Authorization header value and
// returns the user-facing message when the header is unusable.
func bearerToken(header string) (token, errMsg string) {
	if header == "" {
		return "", "missing Authorization header"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "invalid Authorization header format"
	}
	return parts[1], ""
}

func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, errMsg := bearerToken(c.GetHeader("Authorization"))
	if errMsg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": errMsg,
		})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(userIDKey, userId)
	c.Next()
}
