package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/gin-gonic/gin"
)

type claimsContextKey struct{}

const ginClaimsKey = "admin_claims"

// RequireAdmin rejects requests without a valid admin session. The token is
// read from the session cookie first, then from an Authorization bearer header.
func RequireAdmin(service AdminService) router.MiddlewareFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			abortUnauthorized(c, ErrAuthenticationRequired.Error())
			return
		}

		claims, err := service.Verify(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, ErrInvalidOrExpiredToken.Error())
			return
		}

		c.Set(ginClaimsKey, claims)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsContextKey{}, claims))
		c.Next()
	}
}

// ClaimsFromContext returns the session claims placed by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok && claims != nil
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}

	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	result := router.UnauthorizedResult(message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, result.ToJSON())
}
