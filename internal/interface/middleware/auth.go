package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/pkg/helpers"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserNameKey  = "userName"
)

// Auth reads the session cookie, verifies it, and injects the authenticated
// identity into the Gin context. A missing cookie and a failed verification
// produce the same 401 status; the body does not reveal which check failed
// beyond the generic expired-or-invalid copy.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.MsgInvalidToken)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID())
		c.Set(CtxUserEmailKey, claims.Email)
		c.Set(CtxUserNameKey, claims.Name)
		c.Next()
	}
}
