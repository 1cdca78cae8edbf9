package response

import (
	"github.com/gin-gonic/gin"
)

// Canonical user-facing messages. Handlers reuse these so error copy stays
// consistent across endpoints.
const (
	MsgUnauthorized     = "You need to be signed in to perform this action."
	MsgInvalidToken     = "Your session has expired or is invalid. Please sign in again."
	MsgValidationFailed = "Some fields are missing or incorrect. Please review and try again."
	MsgNotFound         = "The requested resource could not be found."
	MsgServerError      = "Something went wrong. Please try again later."
	MsgForbidden        = "You do not have permission to perform this action."
	MsgRateLimited      = "Too many requests. Please slow down and try again."
)

// Message writes a bare {"message": ...} body.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Data writes {"message": ...} plus extra top-level fields.
func Data(c *gin.Context, status int, msg string, fields gin.H) {
	body := gin.H{"message": msg}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// JSON writes an arbitrary top-level body (list endpoints have no message
// field).
func JSON(c *gin.Context, status int, body gin.H) {
	c.JSON(status, body)
}

// ValidationFailed writes the 400 field-error shape:
// {"message": ..., "errors": {field: reason}}.
func ValidationFailed(c *gin.Context, errs map[string]string) {
	c.JSON(400, gin.H{"message": MsgValidationFailed, "errors": errs})
}

// Abort writes a message body and aborts the middleware chain.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
