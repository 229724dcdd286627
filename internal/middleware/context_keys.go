package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionIDKey is the key used to store the converter session ID in the Gin context.
const sessionIDKey = contextKey("sessionID")

// SessionCookieName is the cookie carrying the converter session ID.
const SessionCookieName = "ccsid"

// SessionMiddleware makes sure every request carries a converter session ID,
// issuing a new random one when the cookie is missing or malformed.
func SessionMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sessionID, 0, "/", "", secure, true)
		}
		c.Set(string(sessionIDKey), sessionID)
		c.Next()
	}
}

// GetSessionIDFromContext retrieves the converter session ID from the Gin context.
// It returns the session ID and a boolean indicating if it was found.
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	sessionIDVal, exists := c.Get(string(sessionIDKey))
	if !exists {
		return "", false
	}

	sessionID, ok := sessionIDVal.(string)
	if !ok {
		return "", false
	}

	return sessionID, true
}
