package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lensfolio/api/models"
)

const IdentityKey = "identity"

type TokenValidator interface {
	Validate(token, audience string) *models.Identity
}

// AuthRequired admits requests carrying a valid token for audience. The cookie is
// tried first; when allowBearer is set an Authorization bearer header is tried if
// the cookie is missing or does not validate.
func AuthRequired(v TokenValidator, cookieName, audience string, allowBearer bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidates := []string{CookieToken(c, cookieName)}
		if allowBearer {
			candidates = append(candidates, BearerToken(c))
		}

		presented := false
		for _, tokenString := range candidates {
			if tokenString == "" {
				continue
			}
			presented = true
			if identity := v.Validate(tokenString, audience); identity != nil {
				c.Set(IdentityKey, identity)
				c.Next()
				return
			}
		}

		if presented {
			log.Info("AuthRequired: rejected token", zap.String("path", c.Request.URL.Path), zap.String("ip", c.ClientIP()))
		} else {
			log.Debug("AuthRequired: no token", zap.String("path", c.Request.URL.Path))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

func CookieToken(c *gin.Context, cookieName string) string {
	tokenString, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return tokenString
}

func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// CurrentIdentity returns the identity AuthRequired stored, if any.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok
}
