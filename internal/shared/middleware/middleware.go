package middleware

import (
	"net/http"
	"strings"

	"smartlodge/internal/shared/config"
	"smartlodge/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is what the checkout flow needs from the external identity
// provider: whether the caller is signed in, and who they are if so.
type Identity struct {
	UserID string
	Email  string
}

const identityKey = "identity"

// RequireAuth validates the identity provider bearer token and aborts
// unauthenticated requests.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := parseBearer(c, cfg)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "a valid identity provider token is required", nil, nil)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth validates the bearer token if present but doesn't require it.
// Checkout entry uses this to decide whether the wizard may skip the login step.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := parseBearer(c, cfg); ok {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func parseBearer(c *gin.Context, cfg *config.Config) (Identity, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return Identity{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Identity{}, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	identity := Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.UserID = sub
	} else if userID, ok := claims["user_id"].(string); ok {
		identity.UserID = userID
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	if identity.UserID == "" {
		return Identity{}, false
	}

	return identity, true
}
