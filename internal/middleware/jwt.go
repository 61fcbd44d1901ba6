package middleware // middleware contains reusable HTTP middleware for the API

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request
// context.  Handlers behind it read the authenticated identity via
// c.Get("user_id") (uint64) and c.Get("role") (string).  Requests without
// a valid token are rejected with 401; this middleware guards the
// reservation and user surface where authentication is mandatory.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, ok := bearerClaims(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
			}
			c.Set("user_id", userID)
			c.Set("role", role)
			return next(c)
		}
	}
}

// bearerClaims parses the Authorization header and returns the subject
// and role claims.  ok is false when the header is absent, the signature
// is wrong, the token is expired, or the claims are malformed.
func bearerClaims(c echo.Context, secret string) (userID uint64, role string, ok bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, okClaims := tok.Claims.(jwt.MapClaims)
	if !okClaims {
		return 0, "", false
	}

	// JWT numbers decode as float64; string subjects come from other
	// issuers and are parsed defensively.
	switch sub := claims["sub"].(type) {
	case float64:
		userID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return 0, "", false
		}
		userID = n
	default:
		return 0, "", false
	}
	role, _ = claims["role"].(string)
	return userID, role, userID != 0
}
