package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/parkspot/parking-service/internal/models"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// Authenticate verifies the Bearer token and stashes the caller's id and
// role in the echo context.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			fields := strings.Fields(header)
			if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(fields[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			sub, okSub := claims["sub"].(string)
			role, okRole := claims["role"].(string)
			if !okSub || !okRole {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed token claims")
			}

			c.Set(UserIDKey, sub)
			c.Set(UserRoleKey, role)
			return next(c)
		}
	}
}

// RequireRole rejects callers whose token role does not match. Chain after
// Authenticate.
func RequireRole(role models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, _ := c.Get(UserRoleKey).(string)
			if got != string(role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
