package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"library-ledger/internal/ledger"
	"library-ledger/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

func extractClaims(c echo.Context) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	tokenString := parts[1]
	claims, err := service.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}
	return claims, nil
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := extractClaims(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

// RequireLibrarian 僅允許館員
func RequireLibrarian(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireAuth(func(c echo.Context) error {
		actor, _ := ActorFrom(c)
		if !actor.IsLibrarian() {
			return echo.NewHTTPError(http.StatusForbidden, "librarian privileges required")
		}
		return next(c)
	})
}

// ActorFrom 取出 RequireAuth 放入的身分；未經認證時 ok 為 false
func ActorFrom(c echo.Context) (ledger.Actor, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	if !ok || claims == nil {
		return ledger.Actor{}, false
	}
	return ledger.Actor{BorrowerID: claims.BorrowerID, Role: claims.Role}, true
}
