// Package shared
package shared

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ExtractAPIKey pulls the bearer token off the Authorization header. Used
// only to guard the metrics endpoint; the RPC surface itself is open.
func ExtractAPIKey(c echo.Context) (string, error) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return "", ErrMissingAuth
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrInvalidFormat
	}

	return parts[1], nil
}
