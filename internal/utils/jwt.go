package utils

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
)

// ExtractUserNameFromToken parses a JWT token to extract name and email
// claims for logging labels. The token is NOT verified; this service does
// no authorization. Returns "unknown" when nothing usable is present.
func ExtractUserNameFromToken(tokenString string) string {
	var name, email string

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	// Parse without verification since we only need to extract info
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "unknown"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "unknown"
	}

	if n, ok := claims["name"].(string); ok && n != "" {
		name = n
	}

	if e, ok := claims["email"].(string); ok && e != "" {
		email = e
	} else if p, ok := claims["phone_number"].(string); ok && p != "" {
		email = p
	}

	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s<%s>", name, email)
	case name != "":
		return name
	case email != "":
		return email
	default:
		return "unknown"
	}
}
