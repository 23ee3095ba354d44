package utils

import (
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tokenString
}

func TestExtractUserNameFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{
			name:   "name and email",
			claims: jwt.MapClaims{"name": "Ada Wong", "email": "ada@example.com"},
			want:   "Ada Wong<ada@example.com>",
		},
		{
			name:   "phone number stands in for email",
			claims: jwt.MapClaims{"name": "Ada Wong", "phone_number": "13800138000"},
			want:   "Ada Wong<13800138000>",
		},
		{
			name:   "name only",
			claims: jwt.MapClaims{"name": "Ada Wong"},
			want:   "Ada Wong",
		},
		{
			name:   "phone number only",
			claims: jwt.MapClaims{"phone_number": "13800138000"},
			want:   "13800138000",
		},
		{
			name:   "no usable claims",
			claims: jwt.MapClaims{},
			want:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUserNameFromToken(signedToken(t, tt.claims)))
		})
	}
}

func TestExtractUserNameFromTokenBearerPrefix(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{"name": "Ada Wong"})
	assert.Equal(t, "Ada Wong", ExtractUserNameFromToken("Bearer "+tokenString))
}

func TestExtractUserNameFromMalformedToken(t *testing.T) {
	assert.Equal(t, "unknown", ExtractUserNameFromToken("invalid.token"))
	assert.Equal(t, "unknown", ExtractUserNameFromToken(""))
}
