package voicefx

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	controlTokenTTL       = 10 * time.Minute
	controlTokenScope     = "control"
	controlSecretMinBytes = 16
)

// GenerateControlToken mints a short-lived HS256 bearer token for the
// control server.
func GenerateControlToken(secret string) (string, error) {
	if len(secret) < controlSecretMinBytes {
		return "", NewAuthError("control secret too short").AddDetail("min_bytes", controlSecretMinBytes)
	}

	claims := jwt.MapClaims{
		"scope": controlTokenScope,
		"exp":   time.Now().Add(controlTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", NewAuthError("token generation failed: " + err.Error())
	}
	return signed, nil
}

// ValidateControlToken verifies signature, expiry, and scope.
func ValidateControlToken(secret, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, NewAuthError("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return NewAuthError("invalid control token: " + err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return NewAuthError("invalid control token claims")
	}
	if scope, _ := claims["scope"].(string); scope != controlTokenScope {
		return NewAuthError("control token has wrong scope")
	}
	return nil
}
