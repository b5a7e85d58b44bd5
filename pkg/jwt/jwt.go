package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor quien opera la API. Su ID queda como created_by en movimientos,
// transacciones, facturas y pagos; el rol decide el acceso a los asientos manuales.
type Actor struct {
	ID   string
	Role string // admin | bodeguero | vendedor; vacío = sin rol
}

// Claims claims estándar más el actor. Subject repite ActorID.
type Claims struct {
	jwt.RegisteredClaims
	ActorID string `json:"actor_id"`
	Role    string `json:"role,omitempty"`
}

// Generate firma un token HS256 para el actor con vigencia ttl.
// Los tokens reales los emite el servicio de identidad; aquí lo usan cmd/seed y los tests.
func Generate(secret string, actor Actor, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if actor.ID == "" {
		return "", fmt.Errorf("jwt: actor requerido")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ActorID: actor.ID,
		Role:    actor.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y vigencia y devuelve el actor.
// Sin claim actor_id se toma el subject.
func Parse(secret, tokenString string) (Actor, error) {
	if secret == "" {
		return Actor{}, fmt.Errorf("jwt: secret vacío")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Actor{}, err
	}
	if !token.Valid {
		return Actor{}, fmt.Errorf("jwt: token inválido")
	}
	id := claims.ActorID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return Actor{}, fmt.Errorf("jwt: token sin actor")
	}
	return Actor{ID: id, Role: claims.Role}, nil
}
