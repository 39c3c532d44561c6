package password

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hash genera un hash bcrypt con el costo por defecto.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// IsHash indica si stored tiene formato bcrypt.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// Verify compara plain contra lo almacenado. Los registros antiguos guardan la contraseña en texto
// plano: en ese caso ok=true va acompañado de legacy=true para que el llamador la rehashee.
func Verify(stored, plain string) (ok, legacy bool) {
	if stored == "" {
		return false, false
	}
	if IsHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1, true
}
