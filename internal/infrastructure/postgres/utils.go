package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
)

// Índices únicos creados por las migraciones.
const (
	uniqueUserEmail = "documents_users_email_key"
	uniquePlayerDNI = "documents_players_dni_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapUniqueViolation traduce la violación de un índice único al error de dominio correspondiente.
// Devuelve nil si err no es una violación conocida.
func mapUniqueViolation(err error) error {
	if err == nil || !isUniqueViolation(err) {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case uniqueUserEmail:
			return domain.ErrDuplicateEmail
		case uniquePlayerDNI:
			return domain.ErrDuplicateDNI
		}
	}
	return nil
}
