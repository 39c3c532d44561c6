package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
)

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"email", &pgconn.PgError{Code: "23505", ConstraintName: uniqueUserEmail}, domain.ErrDuplicateEmail},
		{"dni envuelto", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: uniquePlayerDNI}), domain.ErrDuplicateDNI},
		{"otro índice", &pgconn.PgError{Code: "23505", ConstraintName: "documents_pkey"}, nil},
		{"otro código", &pgconn.PgError{Code: "23503"}, nil},
		{"no pg", errors.New("boom"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapUniqueViolation(tt.err))
		})
	}
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}
