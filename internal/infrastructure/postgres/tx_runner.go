package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
)

// txLockKey clave del advisory lock que serializa las transacciones de escritura: las reglas que
// dependen de ausencia (email libre, no es el último usuario) no quedan cubiertas solo con índices.
const txLockKey int64 = 0x6c696761

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Collections) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, txLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	if err := fn(ctx, txCollections{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
