// Package postgres guarda las colecciones teams, players y users como documentos JSONB en una sola
// tabla, con el mismo formato de documento que Firestore.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Querier lo implementan *pgxpool.Pool y pgx.Tx; los repositorios no distinguen uno de otro.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store backend PostgreSQL sobre la tabla documents.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con un pool ya abierto (ver NewPool y RunMigrations).
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Teams() repository.TeamRepository     { return NewTeamRepository(s.pool) }
func (s *Store) Players() repository.PlayerRepository { return NewPlayerRepository(s.pool) }
func (s *Store) Users() repository.UserRepository     { return NewUserRepository(s.pool) }

// Close cierra el pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

type txCollections struct{ q Querier }

func (c txCollections) Teams() repository.TeamRepository     { return NewTeamRepository(c.q) }
func (c txCollections) Players() repository.PlayerRepository { return NewPlayerRepository(c.q) }
func (c txCollections) Users() repository.UserRepository     { return NewUserRepository(c.q) }
