// Package localstore guarda las colecciones como archivos JSON en un directorio local.
// Es el respaldo cuando no hay base de documentos configurada y también el almacenamiento
// clave/valor de la sesión del CLI.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

// Claves fijas de cada colección.
const (
	KeyTeams   = "liga_formativa_teams"
	KeyPlayers = "liga_formativa_players"
	KeyUsers   = "liga_formativa_users"
)

var _ repository.Store = (*Store)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Options parámetros del store local.
type Options struct {
	Dir string
	// Seed usuario que se escribe la primera vez que se leen los usuarios y aún no existe el archivo.
	Seed *entity.User
}

// Store backend de colecciones sobre archivos. Un mutex de proceso serializa todas las operaciones,
// lo que da transacciones con aislamiento total dentro del proceso.
type Store struct {
	mu   sync.Mutex
	dir  string
	seed *entity.User
}

// New crea el directorio si no existe.
func New(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("localstore: directorio vacío")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: crear directorio: %w", err)
	}
	return &Store{dir: opts.Dir, seed: opts.Seed}, nil
}

func (s *Store) Teams() repository.TeamRepository     { return &teamRepo{run: s.autocommit} }
func (s *Store) Players() repository.PlayerRepository { return &playerRepo{run: s.autocommit} }
func (s *Store) Users() repository.UserRepository     { return &userRepo{run: s.autocommit} }

// RunInTx ejecuta fn con el lock tomado; los cambios se escriben solo si fn no devuelve error.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Collections) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &state{store: s}
	run := func(f func(*state) error) error { return f(st) }
	if err := fn(ctx, txCollections{run: run}); err != nil {
		return err
	}
	return st.flush()
}

// Close no libera nada; existe para cumplir repository.Store.
func (s *Store) Close() error { return nil }

// autocommit ejecuta una operación aislada como su propia transacción.
func (s *Store) autocommit(f func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &state{store: s}
	if err := f(st); err != nil {
		return err
	}
	return st.flush()
}

type runner func(func(*state) error) error

type txCollections struct{ run runner }

func (c txCollections) Teams() repository.TeamRepository     { return &teamRepo{run: c.run} }
func (c txCollections) Players() repository.PlayerRepository { return &playerRepo{run: c.run} }
func (c txCollections) Users() repository.UserRepository     { return &userRepo{run: c.run} }

// state copia en memoria de las colecciones leídas durante una transacción.
type state struct {
	store   *Store
	teams   *[]docstore.TeamRecord
	players *[]docstore.PlayerRecord
	users   *[]docstore.UserRecord
	dirty   map[string]bool
}

func (st *state) markDirty(key string) {
	if st.dirty == nil {
		st.dirty = map[string]bool{}
	}
	st.dirty[key] = true
}

func (st *state) loadTeams() (*[]docstore.TeamRecord, error) {
	if st.teams == nil {
		var recs []docstore.TeamRecord
		if _, err := st.store.readJSON(KeyTeams, &recs); err != nil {
			return nil, err
		}
		st.teams = &recs
	}
	return st.teams, nil
}

func (st *state) loadPlayers() (*[]docstore.PlayerRecord, error) {
	if st.players == nil {
		var recs []docstore.PlayerRecord
		if _, err := st.store.readJSON(KeyPlayers, &recs); err != nil {
			return nil, err
		}
		st.players = &recs
	}
	return st.players, nil
}

func (st *state) loadUsers() (*[]docstore.UserRecord, error) {
	if st.users == nil {
		var recs []docstore.UserRecord
		found, err := st.store.readJSON(KeyUsers, &recs)
		if err != nil {
			return nil, err
		}
		if !found && st.store.seed != nil {
			seed := docstore.FromUser(st.store.seed)
			if seed.ID == "" {
				seed.ID = docstore.NewID()
			}
			recs = append(recs, seed)
			st.markDirty(KeyUsers)
		}
		st.users = &recs
	}
	return st.users, nil
}

func (st *state) flush() error {
	for key := range st.dirty {
		var v any
		switch key {
		case KeyTeams:
			v = *st.teams
		case KeyPlayers:
			v = *st.players
		case KeyUsers:
			v = *st.users
		}
		if err := st.store.writeJSON(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// readJSON devuelve found=false si el archivo no existe.
func (s *Store) readJSON(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstore: leer %s: %w", key, err)
	}
	if len(data) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("localstore: decodificar %s: %w", key, err)
	}
	return true, nil
}

// writeJSON escribe en un temporal y renombra para no dejar archivos a medias.
func (s *Store) writeJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: codificar %s: %w", key, err)
	}
	return s.writeFile(key, data)
}

func (s *Store) writeFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("localstore: temporal %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: escribir %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: cerrar %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: renombrar %s: %w", key, err)
	}
	return nil
}
