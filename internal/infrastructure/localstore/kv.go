package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
)

var _ ports.KeyValueStore = (*Store)(nil)

// Get lee el valor crudo de key. ok=false si no existe.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !validKey.MatchString(key) {
		return nil, false, fmt.Errorf("localstore: clave inválida %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("localstore: leer %s: %w", key, err)
	}
	return data, true, nil
}

// Put reemplaza el valor de key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("localstore: clave inválida %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(key, value)
}

// Delete borra key; no falla si no existe.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("localstore: clave inválida %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localstore: borrar %s: %w", key, err)
	}
	return nil
}
