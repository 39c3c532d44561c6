// Package session conserva la identidad autenticada del cliente entre ejecuciones.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// Key clave fija bajo la que se guarda la sesión.
const Key = "liga_formativa_current_user"

// Store ciclo de vida explícito de la sesión: Load al iniciar, Save al hacer login o refrescar,
// Clear al cerrar sesión. Nunca guarda contraseñas porque entity.Session no las tiene.
type Store struct {
	kv ports.KeyValueStore

	mu      sync.RWMutex
	current *entity.Session
}

// New construye el store sobre un almacenamiento clave/valor.
func New(kv ports.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Load lee la sesión persistida. Un valor ilegible se descarta y se trata como sin sesión.
func (s *Store) Load(ctx context.Context) (*entity.Session, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("leer sesión: %w", err)
	}
	var sess *entity.Session
	if ok {
		var decoded entity.Session
		if err := json.Unmarshal(raw, &decoded); err == nil && decoded.ID != "" {
			sess = &decoded
		} else if err := s.kv.Delete(ctx, Key); err != nil {
			return nil, fmt.Errorf("descartar sesión inválida: %w", err)
		}
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess, nil
}

// Save persiste sess y la deja como sesión actual.
func (s *Store) Save(ctx context.Context, sess *entity.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("sesión vacía")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("codificar sesión: %w", err)
	}
	if err := s.kv.Put(ctx, Key, raw); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	cp := *sess
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
	return nil
}

// Clear borra la sesión persistida y la actual.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	return nil
}

// Current sesión en memoria (nil si no hay). Devuelve una copia.
func (s *Store) Current() *entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}
