package ports

import "context"

// KeyValueStore persistencia local clave/valor (sesión del cliente, respaldo sin base de datos).
type KeyValueStore interface {
	// Get devuelve ok=false si la clave no existe.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
