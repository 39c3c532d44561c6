package repository

import "context"

// Collections agrupa los repositorios de las tres colecciones de documentos.
type Collections interface {
	Teams() TeamRepository
	Players() PlayerRepository
	Users() UserRepository
}

// Store es un backend de colecciones con soporte de transacciones.
//
// RunInTx ejecuta fn con repositorios atados a la transacción: si fn devuelve error no se persiste
// nada. Dentro de fn todas las lecturas deben hacerse antes de la primera escritura (requisito de
// Firestore). Los backends pueden reintentar fn ante conflictos, por lo que fn no debe tener
// efectos fuera de tx.
type Store interface {
	Collections
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Collections) error) error
	Close() error
}
