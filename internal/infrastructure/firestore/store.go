// Package firestore implementa repository.Store sobre Cloud Firestore (colecciones teams, players y users).
package firestore

import (
	"context"
	"errors"
	"fmt"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Config datos de conexión. CredentialsFile vacío usa las credenciales por defecto del entorno
// (o FIRESTORE_EMULATOR_HOST si está definido).
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Store backend Firestore.
type Store struct {
	client *fs.Client
}

// Open inicializa la app de Firebase y su cliente Firestore.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore: project id vacío: %w", domain.ErrNotConfigured)
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: inicializar firebase: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: cliente: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient envuelve un cliente ya creado (tests contra el emulador).
func NewWithClient(client *fs.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Teams() repository.TeamRepository {
	return &teamRepo{c: s.client, a: clientAccess{}}
}

func (s *Store) Players() repository.PlayerRepository {
	return &playerRepo{c: s.client, a: clientAccess{}}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{c: s.client, a: clientAccess{}}
}

// RunInTx usa RunTransaction: Firestore reintenta fn ante contención, por eso fn no debe tener
// efectos fuera de tx.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Collections) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, t *fs.Transaction) error {
		return fn(ctx, txCollections{c: s.client, a: txAccess{t: t}})
	})
}

// Close cierra el cliente.
func (s *Store) Close() error {
	return s.client.Close()
}

type txCollections struct {
	c *fs.Client
	a access
}

func (t txCollections) Teams() repository.TeamRepository     { return &teamRepo{c: t.c, a: t.a} }
func (t txCollections) Players() repository.PlayerRepository { return &playerRepo{c: t.c, a: t.a} }
func (t txCollections) Users() repository.UserRepository     { return &userRepo{c: t.c, a: t.a} }

// access abstrae si las operaciones van directas al cliente o dentro de una transacción.
type access interface {
	get(ctx context.Context, ref *fs.DocumentRef) (*fs.DocumentSnapshot, error)
	query(ctx context.Context, q fs.Query) ([]*fs.DocumentSnapshot, error)
	create(ctx context.Context, ref *fs.DocumentRef, data any) error
	// update reemplaza los campos de un documento existente; NotFound si no existe.
	update(ctx context.Context, ref *fs.DocumentRef, fields []fs.Update) error
	delete(ctx context.Context, ref *fs.DocumentRef) error
}

type clientAccess struct{}

func (clientAccess) get(ctx context.Context, ref *fs.DocumentRef) (*fs.DocumentSnapshot, error) {
	return ref.Get(ctx)
}

func (clientAccess) query(ctx context.Context, q fs.Query) ([]*fs.DocumentSnapshot, error) {
	return collect(q.Documents(ctx))
}

func (clientAccess) create(ctx context.Context, ref *fs.DocumentRef, data any) error {
	_, err := ref.Create(ctx, data)
	return err
}

func (clientAccess) update(ctx context.Context, ref *fs.DocumentRef, fields []fs.Update) error {
	_, err := ref.Update(ctx, fields)
	return err
}

func (clientAccess) delete(ctx context.Context, ref *fs.DocumentRef) error {
	_, err := ref.Delete(ctx, fs.Exists)
	return err
}

type txAccess struct{ t *fs.Transaction }

func (a txAccess) get(_ context.Context, ref *fs.DocumentRef) (*fs.DocumentSnapshot, error) {
	return a.t.Get(ref)
}

func (a txAccess) query(_ context.Context, q fs.Query) ([]*fs.DocumentSnapshot, error) {
	return collect(a.t.Documents(q))
}

func (a txAccess) create(_ context.Context, ref *fs.DocumentRef, data any) error {
	return a.t.Create(ref, data)
}

func (a txAccess) update(_ context.Context, ref *fs.DocumentRef, fields []fs.Update) error {
	return a.t.Update(ref, fields)
}

func (a txAccess) delete(_ context.Context, ref *fs.DocumentRef) error {
	return a.t.Delete(ref, fs.Exists)
}

func collect(it *fs.DocumentIterator) ([]*fs.DocumentSnapshot, error) {
	defer it.Stop()
	var out []*fs.DocumentSnapshot
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
}

// getDoc devuelve nil sin error si el documento no existe.
func getDoc(ctx context.Context, a access, ref *fs.DocumentRef) (*fs.DocumentSnapshot, error) {
	snap, err := a.get(ctx, ref)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// mapWriteErr traduce NotFound (Update y Delete exigen que el documento exista) al error de dominio.
func mapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return fmt.Errorf("firestore: %s: %w", op, err)
}
