package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

// documents acceso genérico a una colección de la tabla documents. R es el record de docstore;
// pgx codifica y decodifica el JSONB con encoding/json.
type documents[R any] struct {
	q          Querier
	collection string
	// setID copia el id de la fila al record (el id no se guarda dentro de data).
	setID func(*R, string)
}

// where es un fragmento SQL opcional cuyos parámetros empiezan en $2 ($1 es la colección).
func (d documents[R]) list(ctx context.Context, where string, args ...any) ([]R, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	if where != "" {
		query += " AND " + where
	}
	query += ` ORDER BY created_at DESC, id`
	rows, err := d.q.Query(ctx, query, append([]any{d.collection}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.collection, err)
	}
	defer rows.Close()

	var out []R
	for rows.Next() {
		var (
			id  string
			rec R
		)
		if err := rows.Scan(&id, &rec); err != nil {
			return nil, fmt.Errorf("scan %s: %w", d.collection, err)
		}
		d.setID(&rec, id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows %s: %w", d.collection, err)
	}
	return out, nil
}

// one devuelve nil sin error si no hay fila.
func (d documents[R]) one(ctx context.Context, where string, args ...any) (*R, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1 AND ` + where + ` LIMIT 1`
	var (
		id  string
		rec R
	)
	err := d.q.QueryRow(ctx, query, append([]any{d.collection}, args...)...).Scan(&id, &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.collection, err)
	}
	d.setID(&rec, id)
	return &rec, nil
}

func (d documents[R]) get(ctx context.Context, id string) (*R, error) {
	if id == "" {
		return nil, nil
	}
	return d.one(ctx, `id = $2`, id)
}

func (d documents[R]) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND ` + where + `)`
	if err := d.q.QueryRow(ctx, query, append([]any{d.collection}, args...)...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", d.collection, err)
	}
	return ok, nil
}

func (d documents[R]) count(ctx context.Context) (int, error) {
	var n int
	err := d.q.QueryRow(ctx, `SELECT count(*) FROM documents WHERE collection = $1`, d.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", d.collection, err)
	}
	return n, nil
}

// insert genera el id si viene vacío y lo devuelve.
func (d documents[R]) insert(ctx context.Context, id string, createdAt int64, rec R) (string, error) {
	if id == "" {
		id = docstore.NewID()
	}
	d.setID(&rec, "")
	_, err := d.q.Exec(ctx,
		`INSERT INTO documents (collection, id, data, created_at) VALUES ($1, $2, $3, $4)`,
		d.collection, id, rec, createdAt)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return "", dup
		}
		return "", fmt.Errorf("insert %s: %w", d.collection, err)
	}
	return id, nil
}

func (d documents[R]) update(ctx context.Context, id string, createdAt int64, rec R) error {
	d.setID(&rec, "")
	tag, err := d.q.Exec(ctx,
		`UPDATE documents SET data = $3, created_at = $4 WHERE collection = $1 AND id = $2`,
		d.collection, id, rec, createdAt)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update %s: %w", d.collection, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (d documents[R]) delete(ctx context.Context, id string) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, d.collection, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", d.collection, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// field devuelve la expresión SQL de un campo de texto del documento (nombres fijos, no de usuario).
func field(name string) string {
	return "data->>'" + strings.ReplaceAll(name, "'", "") + "'"
}
