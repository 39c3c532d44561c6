package firestore

import (
	"context"
	"fmt"
	"sort"

	fs "cloud.google.com/go/firestore"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

var (
	_ repository.TeamRepository   = (*teamRepo)(nil)
	_ repository.PlayerRepository = (*playerRepo)(nil)
	_ repository.UserRepository   = (*userRepo)(nil)
)

// decode lee un snapshot al record T y le asigna el id del documento.
func decode[T any](snap *fs.DocumentSnapshot, setID func(*T, string)) (*T, error) {
	var rec T
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("firestore: decodificar %s: %w", snap.Ref.Path, err)
	}
	setID(&rec, snap.Ref.ID)
	return &rec, nil
}

// ── teams ────────────────────────────────────────────────────────────────────

type teamRepo struct {
	c *fs.Client
	a access
}

func (r *teamRepo) col() *fs.CollectionRef { return r.c.Collection(docstore.Teams) }

func (r *teamRepo) decode(snap *fs.DocumentSnapshot) (*entity.Team, error) {
	rec, err := decode(snap, func(t *docstore.TeamRecord, id string) { t.ID = id })
	if err != nil {
		return nil, err
	}
	return rec.Entity(), nil
}

func (r *teamRepo) List(ctx context.Context) ([]*entity.Team, error) {
	snaps, err := r.a.query(ctx, r.col().OrderBy("createdAt", fs.Desc))
	if err != nil {
		return nil, fmt.Errorf("firestore: listar equipos: %w", err)
	}
	out := make([]*entity.Team, 0, len(snaps))
	for _, snap := range snaps {
		t, err := r.decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	if id == "" {
		return nil, nil
	}
	snap, err := getDoc(ctx, r.a, r.col().Doc(id))
	if err != nil || snap == nil {
		return nil, err
	}
	return r.decode(snap)
}

func (r *teamRepo) Create(ctx context.Context, team *entity.Team) error {
	ref := r.col().NewDoc()
	if err := r.a.create(ctx, ref, docstore.FromTeam(team)); err != nil {
		return fmt.Errorf("firestore: crear equipo: %w", err)
	}
	team.ID = ref.ID
	return nil
}

func (r *teamRepo) Update(ctx context.Context, team *entity.Team) error {
	return mapWriteErr("actualizar equipo", r.a.update(ctx, r.col().Doc(team.ID), teamFields(docstore.FromTeam(team))))
}

func (r *teamRepo) Delete(ctx context.Context, id string) error {
	return mapWriteErr("eliminar equipo", r.a.delete(ctx, r.col().Doc(id)))
}

// ── players ──────────────────────────────────────────────────────────────────

type playerRepo struct {
	c *fs.Client
	a access
}

func (r *playerRepo) col() *fs.CollectionRef { return r.c.Collection(docstore.Players) }

func (r *playerRepo) decodeAll(snaps []*fs.DocumentSnapshot) ([]*entity.Player, error) {
	out := make([]*entity.Player, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := decode(snap, func(p *docstore.PlayerRecord, id string) { p.ID = id })
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Entity())
	}
	return out, nil
}

// List con filtro por equipo ordena en memoria: where + orderBy sobre campos distintos exigiría un
// índice compuesto.
func (r *playerRepo) List(ctx context.Context, filter repository.PlayerFilter) ([]*entity.Player, error) {
	q := r.col().Query
	if filter.TeamID != "" {
		q = q.Where("teamId", "==", filter.TeamID)
	} else {
		q = q.OrderBy("createdAt", fs.Desc)
	}
	snaps, err := r.a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("firestore: listar jugadores: %w", err)
	}
	out, err := r.decodeAll(snaps)
	if err != nil {
		return nil, err
	}
	if filter.TeamID != "" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		return nil, nil
	}
	snap, err := getDoc(ctx, r.a, r.col().Doc(id))
	if err != nil || snap == nil {
		return nil, err
	}
	out, err := r.decodeAll([]*fs.DocumentSnapshot{snap})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *playerRepo) first(ctx context.Context, field, value string) (*entity.Player, error) {
	snaps, err := r.a.query(ctx, r.col().Where(field, "==", value).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("firestore: buscar jugador por %s: %w", field, err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	out, err := r.decodeAll(snaps)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *playerRepo) FindByDNI(ctx context.Context, dni string) (*entity.Player, error) {
	return r.first(ctx, "dni", dni)
}

func (r *playerRepo) ExistsByTeam(ctx context.Context, teamID string) (bool, error) {
	p, err := r.first(ctx, "teamId", teamID)
	return p != nil, err
}

func (r *playerRepo) Create(ctx context.Context, player *entity.Player) error {
	ref := r.col().NewDoc()
	if err := r.a.create(ctx, ref, docstore.FromPlayer(player)); err != nil {
		return fmt.Errorf("firestore: crear jugador: %w", err)
	}
	player.ID = ref.ID
	return nil
}

func (r *playerRepo) Update(ctx context.Context, player *entity.Player) error {
	return mapWriteErr("actualizar jugador", r.a.update(ctx, r.col().Doc(player.ID), playerFields(docstore.FromPlayer(player))))
}

func (r *playerRepo) Delete(ctx context.Context, id string) error {
	return mapWriteErr("eliminar jugador", r.a.delete(ctx, r.col().Doc(id)))
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct {
	c *fs.Client
	a access
}

func (r *userRepo) col() *fs.CollectionRef { return r.c.Collection(docstore.Users) }

func (r *userRepo) decodeAll(snaps []*fs.DocumentSnapshot) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := decode(snap, func(u *docstore.UserRecord, id string) { u.ID = id })
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Entity())
	}
	return out, nil
}

func (r *userRepo) List(ctx context.Context) ([]*entity.User, error) {
	snaps, err := r.a.query(ctx, r.col().OrderBy("createdAt", fs.Desc))
	if err != nil {
		return nil, fmt.Errorf("firestore: listar usuarios: %w", err)
	}
	return r.decodeAll(snaps)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, nil
	}
	snap, err := getDoc(ctx, r.a, r.col().Doc(id))
	if err != nil || snap == nil {
		return nil, err
	}
	out, err := r.decodeAll([]*fs.DocumentSnapshot{snap})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	snaps, err := r.a.query(ctx, r.col().Where("email", "==", email).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("firestore: buscar usuario por email: %w", err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	out, err := r.decodeAll(snaps)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *userRepo) ExistsTeamAdmin(ctx context.Context, teamID string) (bool, error) {
	snaps, err := r.a.query(ctx, r.col().
		Where("role", "==", entity.RoleTeamAdmin).
		Where("teamId", "==", teamID).
		Limit(1))
	if err != nil {
		return false, fmt.Errorf("firestore: buscar team_admin: %w", err)
	}
	return len(snaps) > 0, nil
}

// Count lee los documentos: las agregaciones no se pueden usar dentro de una transacción.
func (r *userRepo) Count(ctx context.Context) (int, error) {
	snaps, err := r.a.query(ctx, r.col().Query)
	if err != nil {
		return 0, fmt.Errorf("firestore: contar usuarios: %w", err)
	}
	return len(snaps), nil
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	ref := r.col().NewDoc()
	if err := r.a.create(ctx, ref, docstore.FromUser(user)); err != nil {
		return fmt.Errorf("firestore: crear usuario: %w", err)
	}
	user.ID = ref.ID
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	return mapWriteErr("actualizar usuario", r.a.update(ctx, r.col().Doc(user.ID), userFields(docstore.FromUser(user))))
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return mapWriteErr("eliminar usuario", r.a.delete(ctx, r.col().Doc(id)))
}

// ── campos para Update ───────────────────────────────────────────────────────

// A diferencia de Set, Update falla con NotFound si el documento ya no existe: una escritura fuera de
// transacción no puede recrear un registro borrado.

func teamFields(r docstore.TeamRecord) []fs.Update {
	return []fs.Update{
		{Path: "name", Value: r.Name},
		{Path: "createdAt", Value: r.CreatedAt},
	}
}

func playerFields(r docstore.PlayerRecord) []fs.Update {
	return []fs.Update{
		{Path: "firstName", Value: r.FirstName},
		{Path: "lastName", Value: r.LastName},
		{Path: "birthDate", Value: r.BirthDate},
		{Path: "dni", Value: r.DNI},
		optional("photoUrl", r.PhotoURL),
		{Path: "teamId", Value: r.TeamID},
		{Path: "createdAt", Value: r.CreatedAt},
	}
}

func userFields(r docstore.UserRecord) []fs.Update {
	return []fs.Update{
		{Path: "email", Value: r.Email},
		{Path: "password", Value: r.Password},
		{Path: "name", Value: r.Name},
		{Path: "role", Value: r.Role},
		optional("teamId", r.TeamID),
		{Path: "createdAt", Value: r.CreatedAt},
	}
}

// optional borra el campo si v está vacío, igual que omitempty al crear.
func optional(path, v string) fs.Update {
	if v == "" {
		return fs.Update{Path: path, Value: fs.Delete}
	}
	return fs.Update{Path: path, Value: v}
}
