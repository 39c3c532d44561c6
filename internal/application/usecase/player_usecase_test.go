package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/photo"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
)

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func leoRequest(teamID string) dto.CreatePlayerRequest {
	return dto.CreatePlayerRequest{
		FirstName: "Leo",
		LastName:  "Messi",
		BirthDate: "2015-06-24",
		DNI:       "12.345.678",
		TeamID:    teamID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePlayer_SinFotoApareceEnListado(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	created, err := env.players.CreatePlayer(ctx, super, leoRequest(lions), nil)
	require.NoError(t, err)
	assert.Equal(t, "12345678", created.DNI, "el DNI se normaliza")

	list, err := env.players.ListPlayers(ctx, super, dto.PlayerListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, lions, list[0].TeamID)
	assert.Equal(t, "Lions", list[0].TeamName)
	assert.Empty(t, list[0].PhotoURL)
	assert.True(t, list[0].CanEdit)
	assert.Zero(t, env.host.Calls())
}

func TestCreatePlayer_ConFotoSubeAntesDeGuardar(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	created, err := env.players.CreatePlayer(ctx, super, leoRequest(lions), &dto.PlayerPhoto{Filename: "leo.png", Data: smallPNG(t)})
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/test/12345678.jpg", created.PhotoURL)
	assert.Equal(t, 1, env.host.Calls())
}

func TestCreatePlayer_FotoDemasiadoGrande(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	big := make([]byte, 6*1024*1024)
	_, err := env.players.CreatePlayer(ctx, super, leoRequest(lions), &dto.PlayerPhoto{Filename: "big.jpg", Data: big})
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)
	assert.Zero(t, env.host.Calls(), "no se debe contactar al host")

	list, err := env.players.ListPlayers(ctx, super, dto.PlayerListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list, "no debe quedar registro")
	assert.Contains(t, env.metrics.Saved(), "players/create/photo_failed")
}

// countingStore cuenta cada acceso al almacén.
type countingStore struct {
	repository.Store
	hits atomic.Int32
}

func (s *countingStore) Teams() repository.TeamRepository {
	s.hits.Add(1)
	return s.Store.Teams()
}

func (s *countingStore) Players() repository.PlayerRepository {
	s.hits.Add(1)
	return s.Store.Players()
}

func (s *countingStore) Users() repository.UserRepository {
	s.hits.Add(1)
	return s.Store.Users()
}

func (s *countingStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Collections) error) error {
	s.hits.Add(1)
	return s.Store.RunInTx(ctx, fn)
}

func TestFotoDemasiadoGrande_NoTocaElAlmacen(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	existing := env.createPlayer(t, super, "Leo", "12345678", lions)

	counted := &countingStore{Store: env.store}
	players := usecase.NewPlayerUseCase(counted, photo.New(photo.DefaultConfig(), env.host, nil), env.cfg, env.clock, nil, nil)
	big := &dto.PlayerPhoto{Filename: "big.jpg", Data: make([]byte, 6*1024*1024)}

	// Mismo DNI que un jugador existente: igual gana el error de tamaño.
	_, err := players.CreatePlayer(ctx, super, leoRequest(lions), big)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)

	_, err = players.UpdatePlayer(ctx, super, existing.ID, dto.UpdatePlayerRequest{FirstName: ptr("Leonel")}, big)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)

	_, err = players.UpdatePlayer(ctx, super, "no-existe", dto.UpdatePlayerRequest{LastName: ptr("X")}, big)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)

	assert.Zero(t, counted.hits.Load(), "el almacén no debe consultarse")
	assert.Zero(t, env.host.Calls())
}

func TestCreatePlayer_SinHostConfigurado(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	players := usecase.NewPlayerUseCase(env.store, nil, env.cfg, env.clock, nil, nil)
	_, err := players.CreatePlayer(ctx, super, leoRequest(lions), &dto.PlayerPhoto{Filename: "leo.png", Data: smallPNG(t)})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	// Sin foto el alta funciona igual.
	_, err = players.CreatePlayer(ctx, super, leoRequest(lions), nil)
	assert.NoError(t, err)
}

func TestCreatePlayer_Validaciones(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	env.createPlayer(t, super, "Leo", "12345678", lions)

	_, err := env.players.CreatePlayer(ctx, super, leoRequest(lions), nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateDNI, "12.345.678 y 12345678 son el mismo DNI")

	req := leoRequest(lions)
	req.DNI = "999"
	req.BirthDate = "24/06/2015"
	_, err = env.players.CreatePlayer(ctx, super, req, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = leoRequest("no-existe")
	req.DNI = "999"
	_, err = env.players.CreatePlayer(ctx, super, req, nil)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance de team_admin
// ──────────────────────────────────────────────────────────────────────────────

func TestTeamAdmin_Alcance(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	tigers := env.createTeam(t, super, "Tigers")
	env.createPlayer(t, super, "Leo", "1", lions)
	tiger := env.createPlayer(t, super, "Tom", "2", tigers)
	ta := env.createUser(t, super, "ta@liga.com", entity.RoleTeamAdmin, lions)

	// El filtro pedido se ignora: siempre su equipo.
	list, err := env.players.ListPlayers(ctx, ta, dto.PlayerListQuery{TeamID: tigers})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, lions, list[0].TeamID)

	// Alta sin teamId: se asigna su equipo.
	req := leoRequest("")
	req.DNI = "3"
	created, err := env.players.CreatePlayer(ctx, ta, req, nil)
	require.NoError(t, err)
	assert.Equal(t, lions, created.TeamID)

	req.DNI = "4"
	req.TeamID = tigers
	_, err = env.players.CreatePlayer(ctx, ta, req, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.players.UpdatePlayer(ctx, ta, tiger.ID, dto.UpdatePlayerRequest{FirstName: ptr("X")}, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.players.UpdatePlayer(ctx, ta, created.ID, dto.UpdatePlayerRequest{TeamID: ptr(tigers)}, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden, "no puede mover jugadores fuera de su equipo")

	assert.ErrorIs(t, env.players.DeletePlayer(ctx, ta, tiger.ID), domain.ErrForbidden)

	// Ve el jugador de otro equipo pero sin poder editarlo.
	got, err := env.players.GetPlayer(ctx, ta, tiger.ID)
	require.NoError(t, err)
	assert.False(t, got.CanEdit)
}

func TestViewer_SoloLectura(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	p := env.createPlayer(t, super, "Leo", "1", lions)
	viewer := env.createUser(t, super, "viewer@liga.com", entity.RoleViewer, "")

	list, err := env.players.ListPlayers(ctx, viewer, dto.PlayerListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].CanEdit)

	req := leoRequest(lions)
	req.DNI = "2"
	_, err = env.players.CreatePlayer(ctx, viewer, req, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.players.UpdatePlayer(ctx, viewer, p.ID, dto.UpdatePlayerRequest{FirstName: ptr("X")}, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.players.ListPlayers(ctx, nil, dto.PlayerListQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePlayer_CambiosParciales(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	tigers := env.createTeam(t, super, "Tigers")
	p := env.createPlayer(t, super, "Leo", "1", lions)
	other := env.createPlayer(t, super, "Tom", "2", lions)

	resp, err := env.players.UpdatePlayer(ctx, super, p.ID, dto.UpdatePlayerRequest{
		LastName: ptr("Gómez"),
		TeamID:   ptr(tigers),
	}, &dto.PlayerPhoto{Filename: "leo.png", Data: smallPNG(t)})
	require.NoError(t, err)
	assert.Equal(t, "Leo", resp.FirstName)
	assert.Equal(t, "Gómez", resp.LastName)
	assert.Equal(t, "Tigers", resp.TeamName)
	assert.Equal(t, "https://i.ibb.co/test/1.jpg", resp.PhotoURL)

	_, err = env.players.UpdatePlayer(ctx, super, other.ID, dto.UpdatePlayerRequest{DNI: ptr("1")}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateDNI)

	_, err = env.players.UpdatePlayer(ctx, super, "no-existe", dto.UpdatePlayerRequest{FirstName: ptr("X")}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := env.players.ListPlayers(ctx, super, dto.PlayerListQuery{Search: "gomez"})
	require.NoError(t, err)
	require.Len(t, found, 1, "la búsqueda ignora tildes")
	assert.Equal(t, p.ID, found[0].ID)
}

func TestDeletePlayer(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	p := env.createPlayer(t, super, "Leo", "1", lions)

	require.NoError(t, env.players.DeletePlayer(ctx, super, p.ID))
	assert.ErrorIs(t, env.players.DeletePlayer(ctx, super, p.ID), domain.ErrNotFound)
	_, err := env.players.GetPlayer(ctx, super, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type fakeLinks map[string]string

func (f fakeLinks) Resolve(ctx context.Context, raw string) (string, error) {
	if direct, ok := f[raw]; ok {
		return direct, nil
	}
	return raw, nil
}

func TestCreatePlayer_ResuelveEnlaceCompartido(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	env.players.WithLinkResolver(fakeLinks{"https://ibb.co/LdLWNxsb": "https://i.ibb.co/VphWH9ZW/foto.jpg"})

	req := leoRequest(lions)
	req.PhotoURL = "https://ibb.co/LdLWNxsb"
	created, err := env.players.CreatePlayer(ctx, super, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/VphWH9ZW/foto.jpg", created.PhotoURL)
	assert.Zero(t, env.host.Calls())
}

// ──────────────────────────────────────────────────────────────────────────────
// Envíos simultáneos
// ──────────────────────────────────────────────────────────────────────────────

// gateHost bloquea la subida hasta que el test la libera.
type gateHost struct {
	entered chan struct{}
	release chan struct{}
}

func (h *gateHost) Upload(ctx context.Context, b64, name string) (string, error) {
	h.entered <- struct{}{}
	<-h.release
	return "https://i.ibb.co/test/" + name + ".jpg", nil
}

func newGate() *gateHost {
	return &gateHost{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func TestUpdatePlayer_SimultaneosDistintosNoSePierden(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")
	p := env.createPlayer(t, super, "Leo", "1", lions)

	gate := newGate()
	players := usecase.NewPlayerUseCase(env.store, photo.New(photo.DefaultConfig(), gate, nil), env.cfg, env.clock, nil, nil)

	pic := &dto.PlayerPhoto{Filename: "a.png", Data: smallPNG(t)}
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = players.UpdatePlayer(ctx, super, p.ID, dto.UpdatePlayerRequest{FirstName: ptr("Alpha")}, pic)
	}()

	select {
	case <-gate.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("la primera edición no llegó a subir la foto")
	}

	second, err := players.UpdatePlayer(ctx, super, p.ID, dto.UpdatePlayerRequest{LastName: ptr("Beta")}, nil)
	require.NoError(t, err, "la segunda edición no debe esperar ni unirse a la primera")
	assert.Equal(t, "Beta", second.LastName)

	close(gate.release)
	wg.Wait()
	require.NoError(t, firstErr)

	got, err := env.players.GetPlayer(ctx, super, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.FirstName)
	assert.Equal(t, "Beta", got.LastName)
	assert.Equal(t, "https://i.ibb.co/test/1.jpg", got.PhotoURL)
}

func TestCreatePlayer_SimultaneosMismoDNIDistintosDatos(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	super := env.superSession(t)
	lions := env.createTeam(t, super, "Lions")

	gate := newGate()
	players := usecase.NewPlayerUseCase(env.store, photo.New(photo.DefaultConfig(), gate, nil), env.cfg, env.clock, nil, nil)

	pic := &dto.PlayerPhoto{Filename: "a.png", Data: smallPNG(t)}
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = players.CreatePlayer(ctx, super, leoRequest(lions), pic)
	}()

	select {
	case <-gate.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("la primera alta no llegó a subir la foto")
	}

	other := leoRequest(lions)
	other.FirstName = "Otro"
	created, err := players.CreatePlayer(ctx, super, other, nil)
	require.NoError(t, err, "datos distintos no comparten resultado")
	assert.Equal(t, "Otro", created.FirstName)

	close(gate.release)
	wg.Wait()
	assert.ErrorIs(t, firstErr, domain.ErrDuplicateDNI)

	list, err := env.players.ListPlayers(ctx, super, dto.PlayerListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Otro", list[0].FirstName)
}
