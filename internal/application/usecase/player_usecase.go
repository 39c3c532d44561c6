package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
)

// PhotoProcessor prepara y publica una foto, devolviendo su URL definitiva.
// Check rechaza sin efectos una foto que Process rechazaría por tamaño.
type PhotoProcessor interface {
	Check(data []byte) error
	Process(ctx context.Context, name string, data []byte) (string, error)
}

// LinkResolver convierte enlaces para compartir de fotos en la URL directa de la imagen.
type LinkResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// PlayerUseCase gestión de jugadores con alcance por equipo para team_admin.
//
// Si se adjunta foto, se sube antes de escribir: un fallo en la foto aborta el guardado sin dejar
// registros a medias. Los guardados tienen un límite de tiempo y un vencimiento significa
// resultado desconocido (ErrOperationTimeout). Envíos idénticos simultáneos de la misma sesión se
// ejecutan una sola vez.
type PlayerUseCase struct {
	store   repository.Store
	photos  PhotoProcessor
	cfg     LeagueConfig
	clock   clockwork.Clock
	log     *logger.Logger
	metrics ports.Metrics
	links   LinkResolver

	inflight singleflight.Group
}

// NewPlayerUseCase construye el caso de uso. photos puede ser nil si no hay host de imágenes.
func NewPlayerUseCase(store repository.Store, photos PhotoProcessor, cfg LeagueConfig, clock clockwork.Clock, log *logger.Logger, metrics ports.Metrics) *PlayerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PlayerUseCase{store: store, photos: photos, cfg: cfg, clock: clock, log: log, metrics: metrics}
}

// WithLinkResolver habilita la resolución de photoUrl que sean enlaces para compartir.
func (uc *PlayerUseCase) WithLinkResolver(r LinkResolver) *PlayerUseCase {
	uc.links = r
	return uc
}

// resolvePhotoURL si falla la resolución se conserva la URL tal cual.
func (uc *PlayerUseCase) resolvePhotoURL(ctx context.Context, raw string) string {
	if uc.links == nil || raw == "" {
		return raw
	}
	direct, err := uc.links.Resolve(ctx, raw)
	if err != nil {
		uc.log.Warn().Err(err).Str("url", raw).Msg("no se pudo resolver el enlace de la foto")
		return raw
	}
	return direct
}

// ListPlayers lista jugadores visibles para la sesión. team_admin ve solo su equipo sin importar
// el filtro pedido; q.Search busca en nombre, apellido y DNI ignorando tildes.
func (uc *PlayerUseCase) ListPlayers(ctx context.Context, s *entity.Session, q dto.PlayerListQuery) ([]dto.PlayerResponse, error) {
	teamID, err := authz.PlayerScope(s, q.TeamID)
	if err != nil {
		return nil, err
	}
	players, err := uc.store.Players().List(ctx, repository.PlayerFilter{TeamID: teamID})
	if err != nil {
		return nil, fmt.Errorf("listar jugadores: %w", err)
	}
	names, err := TeamNames(ctx, uc.store.Teams())
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlayerResponse, 0, len(players))
	for _, p := range players {
		if q.Search != "" && !textutil.ContainsFolded(q.Search, p.FirstName, p.LastName, p.DNI, p.FullName()) {
			continue
		}
		out = append(out, ToPlayerResponse(p, names, s))
	}
	return out, nil
}

// GetPlayer obtiene un jugador; ErrNotFound si no existe.
func (uc *PlayerUseCase) GetPlayer(ctx context.Context, s *entity.Session, id string) (*dto.PlayerResponse, error) {
	p, err := uc.store.Players().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener jugador: %w", err)
	}
	if err := authz.Authorize(s, authz.ViewPlayer, p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respond(ctx, s, p)
}

// CreatePlayer alta de jugador con foto opcional.
func (uc *PlayerUseCase) CreatePlayer(ctx context.Context, s *entity.Session, in dto.CreatePlayerRequest, photo *dto.PlayerPhoto) (resp *dto.PlayerResponse, err error) {
	defer func() { uc.metrics.RecordSaved("players", "create", outcome(err)) }()

	if authz.IsTeamAdmin(s) && in.TeamID == "" {
		in.TeamID = s.TeamID
	}
	if err := authz.Authorize(s, authz.CreatePlayer, &entity.Player{TeamID: in.TeamID}); err != nil {
		return nil, err
	}
	in.FirstName = textutil.Clean(in.FirstName)
	in.LastName = textutil.Clean(in.LastName)
	in.DNI = textutil.NormalizeDNI(in.DNI)
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := uc.checkPhoto(photo); err != nil {
		return nil, err
	}
	if photo == nil {
		in.PhotoURL = uc.resolvePhotoURL(ctx, in.PhotoURL)
	}

	v, err, _ := uc.inflight.Do(requestKey(s, "create", in, photo), func() (any, error) {
		return uc.create(ctx, in, photo)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, s, v.(*entity.Player))
}

func (uc *PlayerUseCase) create(ctx context.Context, in dto.CreatePlayerRequest, photo *dto.PlayerPhoto) (*entity.Player, error) {
	player := &entity.Player{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
		DNI:       in.DNI,
		PhotoURL:  in.PhotoURL,
		TeamID:    in.TeamID,
		CreatedAt: uc.clock.Now(),
	}
	err := withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		// Comprobación previa para no subir fotos de altas que igual fallarían.
		if err := uc.precheck(ctx, "", player.DNI, player.TeamID); err != nil {
			return err
		}
		if photo != nil {
			url, err := uc.uploadPhoto(ctx, player, photo)
			if err != nil {
				return err
			}
			player.PhotoURL = url
		}
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			if err := checkPlayerConstraints(ctx, tx, "", player.DNI, player.TeamID); err != nil {
				return err
			}
			player.ID = ""
			return tx.Players().Create(ctx, player)
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("player_id", player.ID).Str("team_id", player.TeamID).Msg("jugador creado")
	return player, nil
}

// UpdatePlayer cambios parciales con foto opcional. team_admin no puede mover jugadores fuera de su equipo.
func (uc *PlayerUseCase) UpdatePlayer(ctx context.Context, s *entity.Session, id string, in dto.UpdatePlayerRequest, photo *dto.PlayerPhoto) (resp *dto.PlayerResponse, err error) {
	defer func() { uc.metrics.RecordSaved("players", "update", outcome(err)) }()

	if err := authz.Authorize(s, authz.EditPlayer, nil); err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		v := textutil.Clean(*in.FirstName)
		in.FirstName = &v
	}
	if in.LastName != nil {
		v := textutil.Clean(*in.LastName)
		in.LastName = &v
	}
	if in.DNI != nil {
		v := textutil.NormalizeDNI(*in.DNI)
		in.DNI = &v
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := uc.checkPhoto(photo); err != nil {
		return nil, err
	}
	if in.PhotoURL != nil && photo == nil {
		v := uc.resolvePhotoURL(ctx, *in.PhotoURL)
		in.PhotoURL = &v
	}

	current, err := uc.store.Players().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener jugador: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.Authorize(s, authz.EditPlayer, current); err != nil {
		return nil, err
	}
	if in.TeamID != nil {
		if err := authz.Authorize(s, authz.EditPlayer, &entity.Player{TeamID: *in.TeamID}); err != nil {
			return nil, err
		}
	}

	v, err, _ := uc.inflight.Do(requestKey(s, "update|"+id, in, photo), func() (any, error) {
		return uc.update(ctx, s, current, in, photo)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, s, v.(*entity.Player))
}

func (uc *PlayerUseCase) update(ctx context.Context, s *entity.Session, current *entity.Player, in dto.UpdatePlayerRequest, photo *dto.PlayerPhoto) (*entity.Player, error) {
	apply := func(p *entity.Player) {
		if in.FirstName != nil {
			p.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			p.LastName = *in.LastName
		}
		if in.BirthDate != nil {
			p.BirthDate = *in.BirthDate
		}
		if in.DNI != nil {
			p.DNI = *in.DNI
		}
		if in.TeamID != nil {
			p.TeamID = *in.TeamID
		}
		if in.PhotoURL != nil {
			p.PhotoURL = *in.PhotoURL
		}
	}

	var updated *entity.Player
	err := withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		next := *current
		apply(&next)
		if err := uc.precheck(ctx, current.ID, changed(current.DNI, next.DNI), changed(current.TeamID, next.TeamID)); err != nil {
			return err
		}
		photoURL := ""
		if photo != nil {
			url, err := uc.uploadPhoto(ctx, &next, photo)
			if err != nil {
				return err
			}
			photoURL = url
		}
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			p, err := tx.Players().GetByID(ctx, current.ID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			// El jugador pudo cambiar de equipo desde la primera lectura.
			if !authz.CanEdit(s, p) {
				return domain.ErrForbidden
			}
			prev := *p
			apply(p)
			if photoURL != "" {
				p.PhotoURL = photoURL
			}
			if err := checkPlayerConstraints(ctx, tx, p.ID, changed(prev.DNI, p.DNI), changed(prev.TeamID, p.TeamID)); err != nil {
				return err
			}
			if err := tx.Players().Update(ctx, p); err != nil {
				return err
			}
			updated = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePlayer elimina un jugador que la sesión puede editar.
func (uc *PlayerUseCase) DeletePlayer(ctx context.Context, s *entity.Session, id string) (err error) {
	defer func() { uc.metrics.RecordSaved("players", "delete", outcome(err)) }()

	if err := authz.Authorize(s, authz.DeletePlayer, nil); err != nil {
		return err
	}
	return withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			p, err := tx.Players().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			if err := authz.Authorize(s, authz.DeletePlayer, p); err != nil {
				return err
			}
			return tx.Players().Delete(ctx, id)
		})
	})
}

// requestKey identifica un envío por sesión, operación y contenido: solo se unen envíos idénticos.
func requestKey(s *entity.Session, op string, in any, photo *dto.PlayerPhoto) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(in)
	if photo != nil {
		h.Write([]byte(photo.Filename))
		h.Write([]byte{0})
		h.Write(photo.Data)
	}
	return s.ID + "|" + op + "|" + hex.EncodeToString(h.Sum(nil))
}

// checkPhoto falla antes de cualquier lectura si la foto no se podrá subir.
func (uc *PlayerUseCase) checkPhoto(photo *dto.PlayerPhoto) error {
	if photo == nil {
		return nil
	}
	if uc.photos == nil {
		return fmt.Errorf("host de imágenes: %w", domain.ErrNotConfigured)
	}
	return uc.photos.Check(photo.Data)
}

func (uc *PlayerUseCase) uploadPhoto(ctx context.Context, p *entity.Player, photo *dto.PlayerPhoto) (string, error) {
	if uc.photos == nil {
		return "", fmt.Errorf("host de imágenes: %w", domain.ErrNotConfigured)
	}
	name := p.DNI
	if name == "" {
		name = photo.Filename
	}
	return uc.photos.Process(ctx, name, photo.Data)
}

// precheck valida DNI y equipo fuera de transacción; la comprobación definitiva se repite al escribir.
func (uc *PlayerUseCase) precheck(ctx context.Context, selfID, dni, teamID string) error {
	return checkPlayerConstraints(ctx, uc.store, selfID, dni, teamID)
}

// checkPlayerConstraints DNI único y equipo existente. Valores vacíos no se comprueban.
func checkPlayerConstraints(ctx context.Context, c repository.Collections, selfID, dni, teamID string) error {
	if dni != "" {
		other, err := c.Players().FindByDNI(ctx, dni)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return domain.ErrDuplicateDNI
		}
	}
	return checkTeamExists(ctx, c, teamID)
}

// changed devuelve next si difiere de prev, si no "".
func changed(prev, next string) string {
	if prev == next {
		return ""
	}
	return next
}

func (uc *PlayerUseCase) respond(ctx context.Context, s *entity.Session, p *entity.Player) (*dto.PlayerResponse, error) {
	names := map[string]string{}
	if p.TeamID != "" {
		t, err := uc.store.Teams().GetByID(ctx, p.TeamID)
		if err != nil {
			return nil, fmt.Errorf("obtener equipo: %w", err)
		}
		if t != nil {
			names[t.ID] = t.Name
		}
	}
	resp := ToPlayerResponse(p, names, s)
	return &resp, nil
}
