package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
	"github.com/jhoicas/liga-formativa-api/pkg/validation"
)

// SuperAdminName nombre con el que se crea el superadministrador.
const SuperAdminName = "Administrador Principal"

// LeagueConfig parámetros propios de la liga compartidos por los casos de uso.
type LeagueConfig struct {
	SuperAdminEmail    string
	SuperAdminPassword string
	SaveTimeout        time.Duration // 0 = sin límite
}

// SuperEmail email reservado normalizado.
func (c LeagueConfig) SuperEmail() string {
	return textutil.NormalizeEmail(c.SuperAdminEmail)
}

// validate aplica los tags de la request y devuelve ErrInvalidInput con el detalle por campo.
func validate(req any) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// withSaveTimeout ejecuta fn bajo el límite de guardado. Si vence, el resultado real es desconocido:
// la escritura pudo haberse completado igual.
func withSaveTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(ctx)
	if errors.Is(err, context.DeadlineExceeded) || (err != nil && ctx.Err() == context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrOperationTimeout, err)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrOperationTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "denied"
	case errors.Is(err, domain.ErrImageTooLarge), errors.Is(err, domain.ErrUploadFailed),
		errors.Is(err, domain.ErrUnsupportedImage):
		return "photo_failed"
	default:
		return "error"
	}
}

// ToUserResponse marca al superadministrador por su email y le fuerza el rol admin.
func ToUserResponse(u *entity.User, superEmail string) dto.UserResponse {
	return userResponse(u, textutil.NormalizeEmail(u.Email) == superEmail)
}

func userResponse(u *entity.User, isSuper bool) dto.UserResponse {
	role := u.Role
	if isSuper {
		role = entity.RoleAdmin
	}
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         role,
		TeamID:       u.TeamID,
		IsSuperAdmin: isSuper,
		CreatedAt:    u.CreatedAt,
	}
}

func toTeamResponse(t *entity.Team) dto.TeamResponse {
	return dto.TeamResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// ToPlayerResponse resuelve el nombre del equipo con teams (id -> nombre).
func ToPlayerResponse(p *entity.Player, teams map[string]string, s *entity.Session) dto.PlayerResponse {
	teamName, ok := teams[p.TeamID]
	if !ok {
		teamName = entity.NoTeamName
	}
	return dto.PlayerResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		DNI:       p.DNI,
		PhotoURL:  p.PhotoURL,
		TeamID:    p.TeamID,
		TeamName:  teamName,
		CanEdit:   authz.CanEdit(s, p),
		CreatedAt: p.CreatedAt,
	}
}
