package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/pkg/jwt"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
	"github.com/jhoicas/liga-formativa-api/pkg/password"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
	"github.com/jhoicas/liga-formativa-api/pkg/validation"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, renovación y resolución de sesión.
type AuthUseCase struct {
	users   *usecase.UserUseCase
	store   repository.Store
	league  usecase.LeagueConfig
	jwtCfg  JWTConfig
	log     *logger.Logger
	metrics ports.Metrics
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users *usecase.UserUseCase, store repository.Store, league usecase.LeagueConfig, jwtCfg JWTConfig, log *logger.Logger, metrics ports.Metrics) *AuthUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, store: store, league: league, jwtCfg: jwtCfg, log: log, metrics: metrics}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Garantiza antes que el superadministrador exista, de modo que el primer acceso funciona con una
// colección vacía. Las contraseñas heredadas en texto plano se rehashean tras un login correcto.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (resp *dto.LoginResponse, err error) {
	defer func() { uc.metrics.LoginAttempt(loginOutcome(err)) }()

	if err := validation.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	users, err := uc.users.EnsureSuperAdmin(ctx)
	if err != nil {
		return nil, err
	}
	email := textutil.NormalizeEmail(in.Email)
	var user *entity.User
	for _, u := range users {
		if textutil.NormalizeEmail(u.Email) == email {
			user = u
			break
		}
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	ok, legacy := password.Verify(user.Password, in.Password)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if legacy {
		uc.upgradePassword(ctx, user, in.Password)
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	out, err := uc.users.Describe(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", out.Role).Msg("login correcto")
	return &dto.LoginResponse{Token: token, User: out}, nil
}

// upgradePassword reemplaza una contraseña en texto plano por su hash. Un fallo no impide el login.
func (uc *AuthUseCase) upgradePassword(ctx context.Context, user *entity.User, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo hashear contraseña heredada")
		return
	}
	upgraded := *user
	upgraded.Password = hash
	if err := uc.store.Users().Update(ctx, &upgraded); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar contraseña heredada")
		return
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña heredada migrada a bcrypt")
}

// Resolve obtiene la sesión vigente para userID leyendo el usuario en cada llamada, así un cambio de
// rol o equipo se aplica sin esperar a que venza el token. ErrUnauthorized si el usuario ya no existe.
func (uc *AuthUseCase) Resolve(ctx context.Context, userID string) (*entity.Session, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolver sesión: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	isSuper, err := uc.users.IsSuperAdmin(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("resolver sesión: %w", err)
	}
	s := u.Session()
	if isSuper {
		s.Role = entity.RoleAdmin
	}
	return s, nil
}

// ResolveToken valida el JWT y resuelve su sesión.
func (uc *AuthUseCase) ResolveToken(ctx context.Context, token string) (*entity.Session, error) {
	userID, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.Resolve(ctx, userID)
}

// Refresh emite un token nuevo con los datos actuales del usuario de la sesión.
func (uc *AuthUseCase) Refresh(ctx context.Context, s *entity.Session) (*dto.LoginResponse, error) {
	if s == nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.store.Users().GetByID(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("refrescar sesión: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	out, err := uc.users.Describe(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("refrescar sesión: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: out}, nil
}

// Me datos del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, s *entity.Session) (*dto.UserResponse, error) {
	if s == nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.store.Users().GetByID(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	resp, err := uc.users.Describe(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	return &resp, nil
}

// UpdateProfile delega en UserUseCase y devuelve el usuario actualizado.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, s *entity.Session, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return uc.users.UpdateProfile(ctx, s, in)
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
