// Package analytics contiene el resumen del panel principal de la liga.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
)

const (
	dashboardLatestPlayers = 5                  // jugadores en el widget "últimos registrados"
	dashboardRecentWindow  = 7 * 24 * time.Hour // ventana de "registrados recientemente"
)

// DashboardUseCase genera el resumen del panel para la sesión.
//
// Solo lectura: usa las colecciones del Store sin transacción.
type DashboardUseCase struct {
	store repository.Store
	clock clockwork.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(store repository.Store, clock clockwork.Clock) *DashboardUseCase {
	return &DashboardUseCase{store: store, clock: clock}
}

// GetSummary construye el DashboardSummaryDTO respetando el alcance de la sesión.
//
// Dos lecturas en paralelo:
//  1. Players().List(alcance) → TotalPlayers + RecentPlayers + LatestPlayers
//  2. Teams().List            → nombres de equipo + TotalTeams (solo admin)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, s *entity.Session) (*dto.DashboardSummaryDTO, error) {
	if err := authz.Authorize(s, authz.ViewDashboard, nil); err != nil {
		return nil, err
	}
	teamID, err := authz.PlayerScope(s, "")
	if err != nil {
		return nil, err
	}

	// ── Lecturas en paralelo ──────────────────────────────────────────────────
	var (
		players []*entity.Player
		teams   []*entity.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = uc.store.Players().List(gctx, repository.PlayerFilter{TeamID: teamID})
		if err != nil {
			return fmt.Errorf("listar jugadores: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = uc.store.Teams().List(gctx)
		if err != nil {
			return fmt.Errorf("listar equipos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Agregados ─────────────────────────────────────────────────────────────
	since := uc.clock.Now().Add(-dashboardRecentWindow)
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	summary := &dto.DashboardSummaryDTO{
		TotalPlayers:  len(players),
		LatestPlayers: make([]dto.PlayerResponse, 0, dashboardLatestPlayers),
	}
	for i, p := range players {
		if p.CreatedAt.After(since) {
			summary.RecentPlayers++
		}
		// List ya viene ordenado por fecha de alta descendente.
		if i < dashboardLatestPlayers {
			summary.LatestPlayers = append(summary.LatestPlayers, usecase.ToPlayerResponse(p, names, s))
		}
	}
	if authz.IsAdmin(s) {
		total := len(teams)
		summary.TotalTeams = &total
	}
	return summary, nil
}
