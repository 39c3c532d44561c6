// Package storage elige y abre el backend de colecciones según la configuración.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/firestore"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/liga-formativa-api/pkg/config"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
	"github.com/jhoicas/liga-formativa-api/pkg/password"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
)

// Open abre el backend de cfg.Store.Driver. Si firestore o postgres no tienen destino configurado
// se usa el almacenamiento local en archivos, igual que la aplicación sin base de datos.
// El llamador debe cerrar el store devuelto.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, string, error) {
	switch cfg.Store.Driver {
	case config.StoreFirestore:
		if cfg.Firebase.Configured() {
			s, err := firestore.Open(ctx, firestore.Config{
				ProjectID:       cfg.Firebase.ProjectID,
				CredentialsFile: cfg.Firebase.CredentialsFile,
			})
			if err != nil {
				return nil, "", err
			}
			return s, config.StoreFirestore, nil
		}
		log.Warn().Msg("Firestore sin FIREBASE_PROJECT_ID; usando almacenamiento local")
	case config.StorePostgres:
		if cfg.DB.Configured() {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
				return nil, "", fmt.Errorf("migraciones: %w", err)
			}
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return nil, "", fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			return postgres.NewStore(pool), config.StorePostgres, nil
		}
		log.Warn().Msg("PostgreSQL sin DATABASE_URL ni DB_HOST; usando almacenamiento local")
	}

	seed, err := superAdminSeed(cfg.League, time.Now())
	if err != nil {
		return nil, "", err
	}
	s, err := localstore.New(localstore.Options{Dir: cfg.Store.LocalDataDir, Seed: seed})
	if err != nil {
		return nil, "", err
	}
	return s, config.StoreLocal, nil
}

// superAdminSeed usuario que el almacenamiento local escribe al crear el archivo de usuarios.
func superAdminSeed(league config.LeagueConfig, now time.Time) (*entity.User, error) {
	hash, err := password.Hash(league.SuperAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña del superadministrador: %w", err)
	}
	return &entity.User{
		Email:     textutil.NormalizeEmail(league.SuperAdminEmail),
		Password:  hash,
		Name:      usecase.SuperAdminName,
		Role:      entity.RoleAdmin,
		CreatedAt: now.UTC(),
	}, nil
}

// LeagueConfig traduce la configuración a la de los casos de uso.
func LeagueConfig(cfg *config.Config) usecase.LeagueConfig {
	return usecase.LeagueConfig{
		SuperAdminEmail:    cfg.League.SuperAdminEmail,
		SuperAdminPassword: cfg.League.SuperAdminPassword,
		SaveTimeout:        cfg.League.SaveTimeout,
	}
}
