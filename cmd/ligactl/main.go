package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/photo"
	"github.com/jhoicas/liga-formativa-api/internal/application/session"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/imgbb"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/storage"
	"github.com/jhoicas/liga-formativa-api/internal/interfaces/cli"
	"github.com/jhoicas/liga-formativa-api/pkg/config"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	// El CLI solo muestra avisos y errores, en stderr para no mezclarlos con la salida.
	level := cfg.Log.Level
	if level == "info" || level == "" {
		level = "warn"
	}
	log := logger.NewWithWriter(logger.Config{Env: "development", Level: level, File: cfg.Log.File}, os.Stderr)
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, _, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionDir, err := expandHome(cfg.CLI.SessionDir)
	if err != nil {
		return err
	}
	kv, err := localstore.New(localstore.Options{Dir: sessionDir})
	if err != nil {
		return err
	}

	pipeline := photo.New(photo.Config{
		MaxBytes:     cfg.Photo.MaxBytes,
		MaxDimension: cfg.Photo.MaxDimension,
		Quality:      cfg.Photo.JPEGQuality,
	}, imgbb.New(imgbb.Config{APIKey: cfg.Photo.APIKey, Endpoint: cfg.Photo.Endpoint}), nil)

	clock := clockwork.NewRealClock()
	league := storage.LeagueConfig(cfg)
	users := usecase.NewUserUseCase(store, league, clock, log, nil)
	app := &cli.App{
		Users:   users,
		Teams:   usecase.NewTeamUseCase(store, league, clock, nil),
		Players: usecase.NewPlayerUseCase(store, pipeline, league, clock, log, nil).WithLinkResolver(imgbb.NewShareResolver(10 * time.Second)),
		Session: session.New(kv),
		Spinner: isTerminal(os.Stderr),
	}
	// El CLI no usa tokens, pero Login los emite; sin JWT_SECRET se firma con un secreto local fijo.
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = "ligactl-local"
	}
	app.Auth = auth.NewAuthUseCase(users, store, league, auth.JWTConfig{
		Secret: secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	}, log, nil)

	return cli.Execute(ctx, cli.NewRootCmd(app))
}

func expandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("directorio de sesión: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
