// Package cli implementa ligactl: un cliente de operador que guarda la sesión en disco y trabaja
// directamente contra el almacenamiento configurado a través de los casos de uso.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/session"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// App dependencias de los comandos.
type App struct {
	Auth    *auth.AuthUseCase
	Users   *usecase.UserUseCase
	Teams   *usecase.TeamUseCase
	Players *usecase.PlayerUseCase
	Session *session.Store

	// Spinner muestra un indicador de actividad en stderr mientras se espera al almacenamiento.
	Spinner bool

	asJSON bool
}

// NewRootCmd construye el árbol de comandos. Antes de cada comando la sesión persistida se carga y
// se vuelve a resolver contra el usuario actual; si la cuenta ya no existe se borra.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ligactl",
		Short:         "Liga Formativa: gestión de equipos, jugadores y usuarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.Session.Load(cmd.Context())
			if err != nil || loaded == nil {
				return err
			}
			switch cmd.Name() {
			case "login", "logout", "refresh":
				return nil
			}
			return app.revalidate(cmd.Context(), loaded)
		},
	}
	root.PersistentFlags().BoolVar(&app.asJSON, "json", false, "salida en JSON")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newRefreshCmd(app),
		newTeamsCmd(app),
		newPlayersCmd(app),
		newUsersCmd(app),
	)
	return root
}

// Execute ejecuta root y traduce el error para el operador.
func Execute(ctx context.Context, root *cobra.Command) error {
	return Explain(root.ExecuteContext(ctx))
}

// Explain agrega una indicación cuando el error se resuelve con otro comando.
func Explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnauthorized):
		return fmt.Errorf("%w: inicia sesión con 'ligactl login'", err)
	case errors.Is(err, domain.ErrOperationTimeout):
		return fmt.Errorf("%w (ejecuta el listado para comprobarlo)", err)
	}
	return err
}

// revalidate reemplaza la sesión guardada por los datos vigentes del usuario.
func (a *App) revalidate(ctx context.Context, loaded *entity.Session) error {
	s, err := a.Auth.Resolve(ctx, loaded.ID)
	if errors.Is(err, domain.ErrUnauthorized) {
		return a.Session.Clear(ctx)
	}
	if err != nil {
		return err
	}
	return a.Session.Save(ctx, s)
}

// current sesión cargada por PersistentPreRunE; nil sin sesión.
func (a *App) current() *entity.Session {
	return a.Session.Current()
}

// busy ejecuta fn mostrando el spinner si está habilitado.
func (a *App) busy(cmd *cobra.Command, msg string, fn func(ctx context.Context) error) error {
	if a.Spinner {
		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " " + msg
		s.Start()
		defer s.Stop()
	}
	return fn(cmd.Context())
}

// print escribe v como JSON con --json o llama a table en otro caso.
func (a *App) print(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func (a *App) done(cmd *cobra.Command, format string, args ...any) {
	if a.asJSON {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

func dateOf(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
