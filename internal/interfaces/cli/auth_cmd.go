package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

func newLoginCmd(app *App) *cobra.Command {
	var in dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión y guardarla en este equipo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *entity.Session
			err := app.busy(cmd, "Iniciando sesión...", func(ctx context.Context) error {
				resp, err := app.Auth.Login(ctx, in)
				if err != nil {
					return err
				}
				s, err = app.Auth.Resolve(ctx, resp.User.ID)
				if err != nil {
					return err
				}
				return app.Session.Save(ctx, s)
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Sesión iniciada como %s (%s)", s.Email, s.Role)
			return app.printSession(cmd, s)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Clear(cmd.Context()); err != nil {
				return err
			}
			app.done(cmd, "Sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.current()
			if s == nil {
				return domain.ErrUnauthorized
			}
			return app.printSession(cmd, s)
		},
	}
}

// newRefreshCmd vuelve a leer el usuario para aplicar cambios de rol o equipo. Si la cuenta ya no
// existe, la sesión guardada se borra.
func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Actualizar la sesión guardada con los datos actuales del usuario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.current()
			if current == nil {
				return domain.ErrUnauthorized
			}
			var s *entity.Session
			err := app.busy(cmd, "Actualizando sesión...", func(ctx context.Context) error {
				var err error
				s, err = app.Auth.Resolve(ctx, current.ID)
				if err != nil {
					return err
				}
				return app.Session.Save(ctx, s)
			})
			if errors.Is(err, domain.ErrUnauthorized) {
				if cerr := app.Session.Clear(cmd.Context()); cerr != nil {
					return cerr
				}
				return fmt.Errorf("la cuenta ya no existe: %w", err)
			}
			if err != nil {
				return err
			}
			return app.printSession(cmd, s)
		},
	}
}

func (a *App) printSession(cmd *cobra.Command, s *entity.Session) error {
	return a.print(cmd, s, func(w io.Writer) {
		fmt.Fprintf(w, "ID\t%s\n", s.ID)
		fmt.Fprintf(w, "Email\t%s\n", s.Email)
		fmt.Fprintf(w, "Nombre\t%s\n", s.Name)
		fmt.Fprintf(w, "Rol\t%s\n", s.Role)
		fmt.Fprintf(w, "Equipo\t%s\n", orDash(s.TeamID))
	})
}
