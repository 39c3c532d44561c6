package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"usuarios"},
		Short:   "Gestionar cuentas (administradores)",
	}
	cmd.AddCommand(
		newUsersListCmd(app),
		newUsersCreateCmd(app),
		newUsersUpdateCmd(app),
		newUsersDeleteCmd(app),
	)
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Listar usuarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []dto.UserResponse
			err := app.busy(cmd, "Cargando usuarios...", func(ctx context.Context) error {
				var err error
				users, err = app.Users.ListUsers(ctx, app.current())
				return err
			})
			if err != nil {
				return err
			}
			return app.print(cmd, dto.NewList(users), func(w io.Writer) {
				fmt.Fprintln(w, "ID\tEMAIL\tNOMBRE\tROL\tEQUIPO")
				for _, u := range users {
					role := u.Role
					if u.IsSuperAdmin {
						role += " (principal)"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, role, orDash(u.TeamID))
				}
			})
		},
	}
}

func newUsersCreateCmd(app *App) *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una cuenta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out *dto.UserResponse
			err := app.busy(cmd, "Guardando...", func(ctx context.Context) error {
				var err error
				out, err = app.Users.CreateUser(ctx, app.current(), in)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Usuario creado: %s (%s)", out.Email, out.ID)
			return app.printIfJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "email")
	f.StringVar(&in.Password, "password", "", "contraseña")
	f.StringVar(&in.Name, "name", "", "nombre")
	f.StringVar(&in.Role, "role", "viewer", "admin, team_admin o viewer")
	f.StringVar(&in.TeamID, "team", "", "equipo (obligatorio para team_admin)")
	for _, name := range []string{"email", "password", "name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	var email, password, name, role, teamID string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Editar una cuenta; solo cambian los campos indicados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			changed := func(flag, v string) *string {
				if !f.Changed(flag) {
					return nil
				}
				return &v
			}
			in := dto.UpdateUserRequest{
				Email:    changed("email", email),
				Password: changed("password", password),
				Name:     changed("name", name),
				Role:     changed("role", role),
				TeamID:   changed("team", teamID),
			}
			var out *dto.UserResponse
			err := app.busy(cmd, "Guardando...", func(ctx context.Context) error {
				var err error
				out, err = app.Users.UpdateUser(ctx, app.current(), args[0], in)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Usuario actualizado: %s (%s)", out.Email, out.Role)
			return app.printIfJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&email, "email", "", "email")
	f.StringVar(&password, "password", "", "contraseña")
	f.StringVar(&name, "name", "", "nombre")
	f.StringVar(&role, "role", "", "admin, team_admin o viewer")
	f.StringVar(&teamID, "team", "", "equipo")
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Eliminar una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.busy(cmd, "Eliminando...", func(ctx context.Context) error {
				return app.Users.DeleteUser(ctx, app.current(), args[0])
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Usuario eliminado")
			return nil
		},
	}
}
