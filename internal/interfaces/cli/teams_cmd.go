package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
)

func newTeamsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"equipos"},
		Short:   "Gestionar equipos (administradores)",
	}
	cmd.AddCommand(
		newTeamsListCmd(app),
		newTeamsCreateCmd(app),
		newTeamsUpdateCmd(app),
		newTeamsDeleteCmd(app),
	)
	return cmd
}

func newTeamsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Listar equipos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var teams []dto.TeamResponse
			err := app.busy(cmd, "Cargando equipos...", func(ctx context.Context) error {
				var err error
				teams, err = app.Teams.ListTeams(ctx, app.current())
				return err
			})
			if err != nil {
				return err
			}
			return app.print(cmd, dto.NewList(teams), func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNOMBRE\tCREADO")
				for _, t := range teams {
					fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, dateOf(t.CreatedAt))
				}
			})
		},
	}
}

func newTeamsCreateCmd(app *App) *cobra.Command {
	var in dto.TeamRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un equipo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out *dto.TeamResponse
			err := app.busy(cmd, "Guardando...", func(ctx context.Context) error {
				var err error
				out, err = app.Teams.CreateTeam(ctx, app.current(), in)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Equipo creado: %s (%s)", out.Name, out.ID)
			return app.printIfJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre del equipo")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTeamsUpdateCmd(app *App) *cobra.Command {
	var in dto.TeamRequest
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Renombrar un equipo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out *dto.TeamResponse
			err := app.busy(cmd, "Guardando...", func(ctx context.Context) error {
				var err error
				out, err = app.Teams.UpdateTeam(ctx, app.current(), args[0], in)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Equipo actualizado: %s", out.Name)
			return app.printIfJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre nuevo")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTeamsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Eliminar un equipo sin jugadores ni administradores asignados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.busy(cmd, "Eliminando...", func(ctx context.Context) error {
				return app.Teams.DeleteTeam(ctx, app.current(), args[0])
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Equipo eliminado")
			return nil
		},
	}
}

// printIfJSON tras un alta o edición solo se imprime el registro con --json.
func (a *App) printIfJSON(cmd *cobra.Command, v any) error {
	if !a.asJSON {
		return nil
	}
	return a.print(cmd, v, nil)
}
