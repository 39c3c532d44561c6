package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
)

func newPlayersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"jugadores"},
		Short:   "Gestionar jugadores",
	}
	cmd.AddCommand(
		newPlayersListCmd(app),
		newPlayersShowCmd(app),
		newPlayersCreateCmd(app),
		newPlayersUpdateCmd(app),
		newPlayersDeleteCmd(app),
	)
	return cmd
}

func newPlayersListCmd(app *App) *cobra.Command {
	var q dto.PlayerListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar jugadores visibles para la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var players []dto.PlayerResponse
			err := app.busy(cmd, "Cargando jugadores...", func(ctx context.Context) error {
				var err error
				players, err = app.Players.ListPlayers(ctx, app.current(), q)
				return err
			})
			if err != nil {
				return err
			}
			return app.print(cmd, dto.NewList(players), func(w io.Writer) {
				fmt.Fprintln(w, "ID\tAPELLIDO\tNOMBRE\tDNI\tNACIMIENTO\tEQUIPO\tFOTO")
				for _, p := range players {
					foto := "no"
					if p.PhotoURL != "" {
						foto = "sí"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.LastName, p.FirstName, p.DNI, p.BirthDate, p.TeamName, foto)
				}
			})
		},
	}
	cmd.Flags().StringVar(&q.TeamID, "team", "", "filtrar por equipo")
	cmd.Flags().StringVarP(&q.Search, "query", "q", "", "buscar por nombre, apellido o DNI")
	return cmd
}

func newPlayersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Ver la ficha de un jugador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *dto.PlayerResponse
			err := app.busy(cmd, "Cargando...", func(ctx context.Context) error {
				var err error
				p, err = app.Players.GetPlayer(ctx, app.current(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			return app.print(cmd, p, func(w io.Writer) {
				fmt.Fprintf(w, "ID\t%s\n", p.ID)
				fmt.Fprintf(w, "Nombre\t%s %s\n", p.FirstName, p.LastName)
				fmt.Fprintf(w, "DNI\t%s\n", p.DNI)
				fmt.Fprintf(w, "Nacimiento\t%s\n", p.BirthDate)
				fmt.Fprintf(w, "Equipo\t%s\n", p.TeamName)
				fmt.Fprintf(w, "Foto\t%s\n", orDash(p.PhotoURL))
				fmt.Fprintf(w, "Registrado\t%s\n", dateOf(p.CreatedAt))
			})
		},
	}
}

func newPlayersCreateCmd(app *App) *cobra.Command {
	var (
		in        dto.CreatePlayerRequest
		photoPath string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Registrar un jugador (con foto opcional)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, err := readPhotoFile(photoPath)
			if err != nil {
				return err
			}
			var out *dto.PlayerResponse
			err = app.busy(cmd, "Guardando jugador...", func(ctx context.Context) error {
				var err error
				out, err = app.Players.CreatePlayer(ctx, app.current(), in, photo)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Jugador registrado: %s %s (%s)", out.FirstName, out.LastName, out.ID)
			return app.printIfJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "nombre")
	f.StringVar(&in.LastName, "last-name", "", "apellido")
	f.StringVar(&in.BirthDate, "birth-date", "", "fecha de nacimiento (AAAA-MM-DD)")
	f.StringVar(&in.DNI, "dni", "", "documento")
	f.StringVar(&in.TeamID, "team", "", "equipo (por defecto el propio para administradores de equipo)")
	f.StringVar(&in.PhotoURL, "photo-url", "", "URL de una foto ya alojada")
	f.StringVar(&photoPath, "photo", "", "archivo de imagen a subir")
	for _, name := range []string{"first-name", "last-name", "birth-date", "dni"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newPlayersUpdateCmd(app *App) *cobra.Command {
	var (
		firstName, lastName, birthDate, dni, teamID, photoURL string
		photoPath                                             string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Editar un jugador; solo cambian los campos indicados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			changed := func(name, v string) *string {
				if !f.Changed(name) {
					return nil
				}
				return &v
			}
			in := dto.UpdatePlayerRequest{
				FirstName: changed("first-name", firstName),
				LastName:  changed("last-name", lastName),
				BirthDate: changed("birth-date", birthDate),
				DNI:       changed("dni", dni),
				TeamID:    changed("team", teamID),
				PhotoURL:  changed("photo-url", photoURL),
			}
			photo, err := readPhotoFile(photoPath)
			if err != nil {
				return err
			}
			var out *dto.PlayerResponse
			err = app.busy(cmd, "Guardando jugador...", func(ctx context.Context) error {
				var err error
				out, err = app.Players.UpdatePlayer(ctx, app.current(), args[0], in, photo)
				return err
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Jugador actualizado: %s %s", out.FirstName, out.LastName)
			return app.printIfJSON(cmd, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "nombre")
	f.StringVar(&lastName, "last-name", "", "apellido")
	f.StringVar(&birthDate, "birth-date", "", "fecha de nacimiento (AAAA-MM-DD)")
	f.StringVar(&dni, "dni", "", "documento")
	f.StringVar(&teamID, "team", "", "equipo")
	f.StringVar(&photoURL, "photo-url", "", "URL de una foto ya alojada")
	f.StringVar(&photoPath, "photo", "", "archivo de imagen a subir")
	return cmd
}

func newPlayersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Eliminar un jugador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.busy(cmd, "Eliminando...", func(ctx context.Context) error {
				return app.Players.DeletePlayer(ctx, app.current(), args[0])
			})
			if err != nil {
				return err
			}
			app.done(cmd, "Jugador eliminado")
			return nil
		},
	}
}

// readPhotoFile devuelve nil si path está vacío.
func readPhotoFile(path string) (*dto.PlayerPhoto, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer foto: %w", err)
	}
	return &dto.PlayerPhoto{Filename: filepath.Base(path), Data: data}, nil
}
