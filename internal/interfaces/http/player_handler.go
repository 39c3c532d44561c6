package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
)

// photoField campo multipart con la foto del jugador.
const photoField = "photo"

// PlayerHandler maneja jugadores. Alta y edición aceptan JSON o multipart/form-data con foto.
type PlayerHandler struct {
	uc *usecase.PlayerUseCase
}

// NewPlayerHandler construye el handler.
func NewPlayerHandler(uc *usecase.PlayerUseCase) *PlayerHandler {
	return &PlayerHandler{uc: uc}
}

// List godoc
// @Summary      Listar jugadores
// @Description  Un administrador de equipo solo ve su equipo; teamId se ignora en ese caso.
// @Tags         players
// @Security     Bearer
// @Produce      json
// @Param        teamId  query  string  false  "Filtrar por equipo"
// @Param        q       query  string  false  "Buscar por nombre, apellido o DNI (sin acentos)"
// @Success      200     {object}  dto.ListResponse[dto.PlayerResponse]
// @Router       /api/players [get]
func (h *PlayerHandler) List(c *fiber.Ctx) error {
	var q dto.PlayerListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListPlayers(c.UserContext(), GetSession(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener jugador
// @Tags         players
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del jugador"
// @Success      200  {object}  dto.PlayerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/players/{id} [get]
func (h *PlayerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPlayer(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar jugador
// @Description  La foto, si viene, se reduce y se sube antes de guardar; si falla no se guarda nada.
// @Tags         players
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body   body      dto.CreatePlayerRequest  false  "Datos del jugador (JSON)"
// @Param        photo  formData  file                     false  "Foto (máx. 5MB)"
// @Success      201    {object}  dto.PlayerResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Failure      413    {object}  dto.ErrorResponse
// @Failure      502    {object}  dto.ErrorResponse
// @Failure      504    {object}  dto.ErrorResponse
// @Router       /api/players [post]
func (h *PlayerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePlayerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	photo, err := readPhoto(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePlayer(c.UserContext(), GetSession(c), in, photo)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar jugador
// @Description  Solo se modifican los campos enviados. En multipart, un campo presente cuenta como enviado.
// @Tags         players
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        id     path      string                   true   "ID del jugador"
// @Param        body   body      dto.UpdatePlayerRequest  false  "Campos a cambiar (JSON)"
// @Param        photo  formData  file                     false  "Foto nueva (máx. 5MB)"
// @Success      200    {object}  dto.PlayerResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/players/{id} [put]
func (h *PlayerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePlayerRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badBody(c)
		}
		in = updateFromForm(form.Value)
	} else if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	photo, err := readPhoto(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePlayer(c.UserContext(), GetSession(c), c.Params("id"), in, photo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar jugador
// @Tags         players
// @Security     Bearer
// @Param        id   path  string  true  "ID del jugador"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/players/{id} [delete]
func (h *PlayerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePlayer(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// readPhoto devuelve nil si la petición no es multipart o no trae foto.
func readPhoto(c *fiber.Ctx) (*dto.PlayerPhoto, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(photoField)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir foto: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("leer foto: %w", err)
	}
	return &dto.PlayerPhoto{Filename: fh.Filename, Data: data}, nil
}

func updateFromForm(values map[string][]string) dto.UpdatePlayerRequest {
	get := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}
	return dto.UpdatePlayerRequest{
		FirstName: get("firstName"),
		LastName:  get("lastName"),
		BirthDate: get("birthDate"),
		DNI:       get("dni"),
		TeamID:    get("teamId"),
		PhotoURL:  get("photoUrl"),
	}
}
