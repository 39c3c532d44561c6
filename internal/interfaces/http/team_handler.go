package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
)

// TeamHandler CRUD de equipos (solo administradores).
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

// NewTeamHandler construye el handler.
func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// List godoc
// @Summary      Listar equipos
// @Tags         teams
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.TeamResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/teams [get]
func (h *TeamHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListTeams(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener equipo
// @Tags         teams
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.TeamResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [get]
func (h *TeamHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetTeamByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear equipo
// @Tags         teams
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TeamRequest  true  "Nombre del equipo"
// @Success      201   {object}  dto.TeamResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/teams [post]
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var in dto.TeamRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateTeam(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Renombrar equipo
// @Tags         teams
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del equipo"
// @Param        body  body  dto.TeamRequest  true  "Nombre del equipo"
// @Success      200   {object}  dto.TeamResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [put]
func (h *TeamHandler) Update(c *fiber.Ctx) error {
	var in dto.TeamRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateTeam(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar equipo
// @Description  Falla con 409 mientras algún jugador o administrador de equipo lo tenga asignado.
// @Tags         teams
// @Security     Bearer
// @Param        id   path  string  true  "ID del equipo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/teams/{id} [delete]
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteTeam(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
