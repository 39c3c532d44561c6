package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
	"github.com/jhoicas/liga-formativa-api/pkg/validation"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable traducción de errores de dominio a HTTP. El orden importa: gana la primera coincidencia.
var errorTable = []errorMapping{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrTeamNotFound, fiber.StatusBadRequest, "TEAM_NOT_FOUND"},
	{domain.ErrUnsupportedImage, fiber.StatusBadRequest, "UNSUPPORTED_IMAGE"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateEmail, fiber.StatusConflict, "DUPLICATE_EMAIL"},
	{domain.ErrDuplicateDNI, fiber.StatusConflict, "DUPLICATE_DNI"},
	{domain.ErrTeamInUse, fiber.StatusConflict, "TEAM_IN_USE"},
	{domain.ErrSuperAdminProtected, fiber.StatusConflict, "SUPERADMIN_PROTECTED"},
	{domain.ErrLastUserProtected, fiber.StatusConflict, "LAST_USER_PROTECTED"},
	{domain.ErrImmutableSuperAdminEmail, fiber.StatusConflict, "SUPERADMIN_EMAIL_IMMUTABLE"},
	{domain.ErrImmutableSuperAdminRole, fiber.StatusConflict, "SUPERADMIN_ROLE_IMMUTABLE"},
	{domain.ErrImageTooLarge, fiber.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE"},
	{domain.ErrUploadFailed, fiber.StatusBadGateway, "UPLOAD_FAILED"},
	{domain.ErrNotConfigured, fiber.StatusServiceUnavailable, "NOT_CONFIGURED"},
	{domain.ErrOperationTimeout, fiber.StatusGatewayTimeout, "TIMEOUT"},
}

// keepDetail errores cuyo mensaje completo es útil para el usuario (campos inválidos, respuesta del
// host de imágenes, qué falta configurar).
var keepDetail = map[error]bool{
	domain.ErrInvalidInput:  true,
	domain.ErrUploadFailed:  true,
	domain.ErrNotConfigured: true,
}

// errorResponse construye el status y el cuerpo para err.
func errorResponse(err error) (int, dto.ErrorResponse) {
	for _, m := range errorTable {
		if !errors.Is(err, m.target) {
			continue
		}
		body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		switch m.target {
		case domain.ErrUnauthorized:
			body.Redirect = authz.LoginRoute
		case domain.ErrForbidden:
			body.Redirect = authz.HomeRoute
		case domain.ErrInvalidInput:
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				body.Fields = verrs
			}
		}
		// Los mensajes de dominio se muestran tal cual; el envoltorio técnico queda en los logs.
		if !keepDetail[m.target] {
			body.Message = m.target.Error()
		}
		return m.status, body
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// writeError responde err con el mapeo central. Los errores sin mapeo se devuelven a Fiber para que
// ErrorHandler los registre y responda 500.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status == fiber.StatusInternalServerError {
		return err
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler respuesta JSON para los errores que llegan a Fiber: rutas inexistentes, pánicos
// recuperados, cuerpo demasiado grande y fallos internos de los casos de uso.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
		body := dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(fe.Code), Message: fe.Message}
		switch fe.Code {
		case fiber.StatusNotFound:
			body.Code = "ROUTE_NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			body.Code = "IMAGE_TOO_LARGE"
			body.Message = domain.ErrImageTooLarge.Error()
		case fiber.StatusInternalServerError:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
			body.Code = "INTERNAL"
		}
		return c.Status(fe.Code).JSON(body)
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
