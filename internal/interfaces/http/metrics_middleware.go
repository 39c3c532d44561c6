package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// httpRecorder lo implementa *metrics.Collector.
type httpRecorder interface {
	RecordHTTP(method, route string, status int, elapsed time.Duration)
}

// MetricsMiddleware registra cada petición con el patrón de ruta, no la URL concreta,
// para no disparar la cardinalidad de las etiquetas.
func MetricsMiddleware(rec httpRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rec.RecordHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
