package ports

import "time"

// Metrics puerto de observabilidad de los casos de uso. Los resultados son etiquetas cortas
// ("ok", "too_large", "upload_failed", "timeout", ...).
type Metrics interface {
	PhotoProcessed(outcome string, elapsed time.Duration)
	RecordSaved(collection, op, outcome string)
	LoginAttempt(outcome string)
}

// NopMetrics descarta todo; útil en tests y en el CLI.
type NopMetrics struct{}

func (NopMetrics) PhotoProcessed(string, time.Duration) {}
func (NopMetrics) RecordSaved(string, string, string)   {}
func (NopMetrics) LoginAttempt(string)                  {}
