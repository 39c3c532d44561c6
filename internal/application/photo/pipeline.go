// Package photo prepara las fotos de jugadores y las publica en el host de imágenes.
//
// El proceso es una secuencia lineal de etapas: validar tamaño, decodificar, reducir, recodificar
// en JPEG, pasar a base64 y subir. Cada etapa devuelve (resultado, error) y la primera falla corta
// la cadena. No hay reintentos: si algo falla el usuario debe volver a enviar.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
)

// maxPixels límite de píxeles decodificados para no expandir imágenes comprimidas gigantes.
const maxPixels = 50_000_000

// Config límites del pipeline.
type Config struct {
	MaxBytes     int64 // tamaño máximo del archivo original
	MaxDimension int   // lado mayor tras reducir
	Quality      int   // calidad JPEG 1-100
}

// DefaultConfig 5 MiB, 800 px, calidad 70.
func DefaultConfig() Config {
	return Config{MaxBytes: 5 * 1024 * 1024, MaxDimension: 800, Quality: 70}
}

// Pipeline prepara y sube fotos. Es seguro para uso concurrente.
type Pipeline struct {
	cfg     Config
	host    ports.ImageHost
	metrics ports.Metrics
}

// New construye el pipeline. host puede ser nil: en ese caso Process falla con ErrNotConfigured
// después de validar el tamaño.
func New(cfg Config, host ports.ImageHost, metrics ports.Metrics) *Pipeline {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Pipeline{cfg: cfg, host: host, metrics: metrics}
}

// Process ejecuta todas las etapas y devuelve la URL pública de la foto.
func (p *Pipeline) Process(ctx context.Context, name string, data []byte) (string, error) {
	start := time.Now()
	url, err := p.process(ctx, name, data)
	p.metrics.PhotoProcessed(outcome(err), time.Since(start))
	return url, err
}

// Check aplica solo los límites de tamaño, para rechazar la foto antes de tocar el almacén.
func (p *Pipeline) Check(data []byte) error {
	_, err := Validate(data, p.cfg.MaxBytes)
	return err
}

func (p *Pipeline) process(ctx context.Context, name string, data []byte) (string, error) {
	raw, err := Validate(data, p.cfg.MaxBytes)
	if err != nil {
		return "", err
	}
	img, err := Decode(raw)
	if err != nil {
		return "", err
	}
	img = Downscale(img, p.cfg.MaxDimension)
	encoded, err := EncodeJPEG(img, p.cfg.Quality)
	if err != nil {
		return "", err
	}
	if p.host == nil {
		return "", fmt.Errorf("host de imágenes: %w", domain.ErrNotConfigured)
	}
	return p.host.Upload(ctx, EncodeBase64(encoded), name)
}

// Validate rechaza archivos vacíos o mayores que maxBytes sin mirar su contenido.
func Validate(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("imagen vacía: %w", domain.ErrUnsupportedImage)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, domain.ErrImageTooLarge
	}
	return data, nil
}

// Decode acepta JPEG, PNG, GIF y WebP.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: dimensiones %dx%d", domain.ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	return img, nil
}

// Downscale reduce img para que ningún lado supere maxDim, manteniendo la proporción.
// Siempre devuelve una imagen opaca sobre fondo blanco, lista para JPEG.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Fit calcula las dimensiones finales para un lado mayor de maxDim.
func Fit(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}

// EncodeJPEG recodifica con la calidad indicada.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("codificar jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 representación de texto que espera el host.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrImageTooLarge):
		return "too_large"
	case errors.Is(err, domain.ErrUnsupportedImage):
		return "unsupported"
	case errors.Is(err, domain.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "upload_failed"
	}
}
