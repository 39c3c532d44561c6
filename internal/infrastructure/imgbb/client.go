// Package imgbb sube fotos a un host compatible con la API de ImgBB y resuelve enlaces para compartir.
package imgbb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
)

var _ ports.ImageHost = (*Client)(nil)

// DefaultEndpoint API pública de subida.
const DefaultEndpoint = "https://api.imgbb.com/1/upload"

// maxResponseBytes límite de lectura de la respuesta del host.
const maxResponseBytes = 1 << 20

// Config parámetros del cliente. Timeout 0 usa 30s.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Client adaptador de ports.ImageHost.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// New construye el cliente. Sin APIKey Upload devuelve ErrNotConfigured.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured indica si hay API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload envía la imagen en base64 (sin prefijo data:) en el campo "image" del formulario.
func (c *Client) Upload(ctx context.Context, base64Image, name string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("Falta configurar la API Key de ImgBB: %w", domain.ErrNotConfigured)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("image", base64Image); err != nil {
		return "", fmt.Errorf("imgbb: formulario: %w", err)
	}
	if name != "" {
		if err := form.WriteField("name", name); err != nil {
			return "", fmt.Errorf("imgbb: formulario: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("imgbb: formulario: %w", err)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("imgbb: endpoint inválido: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &body)
	if err != nil {
		return "", fmt.Errorf("imgbb: request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: leer respuesta: %v", domain.ErrUploadFailed, err)
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: respuesta inválida (HTTP %d)", domain.ErrUploadFailed, resp.StatusCode)
	}
	if !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = "Error desconocido en ImgBB"
		}
		return "", fmt.Errorf("%w: %s", domain.ErrUploadFailed, msg)
	}
	return out.Data.URL, nil
}
