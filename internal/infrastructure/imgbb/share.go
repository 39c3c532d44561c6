package imgbb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// directImage primer enlace directo a la imagen dentro de la página de un enlace para compartir.
var directImage = regexp.MustCompile(`https://i\.ibb\.co/[^"'\s<>]+`)

// maxPageBytes límite de lectura de la página para compartir.
const maxPageBytes = 2 << 20

// ShareResolver convierte enlaces para compartir (https://ibb.co/XXXX) en la URL directa de la imagen.
type ShareResolver struct {
	client *http.Client
	hosts  map[string]bool
}

// NewShareResolver usa un cliente safeurl (solo http/https en puertos 80 y 443, sin IPs privadas).
// Sin hosts se resuelven solo enlaces de ibb.co.
func NewShareResolver(timeout time.Duration, hosts ...string) *ShareResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	if len(hosts) == 0 {
		hosts = []string{"ibb.co"}
	}
	return NewShareResolverWithClient(safeurl.Client(cfg).Client, hosts...)
}

// NewShareResolverWithClient permite otro cliente y otros hosts (tests).
func NewShareResolverWithClient(client *http.Client, hosts ...string) *ShareResolver {
	set := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		set[strings.ToLower(h)] = true
	}
	return &ShareResolver{client: client, hosts: set}
}

// Resolve devuelve rawURL sin cambios si no es un enlace para compartir conocido.
func (r *ShareResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !r.hosts[strings.ToLower(u.Host)] {
		return rawURL, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("imgbb: request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb: descargar %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("imgbb: %s respondió %d", rawURL, resp.StatusCode)
	}
	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("imgbb: leer %s: %w", rawURL, err)
	}
	direct := directImage.Find(page)
	if direct == nil {
		return "", fmt.Errorf("imgbb: sin imagen directa en %s", rawURL)
	}
	return string(direct), nil
}
