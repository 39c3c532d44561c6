package ports

import "context"

// ImageHost puerto hacia el servicio externo que aloja las fotos.
// Upload recibe la imagen ya codificada en base64 y devuelve la URL pública definitiva.
type ImageHost interface {
	Upload(ctx context.Context, base64Image, name string) (url string, err error)
}
