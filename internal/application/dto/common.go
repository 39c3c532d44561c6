package dto

import "github.com/jhoicas/liga-formativa-api/pkg/validation"

// ErrorResponse cuerpo de error HTTP. Redirect indica la ruta segura a la que debe volver el front-end
// (/login sin sesión, / sin permiso).
type ErrorResponse struct {
	Code     string                  `json:"code"`
	Message  string                  `json:"message"`
	Redirect string                  `json:"redirect,omitempty"`
	Fields   []validation.FieldError `json:"fields,omitempty"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList construye un ListResponse; nunca devuelve items nil.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
