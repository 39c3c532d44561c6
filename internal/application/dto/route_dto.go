package dto

// RouteCheckResponse resultado de GET /api/routes/check.
type RouteCheckResponse struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}
