package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalPlayers  int              `json:"totalPlayers"`
	RecentPlayers int              `json:"recentPlayers"` // inscritos en los últimos 7 días
	LatestPlayers []PlayerResponse `json:"latestPlayers"` // los 5 más recientes
	// TotalTeams solo se informa a administradores.
	TotalTeams *int `json:"totalTeams,omitempty"`
}
