package firestore

import (
	"testing"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

func TestPlayerFields_FotoVaciaSeBorra(t *testing.T) {
	fields := playerFields(docstore.PlayerRecord{FirstName: "Leo", DNI: "1", TeamID: "T"})
	byPath := map[string]any{}
	for _, f := range fields {
		byPath[f.Path] = f.Value
	}
	assert.Equal(t, fs.Delete, byPath["photoUrl"])
	assert.Equal(t, "Leo", byPath["firstName"])
	assert.Equal(t, "T", byPath["teamId"])
	assert.Len(t, fields, 7)
}

func TestUserFields_EquipoOpcional(t *testing.T) {
	withTeam := userFields(docstore.UserRecord{Email: "a@liga.com", Role: "team_admin", TeamID: "T"})
	assert.Contains(t, withTeam, fs.Update{Path: "teamId", Value: "T"})

	noTeam := userFields(docstore.UserRecord{Email: "a@liga.com", Role: "viewer"})
	assert.Contains(t, noTeam, fs.Update{Path: "teamId", Value: fs.Delete})
	assert.Len(t, teamFields(docstore.TeamRecord{Name: "Lions"}), 2)
}
