package docstore_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

// Los documentos escritos por la aplicación web existente deben leerse tal cual.
func TestPlayerRecord_LeeDocumentoExistente(t *testing.T) {
	raw := `{"firstName":"Leo","lastName":"Gomez","birthDate":"2012-03-01","dni":"123","teamId":"t1","createdAt":1700000000000}`

	var rec docstore.PlayerRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	p := rec.Entity()

	assert.Equal(t, "Leo", p.FirstName)
	assert.Equal(t, "t1", p.TeamID)
	assert.Empty(t, p.PhotoURL)
	assert.Equal(t, int64(1700000000000), p.CreatedAt.UnixMilli())
}

func TestUserRecord_OmiteTeamIDVacio(t *testing.T) {
	rec := docstore.FromUser(&entity.User{Email: "a@b.c", Role: entity.RoleViewer, CreatedAt: time.UnixMilli(5)})
	b, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "teamId")
	assert.Contains(t, string(b), `"createdAt":5`)
}

func TestMillis_TiempoCero(t *testing.T) {
	assert.Equal(t, int64(0), docstore.Millis(time.Time{}))
	assert.True(t, docstore.FromMillis(0).IsZero())
}
