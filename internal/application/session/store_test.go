package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/application/session"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
)

func newKV(t *testing.T) *localstore.Store {
	t.Helper()
	kv, err := localstore.New(localstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	return kv
}

func TestStore_CicloDeVida(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	s := session.New(kv)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, s.Current())

	sess := &entity.Session{ID: "u1", Email: "coach@liga.org", Name: "Coach", Role: entity.RoleTeamAdmin, TeamID: "t1"}
	require.NoError(t, s.Save(ctx, sess))
	assert.Equal(t, "u1", s.Current().ID)

	// Un proceso nuevo recupera la misma sesión.
	other := session.New(kv)
	got, err = other.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.TeamID)

	raw, ok, err := kv.Get(ctx, session.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "password")

	require.NoError(t, other.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ValorCorruptoSeDescarta(t *testing.T) {
	ctx := context.Background()
	kv := newKV(t)
	require.NoError(t, kv.Put(ctx, session.Key, []byte("{no-json")))

	got, err := session.New(kv).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, ok, err := kv.Get(ctx, session.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveRechazaSesionVacia(t *testing.T) {
	s := session.New(newKV(t))
	assert.Error(t, s.Save(context.Background(), nil))
}
