package session

import (
	"context"
	"testing"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/kvstore"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "10",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return s
}

func TestBeginAndRestore(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kvstore.NewMemoryStore(), time.Hour, nil)
	user := entity.User{ID: 10, Username: "zhang", Role: entity.RoleEmployee, Status: entity.UserStatusActive}

	sess, err := m.Begin(ctx, signed(t, time.Now().Add(time.Hour)), user)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	restored, err := m.Restore(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, user, restored.User)
	assert.Equal(t, sess.Token, restored.Token)

	require.NoError(t, m.End(ctx, sess.ID))
	_, err = m.Restore(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRestoreOpaqueToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager(kvstore.NewMemoryStore(), time.Hour, nil)
	sess, err := m.Begin(ctx, "opaque-token", entity.User{ID: 1, Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = m.Restore(ctx, sess.ID)
	assert.NoError(t, err)
}

func TestRestoreMissing(t *testing.T) {
	m := NewManager(kvstore.NewMemoryStore(), time.Hour, nil)
	_, err := m.Restore(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = m.Restore(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRestoreMalformedIsClearedAndUnauthenticated(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"bad json", `{"token":`},
		{"missing token", `{"user":{"id":1,"role":"boss"}}`},
		{"missing user id", `{"token":"abc","user":{"role":"boss"}}`},
		{"missing role", `{"token":"abc","user":{"id":1}}`},
		{"unknown role", `{"token":"abc","user":{"id":1,"role":"root"}}`},
		{"broken jwt", `{"token":"a.b.c","user":{"id":1,"role":"boss"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kvstore.NewMemoryStore()
			require.NoError(t, store.Set(ctx, key("s1"), []byte(tt.blob), time.Hour))

			m := NewManager(store, time.Hour, nil)
			_, err := m.Restore(ctx, "s1")
			assert.ErrorIs(t, err, ErrNotAuthenticated)

			_, err = store.Get(ctx, key("s1"))
			assert.ErrorIs(t, err, kvstore.ErrNotFound)
		})
	}
}

func TestRestoreExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	m := NewManager(store, time.Hour, nil)

	sess, err := m.Begin(ctx, signed(t, time.Now().Add(time.Minute)), entity.User{ID: 3, Role: entity.RoleBoss})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Restore(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestBeginRejectsIncompleteUser(t *testing.T) {
	m := NewManager(kvstore.NewMemoryStore(), time.Hour, nil)
	_, err := m.Begin(context.Background(), "tok", entity.User{ID: 1})
	assert.Error(t, err)
}
