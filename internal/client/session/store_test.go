package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/shopclient/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

var alice = Credential{UserID: "1", Token: "tok-a", Username: "alice", Email: "a@example.com"}

func TestStore_SetPersistsAllKeys(t *testing.T) {
	db := openDB(t)
	s := NewStore(db, logging.Nop())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, alice))

	m, err := metadata.NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		KeyUserID:   []byte("1"),
		KeyToken:    []byte("tok-a"),
		KeyUsername: []byte("alice"),
		KeyEmail:    []byte("a@example.com"),
	}, m)
	assert.Equal(t, "tok-a", s.Token())
}

func TestStore_SetRejectsIncompleteCredential(t *testing.T) {
	s := NewStore(openDB(t), logging.Nop())

	err := s.Set(context.Background(), Credential{Username: "alice"})
	require.ErrorIs(t, err, ErrInvalidCredential)
	assert.Nil(t, s.Current())
}

func TestStore_ClearRemovesKeysButKeepsOthers(t *testing.T) {
	db := openDB(t)
	s := NewStore(db, logging.Nop())
	ctx := context.Background()
	repo := metadata.NewSQLiteRepository(db)

	require.NoError(t, repo.Set(ctx, "theme", []byte("dark")))
	require.NoError(t, s.Set(ctx, alice))
	require.NoError(t, s.Clear(ctx))

	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"theme": []byte("dark")}, m)
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestStore_RoundTripAcrossInstances(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, NewStore(db, logging.Nop()).Set(ctx, alice))

	restored := NewStore(db, logging.Nop())
	c, err := restored.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, alice, *c)
	assert.Equal(t, alice, *restored.Current())
}

func TestStore_LoadEmpty(t *testing.T) {
	c, err := NewStore(openDB(t), logging.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStore_LoadDropsExpiredToken(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	expired := alice
	expired.Token = signed(t, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, NewStore(db, logging.Nop()).Set(ctx, expired))

	s := NewStore(db, logging.Nop())
	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	m, err := metadata.NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestStore_LoadUsesSubjectWhenUsernameMissing(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := metadata.NewSQLiteRepository(db)

	tok := signed(t, jwt.MapClaims{"sub": "carol", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, repo.Set(ctx, KeyToken, []byte(tok)))

	c, err := NewStore(db, logging.Nop()).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "carol", c.Username)
}

func TestStore_LoadDropsIncompleteCredential(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := metadata.NewSQLiteRepository(db)

	require.NoError(t, repo.Set(ctx, "theme", []byte("dark")))
	require.NoError(t, repo.Set(ctx, KeyToken, []byte("opaque-token")))
	require.NoError(t, repo.Set(ctx, KeyEmail, []byte("a@example.com")))

	s := NewStore(db, logging.Nop())
	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, s.Current())

	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"theme": []byte("dark")}, m)
}

func TestStore_ObserversInOrderOutsideLock(t *testing.T) {
	s := NewStore(openDB(t), logging.Nop())
	ctx := context.Background()

	var calls []string
	s.Subscribe(func(prev, next *Credential) {
		// must not deadlock
		_ = s.Current()
		calls = append(calls, "first")
	})
	s.Subscribe(func(prev, next *Credential) { calls = append(calls, "second") })

	require.NoError(t, s.Set(ctx, alice))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestStore_ObserverSeesTransitions(t *testing.T) {
	s := NewStore(openDB(t), logging.Nop())
	ctx := context.Background()

	type change struct{ prev, next string }
	var got []change
	name := func(c *Credential) string {
		if c == nil {
			return ""
		}
		return c.Username
	}
	s.Subscribe(func(prev, next *Credential) { got = append(got, change{name(prev), name(next)}) })

	bob := Credential{UserID: "2", Token: "tok-b", Username: "bob"}

	require.NoError(t, s.Set(ctx, alice))
	require.NoError(t, s.Set(ctx, bob))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, []change{{"", "alice"}, {"alice", "bob"}, {"bob", ""}}, got)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore(openDB(t), logging.Nop())

	n := 0
	unsubscribe := s.Subscribe(func(prev, next *Credential) { n++ })
	unsubscribe()
	unsubscribe()

	require.NoError(t, s.Set(context.Background(), alice))
	assert.Zero(t, n)
}

func TestStore_CurrentIsACopy(t *testing.T) {
	s := NewStore(openDB(t), logging.Nop())
	require.NoError(t, s.Set(context.Background(), alice))

	c := s.Current()
	c.Username = "mallory"
	assert.Equal(t, "alice", s.Current().Username)
}
