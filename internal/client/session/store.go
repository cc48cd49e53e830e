package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shopclient/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/shopclient/internal/dbx"
	"github.com/dmitrijs2005/shopclient/internal/logging"
)

// Storage keys.
const (
	KeyUserID   = "id"
	KeyToken    = "token"
	KeyUsername = "username"
	KeyEmail    = "email"
)

var allKeys = []string{KeyUserID, KeyToken, KeyUsername, KeyEmail}

// Observer is called with the previous and the next credential after every
// change. Either may be nil.
type Observer func(prev, next *Credential)

type observerEntry struct {
	id int
	fn Observer
}

// Store holds the current Credential in memory and in the metadata table.
type Store struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time

	mu        sync.Mutex
	current   *Credential
	observers []observerEntry
	nextID    int
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Current returns a copy of the current credential, or nil.
func (s *Store) Current() *Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Subscribe registers fn and returns a function that removes it. Observers run
// synchronously in registration order, outside the store lock.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Load restores a persisted credential. A token whose JWT expiry has passed
// is removed from storage instead of being restored.
func (s *Store) Load(ctx context.Context) (*Credential, error) {
	values, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	c := Credential{
		UserID:   string(values[KeyUserID]),
		Token:    string(values[KeyToken]),
		Username: string(values[KeyUsername]),
		Email:    string(values[KeyEmail]),
	}
	if c.Token == "" {
		return nil, nil
	}

	if exp, sub, ok := tokenClaims(c.Token); ok {
		if !exp.IsZero() && !exp.After(s.now()) {
			s.log.Info(ctx, "stored token expired", "username", c.Username, "exp", exp)
			if err := s.deleteKeys(ctx); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if c.Username == "" {
			c.Username = sub
		}
	}
	if err := c.Validate(); err != nil {
		s.log.Info(ctx, "stored credential incomplete", "error", err)
		if err := s.deleteKeys(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	s.replace(&c)
	return c.clone(), nil
}

// Set persists c and makes it current.
func (s *Store) Set(ctx context.Context, c Credential) error {
	if err := c.Validate(); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for key, value := range map[string]string{
			KeyUserID:   c.UserID,
			KeyToken:    c.Token,
			KeyUsername: c.Username,
			KeyEmail:    c.Email,
		} {
			if err := repo.Set(ctx, key, []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.replace(&c)
	return nil
}

// Clear removes the credential. Clearing an empty store does nothing.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	empty := s.current == nil
	s.mu.Unlock()
	if empty {
		return nil
	}

	if err := s.deleteKeys(ctx); err != nil {
		return err
	}
	s.replace(nil)
	return nil
}

func (s *Store) deleteKeys(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, allKeys...)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// replace swaps the current credential and notifies observers if it changed.
func (s *Store) replace(next *Credential) {
	s.mu.Lock()
	prev := s.current
	if prev == nil && next == nil {
		s.mu.Unlock()
		return
	}
	s.current = next.clone()
	observers := make([]Observer, len(s.observers))
	for i, o := range s.observers {
		observers[i] = o.fn
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(prev.clone(), next.clone())
	}
}

func (c *Credential) clone() *Credential {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
