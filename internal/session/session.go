// Package session owns per-session mutable state: the saved profile and the
// chat history. State lives in memory only; there is no durability guarantee
// beyond the process lifetime.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/david/opportunity-navigator/internal/recommend"
)

var ErrNotFound = errors.New("session not found")

// Greeting seeds the chat history of every new session.
const Greeting = "Hi! I can help you explore opportunities using AI."

// Message is one chat turn. History is display-only; the recommender never
// reads it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the state owned by one interactive session.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Profile   recommend.Profile `json:"profile"`
	Messages  []Message         `json:"messages"`
}

// Store keeps sessions in memory, keyed by id. The mutex guards concurrent
// HTTP requests; within a session there is only one logical actor.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new session with empty profile defaults and the
// assistant greeting, and returns a copy of it.
func (s *Store) Create(now time.Time) Session {
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		Messages:  []Message{{Role: "assistant", Content: Greeting}},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshot(sess)
}

// Get returns a copy of the session, or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return snapshot(sess), nil
}

// ReplaceProfile atomically replaces the stored profile. Saving never merges.
func (s *Store) ReplaceProfile(id uuid.UUID, profile recommend.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Profile = profile
	return nil
}

// AppendMessages appends chat turns to the session history.
func (s *Store) AppendMessages(id uuid.UUID, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Messages = append(sess.Messages, msgs...)
	return nil
}

func snapshot(sess *Session) Session {
	out := *sess
	out.Messages = make([]Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	out.Profile.Skills = make([]string, len(sess.Profile.Skills))
	copy(out.Profile.Skills, sess.Profile.Skills)
	if sess.Profile.Year != nil {
		year := *sess.Profile.Year
		out.Profile.Year = &year
	}
	return out
}
