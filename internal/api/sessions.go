package api

import (
	"context"
	"sync"
	"time"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/conversation"
)

type session struct {
	conv     *conversation.Conversation
	lastSeen time.Time
}

// Sessions keeps the live conversations of this process in memory. A session
// untouched for idleTTL is dropped; idleTTL <= 0 keeps sessions forever.
type Sessions struct {
	engine  *conversation.Engine
	idleTTL time.Duration
	now     func() time.Time
	logger  logger.Logger

	mu    sync.Mutex
	items map[string]*session
}

func NewSessions(engine *conversation.Engine, idleTTL time.Duration, log logger.Logger) *Sessions {
	return &Sessions{
		engine:  engine,
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  log,
		items:   make(map[string]*session),
	}
}

func (s *Sessions) Create() *conversation.Conversation {
	c := conversation.New(s.engine, s.logger)

	s.mu.Lock()
	s.items[c.ID()] = &session{conv: c, lastSeen: s.now()}
	s.mu.Unlock()
	return c
}

// Get returns a live session and marks it as used.
func (s *Sessions) Get(id string) (*conversation.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.items, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess.conv, true
}

func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Sweep drops every expired session and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.items {
		if s.expired(sess, now) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("idle sessions evicted", map[string]interface{}{
					"evicted": n,
					"live":    s.Len(),
				})
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// A session with a round in flight never expires.
func (s *Sessions) expired(sess *session, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(sess.lastSeen) > s.idleTTL && !sess.conv.IsProcessing()
}
