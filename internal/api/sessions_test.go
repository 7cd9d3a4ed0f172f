package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/common/logger"
	"catalog-assistant/internal/common/observability"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/response"
)

func newTestSessions(t *testing.T, idleTTL time.Duration) *Sessions {
	log := logger.NewTestLogger(t)
	engine := conversation.NewEngine(stubGateway{}, response.NewFormatter(response.DefaultPriceFormat(), 5), observability.NewNoop(), log)
	return NewSessions(engine, idleTTL, log)
}

func TestSessions_Sweep(t *testing.T) {
	s := newTestSessions(t, time.Minute)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	stale := s.Create()
	now = now.Add(45 * time.Second)
	fresh := s.Create()

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, s.Sweep())

	_, ok := s.Get(stale.ID())
	assert.False(t, ok)
	_, ok = s.Get(fresh.ID())
	assert.True(t, ok)
}

func TestSessions_NoTTLKeepsSessions(t *testing.T) {
	s := newTestSessions(t, 0)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	c := s.Create()
	now = now.Add(24 * time.Hour)

	assert.Zero(t, s.Sweep())
	_, ok := s.Get(c.ID())
	assert.True(t, ok)
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	s := newTestSessions(t, time.Millisecond)
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
