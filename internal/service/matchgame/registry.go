package matchgame

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry keeps the running games of a server in memory, keyed by game ID.
// Games are lost when the process restarts.
type Registry struct {
	mu     sync.RWMutex
	games  map[string]*Controller
	now    func() time.Time
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		games:  make(map[string]*Controller),
		now:    time.Now,
		logger: logger.With("component", "game_registry"),
	}
}

// Add stores a game, replacing any game with the same ID.
func (r *Registry) Add(c *Controller) {
	r.mu.Lock()
	old := r.games[c.ID()]
	r.games[c.ID()] = c
	r.mu.Unlock()

	if old != nil && old != c {
		old.Close()
	}
}

// Get looks up a game by ID.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.games[id]; ok {
		return c, nil
	}
	return nil, ErrGameNotFound
}

// Remove closes and forgets a game.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	c, ok := r.games[id]
	delete(r.games, id)
	r.mu.Unlock()

	if !ok {
		return ErrGameNotFound
	}
	c.Close()
	return nil
}

// Len returns the number of games held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// EvictIdle closes and removes every game whose last activity is older than
// maxIdle. Returns the number of evicted games.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Controller
	for id, c := range r.games {
		if c.LastActive().Before(cutoff) {
			idle = append(idle, c)
			delete(r.games, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		r.logger.Info("evicted idle games", "count", len(idle), "max_idle", maxIdle)
	}
	return len(idle)
}

// RunSweeper evicts idle games every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle(maxIdle)
		}
	}
}

// CloseAll closes and removes every game.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	games := r.games
	r.games = make(map[string]*Controller)
	r.mu.Unlock()

	for _, c := range games {
		c.Close()
	}
}
