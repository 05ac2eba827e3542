package service

import (
	"context"
	"errors"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager holds the live sessions, keyed by uuid.
type GameManager struct {
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
	mu          sync.RWMutex
}

func NewGameManager(idleTimeout time.Duration) *GameManager {
	return &GameManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// CreateGame starts a new session in the standard starting position.
func (gm *GameManager) CreateGame() *Session {
	gameID := uuid.New().String()
	s := newSession(gameID, petname.Generate(2, "-"), gm.now)

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.sessions[gameID] = s
	log.Debugf("created game %s (%s)", gameID, s.Name)
	return s
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.sessions[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return s, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.sessions, gameID)
}

func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// Reap removes sessions with no subscribers and no activity within the idle
// timeout. It returns how many were removed.
func (gm *GameManager) Reap() int {
	cutoff := gm.now().Add(-gm.idleTimeout)

	gm.mu.Lock()
	defer gm.mu.Unlock()
	removed := 0
	for id, s := range gm.sessions {
		if s.idleSince(cutoff) {
			delete(gm.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Infof("reaped %d idle games, %d left", removed, len(gm.sessions))
	}
	return removed
}

// RunReaper calls Reap every interval until ctx is done.
func (gm *GameManager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.Reap()
		}
	}
}
