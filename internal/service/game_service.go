package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
)

// GameService is the entry point used by the controllers.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame returns the id and name of a new session.
func (gs *GameService) CreateGame() (string, string) {
	s := gs.gameManager.CreateGame()
	return s.ID, s.Name
}

func (gs *GameService) Session(gameID string) (*Session, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}
	return s, nil
}

func (gs *GameService) GetGameState(gameID string) (GameView, error) {
	s, err := gs.Session(gameID)
	if err != nil {
		return GameView{}, err
	}
	return s.View(), nil
}

func (gs *GameService) GetMoves(gameID string) ([]model.MoveHistoryItem, []model.Move, error) {
	s, err := gs.Session(gameID)
	if err != nil {
		return nil, nil, err
	}
	list, records := s.Moves()
	return list, records, nil
}

func (gs *GameService) Select(gameID string, pos model.Position) (engine.Outcome, GameView, error) {
	s, err := gs.Session(gameID)
	if err != nil {
		return engine.OutcomeIgnored, GameView{}, err
	}
	return s.Select(pos)
}

func (gs *GameService) Restart(gameID string) (GameView, error) {
	s, err := gs.Session(gameID)
	if err != nil {
		return GameView{}, err
	}
	return s.Restart(), nil
}

func (gs *GameService) ClaimFiftyMoveDraw(gameID string) (GameView, error) {
	return gs.withSession(gameID, (*Session).ClaimFiftyMoveDraw)
}

func (gs *GameService) HistoryBack(gameID string) (GameView, error) {
	return gs.withSession(gameID, (*Session).HistoryBack)
}

func (gs *GameService) HistoryForward(gameID string) (GameView, error) {
	return gs.withSession(gameID, (*Session).HistoryForward)
}

func (gs *GameService) ReturnToLive(gameID string) (GameView, error) {
	return gs.withSession(gameID, (*Session).ReturnToLive)
}

func (gs *GameService) withSession(gameID string, fn func(*Session) (GameView, error)) (GameView, error) {
	s, err := gs.Session(gameID)
	if err != nil {
		return GameView{}, err
	}
	return fn(s)
}
