package service

import (
	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
)

// GameView is the JSON shape of a session pushed to clients.
type GameView struct {
	ID                    string                               `json:"id"`
	Name                  string                               `json:"name"`
	Board                 [model.Size][model.Size]*model.Piece `json:"board"`
	Turn                  model.Color                          `json:"turn"`
	State                 model.Status                         `json:"state"`
	Loser                 model.Color                          `json:"loser,omitempty"`
	IsCheck               bool                                 `json:"isCheck"`
	Selected              *model.Position                      `json:"selected"`
	LegalMoves            []model.Position                     `json:"legalMoves"`
	HalfMoveCounter       int                                  `json:"halfMoveCounter"`
	CanClaimFiftyMoveDraw bool                                 `json:"canClaimFiftyMoveDraw"`
	ViewingHistory        bool                                 `json:"viewingHistory"`
	CanNavigateBack       bool                                 `json:"canNavigateBack"`
	CanNavigateForward    bool                                 `json:"canNavigateForward"`
	MoveHistory           []model.MoveHistoryItem              `json:"moveHistory"`
	LastMove              *model.SimpleMove                    `json:"lastMove"`
}

// newGameView must be called with the session lock held.
func newGameView(id, name string, g *engine.Game) GameView {
	v := GameView{
		ID:                    id,
		Name:                  name,
		Board:                 g.Board().Squares,
		Turn:                  g.Turn(),
		State:                 g.Status(),
		Loser:                 g.Loser(),
		IsCheck:               g.IsCheck(),
		LegalMoves:            []model.Position{},
		HalfMoveCounter:       g.HalfMoveCounter(),
		CanClaimFiftyMoveDraw: g.CanClaimFiftyMoveDraw(),
		ViewingHistory:        g.IsViewingHistory(),
		CanNavigateBack:       g.CanNavigateBack(),
		CanNavigateForward:    g.CanNavigateForward(),
		MoveHistory:           g.MoveHistory(),
	}
	if v.MoveHistory == nil {
		v.MoveHistory = []model.MoveHistoryItem{}
	}
	if sel, ok := g.Selected(); ok {
		v.Selected = &sel
		if moves := g.LegalMoves(sel); moves != nil {
			v.LegalMoves = moves
		}
	}
	if last, ok := g.LastMove(); ok {
		v.LastMove = &last
	}
	return v
}
