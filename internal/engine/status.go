package engine

import "github.com/benbeisheim/chess-backend/internal/model"

// Verdict describes the position the side to move now faces.
type Verdict struct {
	Check     bool
	Checkmate bool
	Stalemate bool
}

// StatusManager owns the turn, the terminal state and the fifty-move counter.
type StatusManager struct {
	turn   model.Color
	status model.Status
	loser  model.Color
	fifty  FiftyMoveCounter
}

func NewStatusManager() *StatusManager {
	s := &StatusManager{}
	s.Reset()
	return s
}

func (s *StatusManager) Reset() {
	s.turn = model.White
	s.status = model.StatusInProgress
	s.loser = ""
	s.fifty.Reset()
}

func (s *StatusManager) Turn() model.Color { return s.turn }
func (s *StatusManager) Status() model.Status { return s.status }
func (s *StatusManager) Loser() model.Color { return s.loser }
func (s *StatusManager) IsGameOver() bool { return s.status.IsTerminal() }
func (s *StatusManager) HalfMoveCounter() int { return s.fifty.Count() }

// CanClaimFiftyMoveDraw reports whether the fifty-move draw may be claimed now.
func (s *StatusManager) CanClaimFiftyMoveDraw() bool {
	return !s.IsGameOver() && s.fifty.IsDrawReached()
}

// ClaimFiftyMoveDraw ends the game as a draw if the claim is allowed.
func (s *StatusManager) ClaimFiftyMoveDraw() error {
	if s.IsGameOver() {
		return ErrGameOver
	}
	if !s.fifty.IsDrawReached() {
		return ErrNotClaimable
	}
	s.status = model.StatusFiftyMoveDraw
	return nil
}

// RecordMove advances the fifty-move counter for the move just played.
func (s *StatusManager) RecordMove(pawnMove, capture bool) {
	s.fifty.Update(pawnMove, capture)
}

// Evaluate looks at the position from the opponent's side after a move by
// the side to move. A checkmate or stalemate ends the game and keeps the
// turn; otherwise the turn passes.
func (s *StatusManager) Evaluate(b *model.Board, ctx MoveContext) Verdict {
	next := s.turn.Opponent()
	v := Verdict{Check: IsKingCheck(b, next)}
	switch {
	case v.Check && isCheckmate(b, next, ctx):
		v.Checkmate = true
		s.status = model.StatusCheckmate
		s.loser = next
	case !v.Check && isStalemate(b, next, ctx):
		v.Stalemate = true
		s.status = model.StatusStalemate
	default:
		s.turn = next
	}
	return v
}

// restore puts the manager back into a previously captured state.
func (s *StatusManager) restore(turn model.Color, status model.Status, loser model.Color, halfMoves int) {
	s.turn = turn
	s.status = status
	s.loser = loser
	s.fifty.set(halfMoves)
}
