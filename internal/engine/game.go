package engine

import (
	"github.com/benbeisheim/chess-backend/internal/model"
)

// Outcome is the result of a square selection.
type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomeSelected   Outcome = "selected"
	OutcomeUnselected Outcome = "unselected"
	OutcomeMoved      Outcome = "moved"
)

// Option configures a Game.
type Option func(*Game)

// WithGameID sets the id copied into every Move record.
func WithGameID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// WithBoardChanged registers fn to run after every change to the board,
// including restarts and history navigation.
func WithBoardChanged(fn func()) Option {
	return func(g *Game) {
		g.onBoardChanged = fn
	}
}

// WithMoveExecuted registers fn to receive each completed Move record.
func WithMoveExecuted(fn func(model.Move)) Option {
	return func(g *Game) {
		g.onMoveExecuted = fn
	}
}

// Game coordinates a single game driven by square selections.
type Game struct {
	id        string
	board     *model.Board
	castling  CastlingRights
	enPassant EnPassant
	status    *StatusManager
	tracker   MoveTracker
	history   *HistoryManager

	moves    []model.Move
	moveList []model.MoveHistoryItem
	ply      int
	selected *model.Position
	lastMove *model.SimpleMove

	onBoardChanged func()
	onMoveExecuted func(model.Move)
}

// NewGame returns a game in the standard starting position with White to move.
func NewGame(opts ...Option) *Game {
	g := &Game{
		board:   model.NewBoard(),
		status:  NewStatusManager(),
		history: NewHistoryManager(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.history.Capture(g.snapshot())
	return g
}

func (g *Game) ID() string { return g.id }

// Restart returns the game to the starting position and forgets all history.
func (g *Game) Restart() {
	g.board.Reset()
	g.castling.Reset()
	g.enPassant.Reset()
	g.status.Reset()
	g.tracker = MoveTracker{}
	g.history.Clear()
	g.moves = nil
	g.moveList = nil
	g.ply = 0
	g.selected = nil
	g.lastMove = nil
	g.history.Capture(g.snapshot())
	g.boardChanged()
}

// Select handles a click on pos. A terminal game ignores clicks. With nothing
// selected, a piece of the side to move is selected. Clicking the selected
// square again clears it. Any other square is treated as a move target; a
// rejected move clears the selection and returns the reason.
func (g *Game) Select(pos model.Position) (Outcome, error) {
	if !pos.InBounds() {
		return OutcomeIgnored, ErrInvalidSquare
	}
	if g.status.IsGameOver() {
		return OutcomeIgnored, nil
	}
	if g.selected == nil {
		pc := g.board.At(pos)
		if pc == nil || pc.Color != g.status.Turn() {
			return OutcomeIgnored, ErrInvalidSelection
		}
		g.selected = &pos
		return OutcomeSelected, nil
	}
	from := *g.selected
	g.selected = nil
	if from == pos {
		return OutcomeUnselected, nil
	}
	if _, err := g.Move(from, pos); err != nil {
		return OutcomeIgnored, err
	}
	return OutcomeMoved, nil
}

// Move validates and plays from->to for the side to move.
func (g *Game) Move(from, to model.Position) (model.Move, error) {
	if g.status.IsGameOver() {
		return model.Move{}, ErrGameOver
	}
	ctx := g.context()
	if err := ValidateMove(g.board, from, to, g.status.Turn(), ctx); err != nil {
		return model.Move{}, err
	}

	mover := g.board.At(from)
	captured := g.board.At(to)
	details := MoveDetails{
		ID:             g.ply + 1,
		GameID:         g.id,
		MoveNumber:     g.ply/2 + 1,
		Disambiguation: Disambiguate(g.board, from, to),
	}

	g.tracker.RecordMoveStart(g.board, from, to)
	switch {
	case mover.Type == model.King && abs(to.Col-from.Col) == 2:
		kingSide, err := g.castling.ExecuteCastle(g.board, from, to)
		if err != nil {
			g.tracker = MoveTracker{}
			return model.Move{}, err
		}
		details.KingSide, details.QueenSide = kingSide, !kingSide
	case g.enPassant.IsCapture(g.board, from, to, ctx.Ply):
		captured = g.enPassant.Execute(g.board, from, to)
		g.tracker.RecordCapture()
		details.EnPassant = true
	default:
		g.castling.Update(mover, captured, from, to)
		g.board.Move(from, to)
	}
	mover.HasMoved = true
	if mover.Type == model.Pawn && to.Row == promotionRow(mover.Color) {
		g.board.Set(to, &model.Piece{Type: model.Queen, Color: mover.Color, HasMoved: true})
	}
	g.tracker.RecordMoveEnd(g.board)

	g.enPassant.Update(mover, from, to, ctx.Ply)
	g.status.RecordMove(mover.Type == model.Pawn, captured != nil)
	verdict := g.status.Evaluate(g.board, MoveContext{Castling: &g.castling, EnPassant: &g.enPassant, Ply: ctx.Ply + 1})
	details.Check = verdict.Check
	details.Checkmate = verdict.Checkmate

	move := g.tracker.CreateMove(details)
	move.Notation = FormatMove(move)

	// Playing from a viewed snapshot discards the moves that followed it.
	truncated := len(g.moves) > g.ply
	g.moves = append(g.moves[:g.ply], move)
	if truncated {
		g.rebuildMoveList()
	} else {
		g.appendMoveList(move)
	}
	g.ply++
	g.selected = nil
	g.lastMove = &model.SimpleMove{From: from, To: to}
	g.history.Capture(g.snapshot())

	g.boardChanged()
	if g.onMoveExecuted != nil {
		g.onMoveExecuted(move)
	}
	return move, nil
}

// LegalMoves lists the squares the piece on pos may move to now. It is empty
// for an empty square, an opponent's piece, or a finished game.
func (g *Game) LegalMoves(pos model.Position) []model.Position {
	pc := g.board.At(pos)
	if pc == nil || pc.Color != g.status.Turn() || g.status.IsGameOver() {
		return nil
	}
	return LegalMoves(g.board, pos, g.context())
}

// ClaimFiftyMoveDraw ends the game as a draw when the counter allows it.
// Claiming while viewing history abandons the later moves.
func (g *Game) ClaimFiftyMoveDraw() error {
	if err := g.status.ClaimFiftyMoveDraw(); err != nil {
		return err
	}
	if len(g.moves) > g.ply {
		g.moves = g.moves[:g.ply]
		g.rebuildMoveList()
	}
	g.selected = nil
	g.history.Commit()
	g.history.ReplaceLast(g.snapshot())
	g.boardChanged()
	return nil
}

// HistoryBack shows the position one ply earlier.
func (g *Game) HistoryBack() (model.BoardSnapshot, error) {
	s, ok := g.history.Back()
	if !ok {
		return model.BoardSnapshot{}, ErrNoHistory
	}
	g.restore(s)
	return s, nil
}

// HistoryForward shows the position one ply later.
func (g *Game) HistoryForward() (model.BoardSnapshot, error) {
	s, ok := g.history.Forward()
	if !ok {
		return model.BoardSnapshot{}, ErrNoHistory
	}
	g.restore(s)
	return s, nil
}

// ReturnToLive leaves history browsing and shows the latest position.
func (g *Game) ReturnToLive() (model.BoardSnapshot, error) {
	s, ok := g.history.ReturnToLive()
	if !ok {
		return model.BoardSnapshot{}, ErrNoHistory
	}
	g.restore(s)
	return s, nil
}

func (g *Game) IsViewingHistory() bool { return g.history.IsViewingHistory() }
func (g *Game) CanNavigateBack() bool { return g.history.CanNavigateBack() }
func (g *Game) CanNavigateForward() bool { return g.history.CanNavigateForward() }

func (g *Game) Turn() model.Color { return g.status.Turn() }
func (g *Game) Status() model.Status { return g.status.Status() }
func (g *Game) Loser() model.Color { return g.status.Loser() }
func (g *Game) IsGameOver() bool { return g.status.IsGameOver() }
func (g *Game) HalfMoveCounter() int { return g.status.HalfMoveCounter() }
func (g *Game) CanClaimFiftyMoveDraw() bool { return g.status.CanClaimFiftyMoveDraw() }

// IsCheck reports whether the side to move, or the mated side once the game
// ends in checkmate, is in check.
func (g *Game) IsCheck() bool {
	_, ok := g.CheckedColor()
	return ok
}

// CheckedColor returns the side whose king is attacked. After checkmate the
// turn stays with the winner, so the loser is examined instead.
func (g *Game) CheckedColor() (model.Color, bool) {
	side := g.status.Turn()
	if g.status.Status() == model.StatusCheckmate {
		side = g.status.Loser()
	}
	return side, IsKingCheck(g.board, side)
}

// Selected returns the selected square, if any.
func (g *Game) Selected() (model.Position, bool) {
	if g.selected == nil {
		return model.Position{}, false
	}
	return *g.selected, true
}

// LastMove returns the squares of the most recent move in the shown position.
func (g *Game) LastMove() (model.SimpleMove, bool) {
	if g.lastMove == nil {
		return model.SimpleMove{}, false
	}
	return *g.lastMove, true
}

// Board returns a copy of the shown position.
func (g *Game) Board() *model.Board { return g.board.Clone() }

// Snapshot captures the shown position.
func (g *Game) Snapshot() model.BoardSnapshot { return g.snapshot() }

// Moves returns every recorded move, including those after a viewed snapshot.
func (g *Game) Moves() []model.Move {
	return append([]model.Move(nil), g.moves...)
}

// MoveHistory returns the move list paired by full move.
func (g *Game) MoveHistory() []model.MoveHistoryItem {
	return append([]model.MoveHistoryItem(nil), g.moveList...)
}

func (g *Game) context() MoveContext {
	return MoveContext{Castling: &g.castling, EnPassant: &g.enPassant, Ply: g.ply + 1}
}

func (g *Game) snapshot() model.BoardSnapshot {
	s := model.BoardSnapshot{
		Ply:             g.ply,
		MoveNumber:      g.ply/2 + 1,
		Squares:         model.CaptureSquares(g.board),
		Turn:            g.status.Turn(),
		HalfMoveCounter: g.status.HalfMoveCounter(),
		Castling:        g.castling.Snapshot(),
		EnPassant:       g.enPassant.Snapshot(),
		Status:          g.status.Status(),
		Loser:           g.status.Loser(),
	}
	if g.lastMove != nil {
		lm := *g.lastMove
		s.LastMove = &lm
	}
	return s
}

// restore makes s the live state of the engine.
func (g *Game) restore(s model.BoardSnapshot) {
	g.board = s.RestoreBoard()
	g.castling.Restore(s.Castling)
	g.enPassant.Restore(s.EnPassant)
	g.status.restore(s.Turn, s.Status, s.Loser, s.HalfMoveCounter)
	g.ply = s.Ply
	g.selected = nil
	g.lastMove = nil
	if s.LastMove != nil {
		lm := *s.LastMove
		g.lastMove = &lm
	}
	g.boardChanged()
}

func (g *Game) appendMoveList(m model.Move) {
	if m.Color == model.White || len(g.moveList) == 0 {
		item := model.MoveHistoryItem{MoveNumber: m.MoveNumber}
		if m.Color == model.White {
			item.WhiteMove = m.Notation
		} else {
			item.BlackMove = m.Notation
		}
		g.moveList = append(g.moveList, item)
		return
	}
	g.moveList[len(g.moveList)-1].BlackMove = m.Notation
}

func (g *Game) rebuildMoveList() {
	g.moveList = nil
	for _, m := range g.moves {
		g.appendMoveList(m)
	}
}

func (g *Game) boardChanged() {
	if g.onBoardChanged != nil {
		g.onBoardChanged()
	}
}
