package engine

import "github.com/benbeisheim/chess-backend/internal/model"

// MoveDetails are the facts about a move that only the caller knows.
type MoveDetails struct {
	ID             int
	GameID         string
	MoveNumber     int
	KingSide       bool
	QueenSide      bool
	EnPassant      bool
	Disambiguation string
	Check          bool
	Checkmate      bool
}

// MoveTracker gathers what happened during one move execution. It is
// bracketed by RecordMoveStart and RecordMoveEnd and emptied by CreateMove.
type MoveTracker struct {
	started    bool
	from, to   model.Position
	piece      model.PieceType
	color      model.Color
	captured   bool
	promotedTo string
}

// RecordMoveStart notes the mover and any piece on the destination before
// the board changes.
func (t *MoveTracker) RecordMoveStart(b *model.Board, from, to model.Position) {
	*t = MoveTracker{started: true, from: from, to: to}
	if pc := b.At(from); pc != nil {
		t.piece = pc.Type
		t.color = pc.Color
	}
	t.captured = b.At(to) != nil
}

// RecordCapture marks the move as a capture when the taken piece was not on
// the destination square.
func (t *MoveTracker) RecordCapture() {
	t.captured = true
}

// RecordMoveEnd inspects the board after the move to detect a promotion.
func (t *MoveTracker) RecordMoveEnd(b *model.Board) {
	if pc := b.At(t.to); pc != nil && t.piece == model.Pawn && pc.Type != model.Pawn {
		t.promotedTo = pc.Type.Letter()
	}
}

// CreateMove builds the immutable record and resets the tracker. The
// Notation field is left for the formatter.
func (t *MoveTracker) CreateMove(d MoveDetails) model.Move {
	m := model.Move{
		ID:                d.ID,
		GameID:            d.GameID,
		MoveNumber:        d.MoveNumber,
		Color:             t.color,
		Piece:             t.piece.Letter(),
		From:              t.from.String(),
		To:                t.to.String(),
		Disambiguation:    d.Disambiguation,
		PromotedTo:        t.promotedTo,
		IsCapture:         t.captured,
		IsEnPassant:       d.EnPassant,
		IsCheck:           d.Check,
		IsCheckmate:       d.Checkmate,
		IsKingSideCastle:  d.KingSide,
		IsQueenSideCastle: d.QueenSide,
		IsPawnPromotion:   t.promotedTo != "",
	}
	*t = MoveTracker{}
	return m
}

// Recording reports whether a move is between RecordMoveStart and CreateMove.
func (t *MoveTracker) Recording() bool { return t.started }
