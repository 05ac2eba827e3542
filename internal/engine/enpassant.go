package engine

import "github.com/benbeisheim/chess-backend/internal/model"

// EnPassant tracks the square a pawn skipped over on its two-square advance.
// The target is only usable on the ply right after the one that created it.
type EnPassant struct {
	target    model.Position
	active    bool
	createdAt int
}

// Update records or clears the target after the move from->to by pc, which
// was played as half-move ply.
func (e *EnPassant) Update(pc *model.Piece, from, to model.Position, ply int) {
	if pc != nil && pc.Type == model.Pawn && from.Col == to.Col && abs(to.Row-from.Row) == 2 {
		e.target = model.Position{Row: (from.Row + to.Row) / 2, Col: from.Col}
		e.active = true
		e.createdAt = ply
		return
	}
	e.Reset()
}

// Target returns the capture square if it is still open on half-move ply.
func (e *EnPassant) Target(ply int) (model.Position, bool) {
	if !e.active || ply != e.createdAt+1 {
		return model.Position{}, false
	}
	return e.target, true
}

// IsCapture reports whether from->to is a legal-geometry en passant capture
// on half-move ply.
func (e *EnPassant) IsCapture(b *model.Board, from, to model.Position, ply int) bool {
	target, ok := e.Target(ply)
	if !ok || to != target {
		return false
	}
	pawn := b.At(from)
	if pawn == nil || pawn.Type != model.Pawn || b.At(to) != nil {
		return false
	}
	if abs(from.Col-to.Col) != 1 || to.Row-from.Row != pawnDirection(pawn.Color) {
		return false
	}
	// The capturing pawn must stand on its fifth rank.
	if from.Row != captureRow(pawn.Color) {
		return false
	}
	victim := b.At(enPassantVictim(from, to))
	return victim != nil && victim.Type == model.Pawn && victim.Color != pawn.Color
}

// Execute moves the pawn from->to and removes the pawn it passed, returning
// the removed piece.
func (e *EnPassant) Execute(b *model.Board, from, to model.Position) *model.Piece {
	victimSq := enPassantVictim(from, to)
	victim := b.At(victimSq)
	b.Set(victimSq, nil)
	b.Move(from, to)
	return victim
}

func (e *EnPassant) Reset() {
	*e = EnPassant{}
}

func (e *EnPassant) Snapshot() model.EnPassantSnapshot {
	return model.EnPassantSnapshot{Active: e.active, Target: e.target, CreatedAt: e.createdAt}
}

func (e *EnPassant) Restore(s model.EnPassantSnapshot) {
	e.active = s.Active
	e.target = s.Target
	e.createdAt = s.CreatedAt
}

// enPassantVictim is the square of the pawn removed by an en passant capture:
// the capturer's row, the destination's column.
func enPassantVictim(from, to model.Position) model.Position {
	return model.Position{Row: from.Row, Col: to.Col}
}

func captureRow(c model.Color) int {
	if c == model.White {
		return 3
	}
	return 4
}
