package engine

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
)

const (
	queenSide = 0
	kingSide  = 1
)

// CastlingRights remembers, per colour, whether the king and each of its
// rooks have left their starting squares. Flags only ever go from false to
// true until Reset.
type CastlingRights struct {
	kingMoved [2]bool
	rookMoved [2][2]bool
}

func colorIndex(c model.Color) int {
	if c == model.White {
		return 0
	}
	return 1
}

func homeRow(c model.Color) int {
	if c == model.White {
		return model.Size - 1
	}
	return 0
}

// rookSide maps a rook's starting column to its side, or -1.
func rookSide(col int) int {
	switch col {
	case 0:
		return queenSide
	case model.Size - 1:
		return kingSide
	}
	return -1
}

func (r *CastlingRights) MarkKingMoved(c model.Color) {
	r.kingMoved[colorIndex(c)] = true
}

// MarkRookMoved records that the rook starting on column col has moved or
// been captured. Other columns are ignored.
func (r *CastlingRights) MarkRookMoved(c model.Color, col int) {
	if side := rookSide(col); side >= 0 {
		r.rookMoved[colorIndex(c)][side] = true
	}
}

func (r *CastlingRights) KingMoved(c model.Color) bool {
	return r.kingMoved[colorIndex(c)]
}

func (r *CastlingRights) RookMoved(c model.Color, col int) bool {
	side := rookSide(col)
	if side < 0 {
		return true
	}
	return r.rookMoved[colorIndex(c)][side]
}

func (r *CastlingRights) Reset() {
	*r = CastlingRights{}
}

// Update applies the effect of a move about to leave from for to. mover is
// the moving piece and captured whatever stood on to.
func (r *CastlingRights) Update(mover, captured *model.Piece, from, to model.Position) {
	if mover != nil {
		switch mover.Type {
		case model.King:
			r.MarkKingMoved(mover.Color)
		case model.Rook:
			if from.Row == homeRow(mover.Color) {
				r.MarkRookMoved(mover.Color, from.Col)
			}
		}
	}
	if captured != nil && captured.Type == model.Rook && to.Row == homeRow(captured.Color) {
		r.MarkRookMoved(captured.Color, to.Col)
	}
}

// CanCastle reports whether the king on kingSq may castle with the rook on
// rookSq. It never changes b.
func (r *CastlingRights) CanCastle(b *model.Board, kingSq, rookSq model.Position) bool {
	king, rook := b.At(kingSq), b.At(rookSq)
	if king == nil || king.Type != model.King || rook == nil || rook.Type != model.Rook || rook.Color != king.Color {
		return false
	}
	if r.KingMoved(king.Color) || r.RookMoved(king.Color, rookSq.Col) || king.HasMoved || rook.HasMoved {
		return false
	}
	if kingSq.Row != rookSq.Row || kingSq.Row != homeRow(king.Color) || kingSq.Col != 4 {
		return false
	}
	for _, sq := range squaresBetween(kingSq, rookSq) {
		if b.At(sq) != nil {
			return false
		}
	}
	if IsKingCheck(b, king.Color) {
		return false
	}
	dir := sign(rookSq.Col - kingSq.Col)
	for step := 1; step <= 2; step++ {
		if kingCheckAfter(b, kingSq, kingSq.Offset(0, step*dir), nil) {
			return false
		}
	}
	return true
}

// castleDestination is where the king lands when castling with rookSq.
func castleDestination(kingSq, rookSq model.Position) model.Position {
	return kingSq.Offset(0, 2*sign(rookSq.Col-kingSq.Col))
}

// ExecuteCastle moves the king from kingSq to kingDest and the matching rook
// to the square the king crossed. Both halves are validated before either
// piece moves. It reports whether the castle was on the king side.
func (r *CastlingRights) ExecuteCastle(b *model.Board, kingSq, kingDest model.Position) (bool, error) {
	king := b.At(kingSq)
	if king == nil || king.Type != model.King {
		return false, ErrMissingKing
	}
	dir := sign(kingDest.Col - kingSq.Col)
	if kingDest.Row != kingSq.Row || abs(kingDest.Col-kingSq.Col) != 2 {
		return false, fmt.Errorf("%w: king cannot reach %s", ErrIllegalCastle, kingDest)
	}
	rookSq := model.Position{Row: kingSq.Row, Col: 0}
	if dir > 0 {
		rookSq.Col = model.Size - 1
	}
	if rook := b.At(rookSq); rook == nil || rook.Type != model.Rook || rook.Color != king.Color {
		return false, ErrMissingRook
	}
	if !r.CanCastle(b, kingSq, rookSq) {
		return false, ErrIllegalCastle
	}

	rook := b.At(rookSq)
	b.Move(kingSq, kingDest)
	b.Move(rookSq, kingSq.Offset(0, dir))
	king.HasMoved = true
	rook.HasMoved = true
	r.MarkKingMoved(king.Color)
	r.MarkRookMoved(king.Color, rookSq.Col)
	return dir > 0, nil
}

func (r *CastlingRights) Snapshot() model.CastlingRightsSnapshot {
	return model.CastlingRightsSnapshot{
		WhiteKingMoved:      r.kingMoved[0],
		BlackKingMoved:      r.kingMoved[1],
		WhiteQueenRookMoved: r.rookMoved[0][queenSide],
		WhiteKingRookMoved:  r.rookMoved[0][kingSide],
		BlackQueenRookMoved: r.rookMoved[1][queenSide],
		BlackKingRookMoved:  r.rookMoved[1][kingSide],
	}
}

func (r *CastlingRights) Restore(s model.CastlingRightsSnapshot) {
	r.kingMoved = [2]bool{s.WhiteKingMoved, s.BlackKingMoved}
	r.rookMoved = [2][2]bool{
		{s.WhiteQueenRookMoved, s.WhiteKingRookMoved},
		{s.BlackQueenRookMoved, s.BlackKingRookMoved},
	}
}
