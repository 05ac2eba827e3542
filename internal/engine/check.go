package engine

import (
	"slices"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// IsKingCheck reports whether color's king is attacked. It returns false
// when color has no king on the board.
func IsKingCheck(b *model.Board, color model.Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return len(attackersOf(b, king, color.Opponent())) > 0
}

// IsKingCheckAfterMove plays from->to on b, reports whether the mover's king
// is then in check, and restores both squares before returning.
func IsKingCheckAfterMove(b *model.Board, from, to model.Position) bool {
	return kingCheckAfter(b, from, to, nil)
}

// kingCheckAfter is IsKingCheckAfterMove with an optional extra square to
// clear during the simulation, used for en passant captures.
func kingCheckAfter(b *model.Board, from, to model.Position, captured *model.Position) bool {
	mover := b.At(from)
	if mover == nil {
		return false
	}
	target := b.At(to)
	var removed *model.Piece
	if captured != nil {
		removed = b.At(*captured)
		b.Set(*captured, nil)
	}
	b.Set(to, mover)
	b.Set(from, nil)

	inCheck := IsKingCheck(b, mover.Color)

	b.Set(from, mover)
	b.Set(to, target)
	if captured != nil {
		b.Set(*captured, removed)
	}
	return inCheck
}

// attackersOf lists the squares of by's pieces that attack sq.
func attackersOf(b *model.Board, sq model.Position, by model.Color) []model.Position {
	var attackers []model.Position
	b.Each(func(p model.Position, pc *model.Piece) {
		if pc.Color == by && slices.Contains(attackSquares(b, p), sq) {
			attackers = append(attackers, p)
		}
	})
	return attackers
}

// IsCheckmate reports whether color is in check with no king escape and no
// piece able to capture or block a single attacker.
func IsCheckmate(b *model.Board, color model.Color) bool {
	return isCheckmate(b, color, MoveContext{})
}

// IsStalemate reports whether color is not in check and has no legal move.
func IsStalemate(b *model.Board, color model.Color) bool {
	return isStalemate(b, color, MoveContext{})
}

func isCheckmate(b *model.Board, color model.Color, ctx MoveContext) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	attackers := attackersOf(b, king, color.Opponent())
	if len(attackers) == 0 {
		return false
	}
	for _, to := range PseudoLegalMoves(b, king) {
		if !kingCheckAfter(b, king, to, nil) {
			return false
		}
	}
	// A double check can only be met by moving the king.
	if len(attackers) > 1 {
		return true
	}
	return !canDefend(b, color, king, attackers[0], ctx)
}

// canDefend reports whether a piece other than the king can capture the
// attacker or, for a sliding attacker, step between it and the king.
func canDefend(b *model.Board, color model.Color, king, attacker model.Position, ctx MoveContext) bool {
	targets := []model.Position{attacker}
	if pc := b.At(attacker); pc != nil && isSlider(pc.Type) {
		targets = append(targets, squaresBetween(king, attacker)...)
	}

	defended := false
	b.Each(func(p model.Position, pc *model.Piece) {
		if defended || pc.Color != color || pc.Type == model.King {
			return
		}
		reach := PseudoLegalMoves(b, p)
		for _, sq := range targets {
			if slices.Contains(reach, sq) && !kingCheckAfter(b, p, sq, nil) {
				defended = true
				return
			}
		}
		if pc.Type == model.Pawn && ctx.EnPassant != nil {
			if target, ok := ctx.EnPassant.Target(ctx.Ply); ok && ctx.EnPassant.IsCapture(b, p, target, ctx.Ply) {
				victim := enPassantVictim(p, target)
				if !kingCheckAfter(b, p, target, &victim) {
					defended = true
				}
			}
		}
	})
	return defended
}

func isStalemate(b *model.Board, color model.Color, ctx MoveContext) bool {
	if IsKingCheck(b, color) {
		return false
	}
	return !hasLegalMove(b, color, ctx)
}

func hasLegalMove(b *model.Board, color model.Color, ctx MoveContext) bool {
	found := false
	b.Each(func(p model.Position, pc *model.Piece) {
		if found || pc.Color != color {
			return
		}
		for _, to := range CandidateMoves(b, p, ctx) {
			if !kingCheckAfter(b, p, to, captureSquare(b, p, to, ctx)) {
				found = true
				return
			}
		}
	})
	return found
}

// captureSquare returns the square of the pawn an en passant move from->to
// would remove, or nil for any other move.
func captureSquare(b *model.Board, from, to model.Position, ctx MoveContext) *model.Position {
	if ctx.EnPassant == nil || !ctx.EnPassant.IsCapture(b, from, to, ctx.Ply) {
		return nil
	}
	victim := enPassantVictim(from, to)
	return &victim
}

func isSlider(t model.PieceType) bool {
	return t == model.Bishop || t == model.Rook || t == model.Queen
}

// squaresBetween returns the squares strictly between a and b when they
// share a row, column or diagonal.
func squaresBetween(a, b model.Position) []model.Position {
	dr, dc := sign(b.Row-a.Row), sign(b.Col-a.Col)
	rowDist, colDist := abs(b.Row-a.Row), abs(b.Col-a.Col)
	if dr != 0 && dc != 0 && rowDist != colDist {
		return nil
	}
	var squares []model.Position
	for p := a.Offset(dr, dc); p != b && p.InBounds(); p = p.Offset(dr, dc) {
		squares = append(squares, p)
	}
	return squares
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
