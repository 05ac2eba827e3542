// Package engine implements the chess rules: move generation, check
// detection, castling, en passant, the fifty-move rule, notation, history
// and the Game coordinator that ties them together.
//
// Nothing in this package is safe for concurrent use. A host that serves a
// Game from several goroutines must guard it with one external lock.
package engine

import "github.com/benbeisheim/chess-backend/internal/model"

var (
	rookDirs   = []model.Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []model.Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]model.Position{}, rookDirs...), bishopDirs...)
	knightDirs = []model.Position{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
)

// generator returns the geometric reach of the piece standing on from.
type generator func(b *model.Board, from model.Position, pc *model.Piece) []model.Position

// generators is the single dispatch table over piece kinds.
var generators = map[model.PieceType]generator{
	model.Pawn:   pawnMoves,
	model.Knight: knightMoves,
	model.Bishop: bishopMoves,
	model.Rook:   rookMoves,
	model.Queen:  queenMoves,
	model.King:   kingMoves,
}

// MoveContext carries the game state that board geometry alone cannot show.
// A zero MoveContext yields plain pseudo-legal moves.
type MoveContext struct {
	Castling  *CastlingRights
	EnPassant *EnPassant
	// Ply is the number of the half-move about to be played, starting at 1.
	Ply int
}

// PseudoLegalMoves returns the squares the piece on from can reach by its
// movement pattern. King safety is not considered and castling is not included.
func PseudoLegalMoves(b *model.Board, from model.Position) []model.Position {
	pc := b.At(from)
	if pc == nil {
		return nil
	}
	gen, ok := generators[pc.Type]
	if !ok {
		return nil
	}
	return gen(b, from, pc)
}

// CandidateMoves extends PseudoLegalMoves with castling destinations and the
// en passant target when ctx supplies the trackers.
func CandidateMoves(b *model.Board, from model.Position, ctx MoveContext) []model.Position {
	moves := PseudoLegalMoves(b, from)
	pc := b.At(from)
	if pc == nil {
		return moves
	}
	switch pc.Type {
	case model.King:
		if ctx.Castling != nil {
			for _, rookCol := range []int{0, model.Size - 1} {
				rookSq := model.Position{Row: from.Row, Col: rookCol}
				if ctx.Castling.CanCastle(b, from, rookSq) {
					moves = append(moves, castleDestination(from, rookSq))
				}
			}
		}
	case model.Pawn:
		if ctx.EnPassant != nil {
			if target, ok := ctx.EnPassant.Target(ctx.Ply); ok && ctx.EnPassant.IsCapture(b, from, target, ctx.Ply) {
				moves = append(moves, target)
			}
		}
	}
	return moves
}

// PawnAttackSquares returns the two forward diagonals of the pawn on from,
// regardless of what occupies them.
func PawnAttackSquares(b *model.Board, from model.Position) []model.Position {
	pc := b.At(from)
	if pc == nil || pc.Type != model.Pawn {
		return nil
	}
	dir := pawnDirection(pc.Color)
	var squares []model.Position
	for _, dc := range []int{-1, 1} {
		if to := from.Offset(dir, dc); to.InBounds() {
			squares = append(squares, to)
		}
	}
	return squares
}

// attackSquares is what the piece on from threatens: pawn diagonals for
// pawns, the pseudo-legal reach for everything else.
func attackSquares(b *model.Board, from model.Position) []model.Position {
	pc := b.At(from)
	if pc != nil && pc.Type == model.Pawn {
		return PawnAttackSquares(b, from)
	}
	return PseudoLegalMoves(b, from)
}

func pawnDirection(c model.Color) int {
	if c == model.White {
		return -1
	}
	return 1
}

func pawnStartRow(c model.Color) int {
	if c == model.White {
		return model.Size - 2
	}
	return 1
}

func promotionRow(c model.Color) int {
	if c == model.White {
		return 0
	}
	return model.Size - 1
}

func pawnMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	var moves []model.Position
	dir := pawnDirection(pc.Color)

	one := from.Offset(dir, 0)
	if one.InBounds() && b.At(one) == nil {
		moves = append(moves, one)
		two := from.Offset(2*dir, 0)
		if from.Row == pawnStartRow(pc.Color) && b.At(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, to := range PawnAttackSquares(b, from) {
		if target := b.At(to); target != nil && target.Color != pc.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

func knightMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	return stepMoves(b, from, pc, knightDirs)
}

func kingMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	return stepMoves(b, from, pc, queenDirs)
}

func bishopMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	return rayMoves(b, from, pc, bishopDirs)
}

func rookMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	return rayMoves(b, from, pc, rookDirs)
}

func queenMoves(b *model.Board, from model.Position, pc *model.Piece) []model.Position {
	return rayMoves(b, from, pc, queenDirs)
}

func stepMoves(b *model.Board, from model.Position, pc *model.Piece, dirs []model.Position) []model.Position {
	var moves []model.Position
	for _, dir := range dirs {
		to := from.Offset(dir.Row, dir.Col)
		if !to.InBounds() {
			continue
		}
		if target := b.At(to); target == nil || target.Color != pc.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

// rayMoves walks each direction until the edge, an own piece (excluded) or
// an enemy piece (included).
func rayMoves(b *model.Board, from model.Position, pc *model.Piece, dirs []model.Position) []model.Position {
	var moves []model.Position
	for _, dir := range dirs {
		to := from.Offset(dir.Row, dir.Col)
		for to.InBounds() {
			target := b.At(to)
			if target == nil {
				moves = append(moves, to)
			} else {
				if target.Color != pc.Color {
					moves = append(moves, to)
				}
				break
			}
			to = to.Offset(dir.Row, dir.Col)
		}
	}
	return moves
}
