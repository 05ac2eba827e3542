package engine

import (
	"slices"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// ValidateMove decides whether the side to move may play from->to. It
// returns nil for a legal move and one of the rejection errors otherwise.
// The board is left unchanged either way.
func ValidateMove(b *model.Board, from, to model.Position, turn model.Color, ctx MoveContext) error {
	if !from.InBounds() || !to.InBounds() {
		return ErrInvalidSquare
	}
	pc := b.At(from)
	if pc == nil || pc.Color != turn {
		return ErrNoPieceOrWrongTurn
	}
	if !slices.Contains(CandidateMoves(b, from, ctx), to) {
		return ErrInvalidPieceMove
	}

	captured := captureSquare(b, from, to, ctx)
	if IsKingCheck(b, turn) {
		if kingCheckAfter(b, from, to, captured) {
			if pc.Type == model.King {
				return ErrKingStillInCheck
			}
			return ErrCheckNotResolved
		}
		return nil
	}
	if kingCheckAfter(b, from, to, captured) {
		return ErrExposesKing
	}
	return nil
}

// LegalMoves returns every destination the piece on from may legally reach.
func LegalMoves(b *model.Board, from model.Position, ctx MoveContext) []model.Position {
	pc := b.At(from)
	if pc == nil {
		return nil
	}
	var legal []model.Position
	for _, to := range CandidateMoves(b, from, ctx) {
		if ValidateMove(b, from, to, pc.Color, ctx) == nil {
			legal = append(legal, to)
		}
	}
	return legal
}
