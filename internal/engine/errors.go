package engine

import "errors"

// Rejections of a player's input. The message is meant to be shown as is.
var (
	ErrNoPieceOrWrongTurn = errors.New("no piece to move or wrong turn")
	ErrInvalidPieceMove   = errors.New("invalid move for this piece")
	ErrKingStillInCheck   = errors.New("king is still in check")
	ErrCheckNotResolved   = errors.New("this move doesn't remove the check")
	ErrExposesKing        = errors.New("this move exposes the king to check")
	ErrInvalidSelection   = errors.New("invalid selection: it's not your piece")
	ErrInvalidSquare      = errors.New("square is off the board")
	ErrIllegalCastle      = errors.New("invalid castling")
	ErrGameOver           = errors.New("game is already over")
	ErrNotClaimable       = errors.New("fifty-move draw cannot be claimed")
	ErrNoHistory          = errors.New("no snapshot in that direction")
)

// Internal invariant violations. A correctly driven game never produces them.
var (
	ErrMissingKing = errors.New("no king found")
	ErrMissingRook = errors.New("no rook found for castling")
)

var rejections = []error{
	ErrNoPieceOrWrongTurn,
	ErrInvalidPieceMove,
	ErrKingStillInCheck,
	ErrCheckNotResolved,
	ErrExposesKing,
	ErrInvalidSelection,
	ErrInvalidSquare,
	ErrIllegalCastle,
	ErrGameOver,
	ErrNotClaimable,
	ErrNoHistory,
}

// IsRejection reports whether err is one of the engine's refusal reasons.
// Invariant violations such as ErrMissingKing are not rejections.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
