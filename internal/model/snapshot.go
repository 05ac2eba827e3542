package model

// Status is the lifecycle state of a game.
type Status string

const (
	StatusInProgress    Status = "in_progress"
	StatusCheckmate     Status = "checkmate"
	StatusStalemate     Status = "stalemate"
	StatusFiftyMoveDraw Status = "fifty_move_draw"
)

// IsTerminal reports whether no further moves may be made.
func (s Status) IsTerminal() bool {
	return s == StatusCheckmate || s == StatusStalemate || s == StatusFiftyMoveDraw
}

// PieceSnapshot is a value copy of a piece, never shared with a live board.
type PieceSnapshot struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// CastlingRightsSnapshot records which castling pieces have moved.
type CastlingRightsSnapshot struct {
	WhiteKingMoved      bool `json:"whiteKingMoved"`
	BlackKingMoved      bool `json:"blackKingMoved"`
	WhiteQueenRookMoved bool `json:"whiteQueenRookMoved"`
	WhiteKingRookMoved  bool `json:"whiteKingRookMoved"`
	BlackQueenRookMoved bool `json:"blackQueenRookMoved"`
	BlackKingRookMoved  bool `json:"blackKingRookMoved"`
}

// EnPassantSnapshot records a pending en passant target and the ply that created it.
type EnPassantSnapshot struct {
	Active    bool     `json:"active"`
	Target    Position `json:"target"`
	CreatedAt int      `json:"createdAt"`
}

// BoardSnapshot is a full, independent copy of the game after a given ply.
type BoardSnapshot struct {
	Ply             int                        `json:"ply"`
	MoveNumber      int                        `json:"moveNumber"`
	Squares         [Size][Size]*PieceSnapshot `json:"board"`
	Turn            Color                      `json:"turn"`
	HalfMoveCounter int                        `json:"halfMoveCounter"`
	Castling        CastlingRightsSnapshot     `json:"castling"`
	EnPassant       EnPassantSnapshot          `json:"enPassant"`
	Status          Status                     `json:"status"`
	Loser           Color                      `json:"loser,omitempty"`
	LastMove        *SimpleMove                `json:"lastMove,omitempty"`
}

// CaptureSquares deep-copies the occupancy of b.
func CaptureSquares(b *Board) [Size][Size]*PieceSnapshot {
	var squares [Size][Size]*PieceSnapshot
	b.Each(func(p Position, pc *Piece) {
		squares[p.Row][p.Col] = &PieceSnapshot{Type: pc.Type, Color: pc.Color, HasMoved: pc.HasMoved}
	})
	return squares
}

// RestoreBoard builds a new live board from the snapshot's occupancy.
func (s BoardSnapshot) RestoreBoard() *Board {
	b := NewEmptyBoard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if ps := s.Squares[row][col]; ps != nil {
				b.Squares[row][col] = &Piece{Type: ps.Type, Color: ps.Color, HasMoved: ps.HasMoved}
			}
		}
	}
	return b
}

// Clone returns a copy of s that shares no pointers with it.
func (s BoardSnapshot) Clone() BoardSnapshot {
	out := s
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if ps := s.Squares[row][col]; ps != nil {
				cp := *ps
				out.Squares[row][col] = &cp
			}
		}
	}
	if s.LastMove != nil {
		lm := *s.LastMove
		out.LastMove = &lm
	}
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := NewEmptyBoard()
	b.Each(func(p Position, pc *Piece) {
		cp := *pc
		out.Squares[p.Row][p.Col] = &cp
	})
	return out
}
