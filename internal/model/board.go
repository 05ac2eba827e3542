package model

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PieceTypes lists every kind of piece.
var PieceTypes = []PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// Letter returns the algebraic letter of the piece, empty for a pawn.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Title returns the capitalised colour name for display.
func (c Color) Title() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Piece is owned by exactly one square. Type and Color never change after
// construction except for promotion, which replaces the piece.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(t PieceType, c Color) *Piece {
	return &Piece{Type: t, Color: c}
}

// Position addresses a square. Row 0 is rank 8 (Black's back rank), column 0
// is the a-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Offset returns the position shifted by dr rows and dc columns.
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns the square in file-rank notation, e.g. "e4".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.Col+'a', Size-p.Row)
}

// File returns the file letter of the square.
func (p Position) File() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

// Rank returns the rank digit of the square.
func (p Position) Rank() string {
	return fmt.Sprintf("%d", Size-p.Row)
}

// ParsePosition converts file-rank notation such as "e4" to a Position.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	p := Position{Row: Size - int(s[1]-'0'), Col: int(s[0] - 'a')}
	if !p.InBounds() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

// Board is the 8x8 grid. It holds no rules.
type Board struct {
	Squares [Size][Size]*Piece `json:"board"`
}

// NewEmptyBoard returns a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns a board in the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset places fresh pieces in the standard starting position.
func (b *Board) Reset() {
	b.Squares = [Size][Size]*Piece{}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, t := range backRank {
		b.Squares[0][col] = NewPiece(t, Black)
		b.Squares[7][col] = NewPiece(t, White)
		b.Squares[1][col] = NewPiece(Pawn, Black)
		b.Squares[6][col] = NewPiece(Pawn, White)
	}
}

// At returns the piece on p, or nil when p is empty or off the board.
func (b *Board) At(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b.Squares[p.Row][p.Col]
}

// Set places piece on p (nil clears the square).
func (b *Board) Set(p Position, piece *Piece) {
	if !p.InBounds() {
		return
	}
	b.Squares[p.Row][p.Col] = piece
}

// Move clears from and puts its piece on to, returning whatever was on to.
func (b *Board) Move(from, to Position) *Piece {
	piece := b.At(from)
	captured := b.At(to)
	b.Set(to, piece)
	b.Set(from, nil)
	return captured
}

// FindKing returns the square of color's king.
func (b *Board) FindKing(color Color) (Position, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			pc := b.Squares[row][col]
			if pc != nil && pc.Type == King && pc.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Each calls fn for every occupied square in row-major order.
func (b *Board) Each(fn func(Position, *Piece)) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if pc := b.Squares[row][col]; pc != nil {
				fn(Position{Row: row, Col: col}, pc)
			}
		}
	}
}
