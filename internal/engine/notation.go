package engine

import (
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// notationRule formats one category of move.
type notationRule interface {
	applies(m model.Move) bool
	format(m model.Move) string
}

type castleNotation struct{}

func (castleNotation) applies(m model.Move) bool { return m.IsCastle() }

func (castleNotation) format(m model.Move) string {
	if m.IsQueenSideCastle {
		return "O-O-O"
	}
	return "O-O"
}

type pawnNotation struct{}

func (pawnNotation) applies(m model.Move) bool { return m.IsPawnMove() }

func (pawnNotation) format(m model.Move) string {
	var sb strings.Builder
	if m.IsCapture {
		sb.WriteString(m.From[:1])
		sb.WriteString("x")
	}
	sb.WriteString(m.To)
	if m.IsPawnPromotion {
		sb.WriteString("=")
		sb.WriteString(m.PromotedTo)
	}
	return sb.String()
}

type pieceNotation struct{}

func (pieceNotation) applies(m model.Move) bool { return true }

func (pieceNotation) format(m model.Move) string {
	var sb strings.Builder
	sb.WriteString(m.Piece)
	sb.WriteString(m.Disambiguation)
	if m.IsCapture {
		sb.WriteString("x")
	}
	sb.WriteString(m.To)
	return sb.String()
}

// notationRules are tried in order; the first that applies formats the move.
var notationRules = []notationRule{castleNotation{}, pawnNotation{}, pieceNotation{}}

// FormatMove renders m in standard algebraic notation.
func FormatMove(m model.Move) string {
	var text string
	for _, rule := range notationRules {
		if rule.applies(m) {
			text = rule.format(m)
			break
		}
	}
	switch {
	case m.IsCheckmate:
		text += "#"
	case m.IsCheck:
		text += "+"
	}
	return text
}

// Disambiguate returns the origin file, rank, or both needed to tell the move
// from->to apart from other pieces of the same kind that could legally reach
// to. It must be called before the move is played.
func Disambiguate(b *model.Board, from, to model.Position) string {
	mover := b.At(from)
	if mover == nil || mover.Type == model.Pawn || mover.Type == model.King {
		return ""
	}
	var rivals []model.Position
	b.Each(func(p model.Position, pc *model.Piece) {
		if p == from || pc.Type != mover.Type || pc.Color != mover.Color {
			return
		}
		for _, sq := range PseudoLegalMoves(b, p) {
			if sq == to && !kingCheckAfter(b, p, to, nil) {
				rivals = append(rivals, p)
				return
			}
		}
	})
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, r := range rivals {
		if r.Col == from.Col {
			sameFile = true
		}
		if r.Row == from.Row {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return from.File()
	case !sameRank:
		return from.Rank()
	}
	return from.String()
}
