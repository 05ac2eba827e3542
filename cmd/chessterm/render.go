package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
)

var (
	lightSquare   = color.New(color.FgBlack, color.BgHiWhite)
	darkSquare    = color.New(color.FgBlack, color.BgGreen)
	selectedSq    = color.New(color.FgBlack, color.BgHiYellow)
	targetSq      = color.New(color.FgBlack, color.BgCyan)
	lastMoveSq    = color.New(color.FgBlack, color.BgYellow)
	checkedKing   = color.New(color.FgHiWhite, color.BgRed, color.Bold)
	statusLine    = color.New(color.Bold)
	historyNotice = color.New(color.FgMagenta)
)

// pieceRune returns the piece letter, upper case for White.
func pieceRune(pc *model.Piece) string {
	if pc == nil {
		return " "
	}
	letter := pc.Type.Letter()
	if letter == "" {
		letter = "P"
	}
	if pc.Color == model.Black {
		return strings.ToLower(letter)
	}
	return letter
}

// renderBoard draws the shown position with the selection, its legal targets,
// the last move and a checked king highlighted.
func renderBoard(w io.Writer, g *engine.Game) {
	b := g.Board()
	sel, hasSel := g.Selected()
	var targets []model.Position
	if hasSel {
		targets = g.LegalMoves(sel)
	}
	last, hasLast := g.LastMove()
	var checked *model.Position
	if side, ok := g.CheckedColor(); ok {
		if k, ok := b.FindKing(side); ok {
			checked = &k
		}
	}

	for row := 0; row < model.Size; row++ {
		fmt.Fprintf(w, "%d ", model.Size-row)
		for col := 0; col < model.Size; col++ {
			p := model.Position{Row: row, Col: col}
			style := lightSquare
			if (row+col)%2 == 1 {
				style = darkSquare
			}
			switch {
			case checked != nil && *checked == p:
				style = checkedKing
			case hasSel && sel == p:
				style = selectedSq
			case slices.Contains(targets, p):
				style = targetSq
			case hasLast && (last.From == p || last.To == p):
				style = lastMoveSq
			}
			fmt.Fprint(w, style.Sprintf(" %s ", pieceRune(b.At(p))))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	fmt.Fprintln(w, statusLine.Sprint(describe(g)))
	if g.IsViewingHistory() {
		fmt.Fprintln(w, historyNotice.Sprint("viewing history: type live to return"))
	}
}

func describe(g *engine.Game) string {
	switch g.Status() {
	case model.StatusCheckmate:
		return fmt.Sprintf("Checkmate. %s wins.", g.Loser().Opponent().Title())
	case model.StatusStalemate:
		return "Stalemate."
	case model.StatusFiftyMoveDraw:
		return "Draw by the fifty-move rule."
	}
	s := fmt.Sprintf("%s to move", g.Turn().Title())
	if g.IsCheck() {
		s += ", in check"
	}
	if g.CanClaimFiftyMoveDraw() {
		s += " (draw can be claimed)"
	}
	return s
}

func renderMoveList(w io.Writer, items []model.MoveHistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no moves yet")
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "%d. %s %s\n", it.MoveNumber, it.WhiteMove, it.BlackMove)
	}
}
