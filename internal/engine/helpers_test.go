package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// sq parses a square name and panics on a typo in the test itself.
func sq(s string) model.Position {
	p, err := model.ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

// boardWith builds an empty board holding the given pieces. Each entry is
// "<color><letter><square>", e.g. "wKe1" or "bPd7"; the letter P is a pawn.
func boardWith(entries ...string) *model.Board {
	b := model.NewEmptyBoard()
	for _, e := range entries {
		color := model.White
		if e[0] == 'b' {
			color = model.Black
		}
		var t model.PieceType
		switch e[1] {
		case 'K':
			t = model.King
		case 'Q':
			t = model.Queen
		case 'R':
			t = model.Rook
		case 'B':
			t = model.Bishop
		case 'N':
			t = model.Knight
		case 'P':
			t = model.Pawn
		}
		b.Set(sq(e[2:]), model.NewPiece(t, color))
	}
	return b
}

// names renders squares as a sorted list of square names.
func names(ps []model.Position) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

func sortedSquares(s string) []string {
	out := strings.Fields(s)
	sort.Strings(out)
	return out
}

// play feeds a list of "e2e4"-style moves into g through Select.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		from, to := sq(m[:2]), sq(m[2:4])
		if _, err := g.Select(from); err != nil {
			t.Fatalf("select %s for %s: %v", from, m, err)
		}
		outcome, err := g.Select(to)
		if err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
		if outcome != OutcomeMoved {
			t.Fatalf("move %s: outcome %s", m, outcome)
		}
	}
}

func lastNotation(g *Game) string {
	moves := g.Moves()
	if len(moves) == 0 {
		return ""
	}
	return moves[len(moves)-1].Notation
}
