// Command chessterm plays a game in the terminal, one square or command per line.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
)

const help = `commands:
  e2        select a square, or move the selected piece there
  e2e4      move directly
  back fwd  step through earlier positions
  live      return to the current position
  draw      claim a fifty-move draw
  moves     print the move list
  restart   start over
  quit      leave`

var errQuit = errors.New("quit")

type terminal struct {
	game    *engine.Game
	out     io.Writer
	changed bool
}

func newTerminal(out io.Writer) *terminal {
	t := &terminal{out: out}
	t.game = engine.NewGame(
		engine.WithGameID(uuid.New().String()),
		engine.WithBoardChanged(func() { t.changed = true }),
		engine.WithMoveExecuted(t.printMove),
	)
	return t
}

func (t *terminal) printMove(m model.Move) {
	if m.Color == model.White {
		fmt.Fprintf(t.out, "%d. %s\n", m.MoveNumber, m.Notation)
		return
	}
	fmt.Fprintf(t.out, "%d... %s\n", m.MoveNumber, m.Notation)
}

// handle runs one input line. It returns errQuit when the user leaves.
func (t *terminal) handle(line string) error {
	line = strings.ToLower(strings.TrimSpace(line))
	var err error
	switch line {
	case "":
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(t.out, help)
		return nil
	case "moves":
		renderMoveList(t.out, t.game.MoveHistory())
		return nil
	case "restart":
		t.game.Restart()
	case "draw":
		err = t.game.ClaimFiftyMoveDraw()
	case "back":
		_, err = t.game.HistoryBack()
	case "fwd", "forward":
		_, err = t.game.HistoryForward()
	case "live":
		_, err = t.game.ReturnToLive()
	default:
		err = t.play(line)
	}
	return err
}

func (t *terminal) play(line string) error {
	switch len(line) {
	case 2:
		pos, err := model.ParsePosition(line)
		if err != nil {
			return err
		}
		_, err = t.game.Select(pos)
		return err
	case 4:
		from, err := model.ParsePosition(line[:2])
		if err != nil {
			return err
		}
		to, err := model.ParsePosition(line[2:])
		if err != nil {
			return err
		}
		_, err = t.game.Move(from, to)
		return err
	}
	return fmt.Errorf("unknown command %q, type help", line)
}

func (t *terminal) run(in io.Reader) error {
	renderBoard(t.out, t.game)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		t.changed = false
		err := t.handle(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(t.out, color.RedString(err.Error()))
		}
		if _, selected := t.game.Selected(); t.changed || selected || err == nil {
			renderBoard(t.out, t.game)
		}
	}
}

func main() {
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}

	fmt.Fprintln(color.Output, help)
	if err := newTerminal(color.Output).run(os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
