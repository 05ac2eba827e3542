package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/testutil"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type recorder struct {
	mu   sync.Mutex
	msgs []ws.Message
	fail bool
}

func (r *recorder) WriteJSON(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broken pipe")
	}
	r.msgs = append(r.msgs, v.(ws.Message))
	return nil
}

func (r *recorder) types() []ws.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ws.MessageType
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

func (r *recorder) last() ws.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs[len(r.msgs)-1]
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sq(s string) model.Position {
	p, err := model.ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func newTestManager(idle time.Duration) (*GameManager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	gm := NewGameManager(idle)
	gm.now = clock.Now
	return gm, clock
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	a, b := &recorder{}, &recorder{fail: true}
	h.Register("a", a)
	h.Register("b", b)
	testutil.AssertEqual(t, h.Len(), 2)

	h.Broadcast(ws.Message{Type: ws.MessageTypeBoardChanged}, ws.Message{Type: ws.MessageTypeGameState})
	testutil.AssertEqual(t, a.types(), []ws.MessageType{ws.MessageTypeBoardChanged, ws.MessageTypeGameState})
	testutil.AssertEqual(t, h.Len(), 1, "failing subscriber is dropped")

	stale := &recorder{}
	h.Unregister("a", stale)
	testutil.AssertEqual(t, h.Len(), 1, "a stale connection cannot remove its replacement")
	h.Unregister("a", a)
	testutil.AssertEqual(t, h.Len(), 0)
}

func TestSessionPushesEngineEvents(t *testing.T) {
	gm, _ := newTestManager(time.Minute)
	s := gm.CreateGame()
	rec := &recorder{}
	testutil.AssertNoError(t, s.Subscribe("client-1", rec))
	testutil.AssertEqual(t, rec.types(), []ws.MessageType{ws.MessageTypeGameState})
	rec.reset()

	outcome, view, err := s.Select(sq("e2"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, outcome, engine.OutcomeSelected)
	testutil.AssertEqual(t, view.Selected, &model.Position{Row: 6, Col: 4})
	testutil.AssertEqual(t, view.LegalMoves, []model.Position{sq("e3"), sq("e4")})
	testutil.AssertEqual(t, rec.types(), []ws.MessageType{ws.MessageTypeGameState})
	rec.reset()

	outcome, view, err = s.Select(sq("e4"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, outcome, engine.OutcomeMoved)
	testutil.AssertEqual(t, view.Turn, model.Black)
	testutil.AssertEqual(t, view.LastMove, &model.SimpleMove{From: sq("e2"), To: sq("e4")})
	testutil.AssertEqual(t, rec.types(), []ws.MessageType{
		ws.MessageTypeBoardChanged, ws.MessageTypeMoveExecuted, ws.MessageTypeGameState,
	})

	var executed model.Move
	testutil.AssertNoError(t, json.Unmarshal(rec.msgs[1].Payload, &executed))
	testutil.AssertEqual(t, executed.Notation, "e4")
	testutil.AssertEqual(t, executed.GameID, s.ID)

	var pushed GameView
	testutil.AssertNoError(t, json.Unmarshal(rec.last().Payload, &pushed))
	testutil.AssertEqual(t, pushed.MoveHistory, []model.MoveHistoryItem{{MoveNumber: 1, WhiteMove: "e4"}})
}

func TestSessionRejectedMove(t *testing.T) {
	gm, _ := newTestManager(time.Minute)
	s := gm.CreateGame()
	_, _, err := s.Select(sq("e2"))
	testutil.AssertNoError(t, err)

	outcome, view, err := s.Select(sq("e5"))
	testutil.AssertErrorIs(t, err, engine.ErrInvalidPieceMove)
	testutil.AssertTrue(t, engine.IsRejection(err))
	testutil.AssertEqual(t, outcome, engine.OutcomeIgnored)
	testutil.AssertTrue(t, view.Selected == nil)
	testutil.AssertEqual(t, view.Turn, model.White)
}

func TestSessionHistoryNavigation(t *testing.T) {
	gm, _ := newTestManager(time.Minute)
	s := gm.CreateGame()
	for _, click := range []string{"e2", "e4", "e7", "e5"} {
		if _, _, err := s.Select(sq(click)); err != nil {
			t.Fatalf("select %s: %v", click, err)
		}
	}

	view, err := s.HistoryBack()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, view.ViewingHistory)
	testutil.AssertEqual(t, view.Turn, model.Black)
	testutil.AssertTrue(t, view.Board[1][4] != nil, "e7 pawn is back")

	view, err = s.ReturnToLive()
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, view.ViewingHistory)
	testutil.AssertEqual(t, view.Turn, model.White)

	_, err = s.HistoryForward()
	testutil.AssertErrorIs(t, err, engine.ErrNoHistory)

	_, err = s.ClaimFiftyMoveDraw()
	testutil.AssertErrorIs(t, err, engine.ErrNotClaimable)

	view = s.Restart()
	testutil.AssertFalse(t, view.CanNavigateBack)
	testutil.AssertEqual(t, view.MoveHistory, []model.MoveHistoryItem{})

	list, records := s.Moves()
	testutil.AssertEqual(t, len(list), 0)
	testutil.AssertEqual(t, len(records), 0)
}

func TestGameManagerLookup(t *testing.T) {
	gm, _ := newTestManager(time.Minute)
	s := gm.CreateGame()
	testutil.AssertTrue(t, s.Name != "", "sessions get a readable name")

	got, err := gm.GetGame(s.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, got == s)

	_, err = gm.GetGame("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)

	gm.RemoveGame(s.ID)
	testutil.AssertEqual(t, gm.Len(), 0)
}

func TestGameManagerReap(t *testing.T) {
	gm, clock := newTestManager(10 * time.Minute)
	idle := gm.CreateGame()
	busy := gm.CreateGame()
	watched := gm.CreateGame()
	testutil.AssertNoError(t, watched.Subscribe("viewer", &recorder{}))

	clock.Advance(9 * time.Minute)
	testutil.AssertEqual(t, gm.Reap(), 0)
	_, _, err := busy.Select(sq("e2"))
	testutil.AssertNoError(t, err)

	clock.Advance(2 * time.Minute)
	testutil.AssertEqual(t, gm.Reap(), 1)
	_, err = gm.GetGame(idle.ID)
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gm.GetGame(busy.ID)
	testutil.AssertNoError(t, err)
	_, err = gm.GetGame(watched.ID)
	testutil.AssertNoError(t, err, "sessions with subscribers are kept")
}

func TestRunReaperStopsWithContext(t *testing.T) {
	gm, clock := newTestManager(time.Minute)
	gm.CreateGame()
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.RunReaper(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for gm.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	testutil.AssertEqual(t, gm.Len(), 0)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}

func TestGameServiceNotFound(t *testing.T) {
	gs := NewGameService(NewGameManager(time.Minute))
	_, err := gs.GetGameState("nope")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, _, err = gs.Select("nope", sq("e2"))
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.HistoryBack("nope")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.Restart("nope")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
}

func TestGameServiceFlow(t *testing.T) {
	gs := NewGameService(NewGameManager(time.Minute))
	id, name := gs.CreateGame()
	testutil.AssertTrue(t, name != "")

	for _, click := range []string{"f2", "f3", "e7", "e5", "g2", "g4", "d8"} {
		if _, _, err := gs.Select(id, sq(click)); err != nil {
			t.Fatalf("select %s: %v", click, err)
		}
	}
	outcome, view, err := gs.Select(id, sq("h4"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, outcome, engine.OutcomeMoved)
	testutil.AssertEqual(t, view.State, model.StatusCheckmate)
	testutil.AssertEqual(t, view.Loser, model.White)
	testutil.AssertTrue(t, view.IsCheck, "a mated position reports check")

	list, records, err := gs.GetMoves(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, list[1], model.MoveHistoryItem{MoveNumber: 2, WhiteMove: "g4", BlackMove: "Qh4#"})
	testutil.AssertEqual(t, len(records), 4)

	state, err := gs.GetGameState(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state, view)
}
