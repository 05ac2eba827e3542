package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/testutil"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

func newTestApp() (*fiber.App, *service.GameService) {
	gs := service.NewGameService(service.NewGameManager(time.Minute))
	app := fiber.New()
	api := app.Group("/api", middleware.EnsureClientID())
	NewGameController(gs).Register(api.Group("/game"))
	return app, gs
}

func do(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("X-Client-ID", "tester")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

type selectResponse struct {
	Outcome engine.Outcome   `json:"outcome"`
	State   service.GameView `json:"state"`
	Error   string           `json:"error"`
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
		Name   string `json:"name"`
	}
	status := do(t, app, http.MethodPost, "/api/game/create", "", &created)
	testutil.AssertEqual(t, status, fiber.StatusCreated)
	testutil.AssertTrue(t, created.GameID != "" && created.Name != "")
	return created.GameID
}

func TestCreateAndGetGame(t *testing.T) {
	app, _ := newTestApp()
	id := createGame(t, app)

	var view service.GameView
	status := do(t, app, http.MethodGet, "/api/game/"+id, "", &view)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, view.ID, id)
	testutil.AssertEqual(t, view.Turn, model.White)
	testutil.AssertEqual(t, view.State, model.StatusInProgress)
	testutil.AssertEqual(t, view.Board[7][4], &model.Piece{Type: model.King, Color: model.White})

	var missing map[string]string
	status = do(t, app, http.MethodGet, "/api/game/nope", "", &missing)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
	testutil.AssertTrue(t, strings.Contains(missing["error"], "game not found"))
}

func TestMissingClientID(t *testing.T) {
	app, _ := newTestApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/game/create", nil))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusUnauthorized)
}

func TestSelectEndpoint(t *testing.T) {
	app, _ := newTestApp()
	id := createGame(t, app)
	target := "/api/game/" + id + "/select"

	var res selectResponse
	status := do(t, app, http.MethodPost, target, `{"square":"e2"}`, &res)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, res.Outcome, engine.OutcomeSelected)
	testutil.AssertEqual(t, len(res.State.LegalMoves), 2)

	res = selectResponse{}
	status = do(t, app, http.MethodPost, target, `{"row":4,"col":4}`, &res)
	testutil.AssertEqual(t, status, fiber.StatusOK)
	testutil.AssertEqual(t, res.Outcome, engine.OutcomeMoved)
	testutil.AssertEqual(t, res.State.Turn, model.Black)
	testutil.AssertEqual(t, res.State.MoveHistory, []model.MoveHistoryItem{{MoveNumber: 1, WhiteMove: "e4"}})

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"wrong side", `{"square":"e2"}`, fiber.StatusUnprocessableEntity, engine.ErrInvalidSelection.Error()},
		{"no square", `{}`, fiber.StatusBadRequest, ws.ErrNoSquare.Error()},
		{"bad name", `{"square":"z9"}`, fiber.StatusBadRequest, `invalid square "z9"`},
		{"off board", `{"row":9,"col":0}`, fiber.StatusBadRequest, engine.ErrInvalidSquare.Error()},
		{"malformed", `{"square":`, fiber.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res selectResponse
			status := do(t, app, http.MethodPost, target, tt.body, &res)
			testutil.AssertEqual(t, status, tt.status)
			testutil.AssertEqual(t, res.Error, tt.errMsg)
		})
	}

	status = do(t, app, http.MethodPost, "/api/game/nope/select", `{"square":"e2"}`, &res)
	testutil.AssertEqual(t, status, fiber.StatusNotFound)
}

func TestHistoryAndMovesEndpoints(t *testing.T) {
	app, _ := newTestApp()
	id := createGame(t, app)
	base := "/api/game/" + id
	for _, square := range []string{"d2", "d4", "d7", "d5"} {
		if status := do(t, app, http.MethodPost, base+"/select", `{"square":"`+square+`"}`, nil); status != fiber.StatusOK {
			t.Fatalf("select %s: status %d", square, status)
		}
	}

	var view service.GameView
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/history/back", "", &view), fiber.StatusOK)
	testutil.AssertTrue(t, view.ViewingHistory)
	testutil.AssertTrue(t, view.CanNavigateForward)

	view = service.GameView{}
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/history/forward", "", &view), fiber.StatusOK)
	testutil.AssertFalse(t, view.ViewingHistory, "reaching the last snapshot returns to live")

	var failure map[string]string
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/history/forward", "", &failure), fiber.StatusUnprocessableEntity)
	testutil.AssertEqual(t, failure["error"], engine.ErrNoHistory.Error())

	view = service.GameView{}
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/history/back", "", &view), fiber.StatusOK)
	view = service.GameView{}
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/history/live", "", &view), fiber.StatusOK)
	testutil.AssertFalse(t, view.ViewingHistory)

	var moves struct {
		Moves   []model.MoveHistoryItem `json:"moves"`
		Records []model.Move            `json:"records"`
	}
	testutil.AssertEqual(t, do(t, app, http.MethodGet, base+"/moves", "", &moves), fiber.StatusOK)
	testutil.AssertEqual(t, moves.Moves, []model.MoveHistoryItem{{MoveNumber: 1, WhiteMove: "d4", BlackMove: "d5"}})
	testutil.AssertEqual(t, len(moves.Records), 2)

	failure = nil
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/claim-draw", "", &failure), fiber.StatusUnprocessableEntity)
	testutil.AssertEqual(t, failure["error"], engine.ErrNotClaimable.Error())

	view = service.GameView{}
	testutil.AssertEqual(t, do(t, app, http.MethodPost, base+"/restart", "", &view), fiber.StatusOK)
	testutil.AssertEqual(t, view.MoveHistory, []model.MoveHistoryItem{})
	testutil.AssertFalse(t, view.CanNavigateBack)
}

func TestErrorStatus(t *testing.T) {
	testutil.AssertEqual(t, errorStatus(service.ErrGameNotFound), fiber.StatusNotFound)
	testutil.AssertEqual(t, errorStatus(engine.ErrExposesKing), fiber.StatusUnprocessableEntity)
	testutil.AssertEqual(t, errorStatus(engine.ErrMissingKing), fiber.StatusInternalServerError)
	testutil.AssertEqual(t, errorStatus(errors.New("boom")), fiber.StatusInternalServerError)
}

func TestRespondErrorInternal(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", middleware.EnsureClientID(), func(c *fiber.Ctx) error {
		return respondError(c, engine.ErrMissingKing)
	})

	var body map[string]string
	status := do(t, app, http.MethodGet, "/fail", "", &body)
	testutil.AssertEqual(t, status, fiber.StatusInternalServerError)
	testutil.AssertEqual(t, body["error"], engine.ErrMissingKing.Error())
}

type recorder struct {
	mu   sync.Mutex
	msgs []ws.Message
}

func (r *recorder) WriteJSON(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func message(t *testing.T, typ ws.MessageType, payload any) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(typ, payload)
	testutil.AssertNoError(t, err)
	return msg
}

func TestWebSocketHandleMessage(t *testing.T) {
	_, gs := newTestApp()
	id, _ := gs.CreateGame()
	session, err := gs.Session(id)
	testutil.AssertNoError(t, err)
	watcher := &recorder{}
	testutil.AssertNoError(t, session.Subscribe("watcher", watcher))

	wsc := NewWebSocketController(gs)
	row, col := 6, 4
	testutil.AssertNoError(t, wsc.handleMessage(session, message(t, ws.MessageTypeSelect, ws.SelectPayload{Row: &row, Col: &col})))
	testutil.AssertNoError(t, wsc.handleMessage(session, message(t, ws.MessageTypeSelect, ws.SelectPayload{Square: "e4"})))
	testutil.AssertEqual(t, watcher.types(), []ws.MessageType{
		ws.MessageTypeGameState,
		ws.MessageTypeGameState,
		ws.MessageTypeBoardChanged, ws.MessageTypeMoveExecuted, ws.MessageTypeGameState,
	})

	testutil.AssertNoError(t, wsc.handleMessage(session, message(t, ws.MessageTypeHistoryBack, nil)))
	testutil.AssertNoError(t, wsc.handleMessage(session, message(t, ws.MessageTypeHistoryLive, nil)))
	err = wsc.handleMessage(session, message(t, ws.MessageTypeHistoryForward, nil))
	testutil.AssertErrorIs(t, err, engine.ErrNoHistory)
	err = wsc.handleMessage(session, message(t, ws.MessageTypeClaimDraw, nil))
	testutil.AssertErrorIs(t, err, engine.ErrNotClaimable)
	err = wsc.handleMessage(session, message(t, ws.MessageTypeSelect, ws.SelectPayload{}))
	testutil.AssertErrorIs(t, err, ws.ErrNoSquare)
	err = wsc.handleMessage(session, ws.Message{Type: "resign"})
	testutil.AssertTrue(t, err != nil && strings.Contains(err.Error(), "unknown message type"))

	testutil.AssertNoError(t, wsc.handleMessage(session, message(t, ws.MessageTypeRestart, nil)))
	testutil.AssertEqual(t, session.View().Turn, model.White)

	sender := &recorder{}
	wsc.sendError(session, sender, engine.ErrGameOver)
	testutil.AssertEqual(t, sender.types(), []ws.MessageType{ws.MessageTypeError})
	var payload ws.ErrorPayload
	testutil.AssertNoError(t, json.Unmarshal(sender.msgs[0].Payload, &payload))
	testutil.AssertEqual(t, payload.Error, engine.ErrGameOver.Error())
}
