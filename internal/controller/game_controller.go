package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/create", gc.CreateGame)
	r.Get("/:gameId", gc.GetGameState)
	r.Get("/:gameId/moves", gc.GetMoves)
	r.Post("/:gameId/select", gc.Select)
	r.Post("/:gameId/restart", gc.Restart)
	r.Post("/:gameId/claim-draw", gc.ClaimDraw)
	r.Post("/:gameId/history/back", gc.HistoryBack)
	r.Post("/:gameId/history/forward", gc.HistoryForward)
	r.Post("/:gameId/history/live", gc.ReturnToLive)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, name := gc.gameService.CreateGame()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"name":    name,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) GetMoves(c *fiber.Ctx) error {
	list, records, err := gc.gameService.GetMoves(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []model.MoveHistoryItem{}
	}
	if records == nil {
		records = []model.Move{}
	}
	return c.JSON(fiber.Map{
		"moves":   list,
		"records": records,
	})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var payload ws.SelectPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	pos, err := payload.Position()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	outcome, view, err := gc.gameService.Select(c.Params("gameId"), pos)
	if err != nil {
		if engine.IsRejection(err) {
			return c.Status(errorStatus(err)).JSON(fiber.Map{
				"error":   err.Error(),
				"outcome": outcome,
				"state":   view,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"outcome": outcome,
		"state":   view,
	})
}

func (gc *GameController) Restart(c *fiber.Ctx) error {
	return gc.respondView(c, gc.gameService.Restart)
}

func (gc *GameController) ClaimDraw(c *fiber.Ctx) error {
	return gc.respondView(c, gc.gameService.ClaimFiftyMoveDraw)
}

func (gc *GameController) HistoryBack(c *fiber.Ctx) error {
	return gc.respondView(c, gc.gameService.HistoryBack)
}

func (gc *GameController) HistoryForward(c *fiber.Ctx) error {
	return gc.respondView(c, gc.gameService.HistoryForward)
}

func (gc *GameController) ReturnToLive(c *fiber.Ctx) error {
	return gc.respondView(c, gc.gameService.ReturnToLive)
}

func (gc *GameController) respondView(c *fiber.Ctx, fn func(gameID string) (service.GameView, error)) error {
	view, err := fn(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// errorStatus maps service and engine errors to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrInvalidSquare):
		return fiber.StatusBadRequest
	case engine.IsRejection(err):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s (client %s): %v", c.Method(), c.Path(), middleware.ClientID(c), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
