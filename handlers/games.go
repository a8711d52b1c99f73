package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"gamevault/models"
	"gamevault/service"
	"gamevault/store"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
)

const welcomeMessage = "Welcome to my game api"

// GameHandler exposes the game service over HTTP.
type GameHandler struct {
	games *service.GameService
}

func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

func Home(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

func (h *GameHandler) GetGames(c *gin.Context) {
	games, err := h.games.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) GetGameByID(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	game, err := h.games.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		respondError(c, service.ValidationError(service.MsgMissingBody))
		return
	}
	fields, err := models.ParseObject(raw)
	if err != nil {
		respondError(c, service.ValidationError(service.MsgInvalidBody))
		return
	}
	if len(fields) == 0 {
		respondError(c, service.ValidationError(service.MsgMissingBody))
		return
	}

	input, err := models.ParseGameInput(fields)
	if err != nil {
		respondError(c, service.ValidationError(service.MsgInvalidBody))
		return
	}

	game, err := h.games.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, service.ValidationError(service.MsgInvalidBody))
		return
	}
	patch, err := models.ParseGamePatch(raw)
	if err != nil {
		respondError(c, service.ValidationError(service.MsgInvalidBody))
		return
	}

	game, err := h.games.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if err := h.games.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "game has been deleted"})
}

// gameID parses the :id path segment. Anything but a non-negative integer
// that fits a signed 64-bit column cannot name a game, so it is answered
// like an unknown id.
func gameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		respondError(c, errors.Annotatef(store.ErrGameNotFound, "id %q", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}
