package controller

import (
	"ctchen222/Hex/internal/api/models"
	"ctchen222/Hex/internal/api/response"
	"ctchen222/Hex/internal/api/service"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/hub"
	"ctchen222/Hex/internal/player"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultLeaderboardLimit = 10

// GameController handles game-related HTTP requests.
type GameController struct {
	gameService  service.GameService
	version      string
	storageType  string
	publicConfig map[string]any
}

// NewGameController creates a new GameController. Version, storage type and
// the public config are only reported back by Health and Config.
func NewGameController(gameService service.GameService, version, storageType string, publicConfig map[string]any) *GameController {
	return &GameController{
		gameService:  gameService,
		version:      version,
		storageType:  storageType,
		publicConfig: publicConfig,
	}
}

// statusFor maps a game error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, hub.ErrGameNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, hub.ErrGameFinished), errors.Is(err, hub.ErrNotComputerTurn):
		return http.StatusConflict
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrMalformedState),
		errors.Is(err, game.ErrInvalidBoardSize),
		errors.Is(err, hub.ErrBoardSizeOutOfRange),
		errors.Is(err, hub.ErrInvalidFilename),
		errors.Is(err, player.ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (gc *GameController) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Game request failed", "http.path", c.FullPath(), "error", err)
	}
	response.AbortWithError(c, response.WrapError(code, err))
}

// Health reports that the service is up.
func (gc *GameController) Health(c *gin.Context) {
	response.SuccessResponse(c, models.HealthResponse{
		Status:      "healthy",
		Time:        time.Now().UTC().Format(time.RFC3339),
		Version:     gc.version,
		StorageType: gc.storageType,
	})
}

// Config returns the public configuration.
func (gc *GameController) Config(c *gin.Context) {
	response.SuccessResponse(c, gc.publicConfig)
}

// CreateGame handles the create game endpoint. A signed-in user names an
// unnamed human first seat.
func (gc *GameController) CreateGame(c *gin.Context) {
	var req models.CreateGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if identity, ok := c.Get(identityKey); ok {
		claimSeat(&req.Player1, identity.(*models.Identity))
	}

	state, err := gc.gameService.CreateGame(c.Request.Context(), &req)
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.CreatedResponse(c, state)
}

func claimSeat(seat *player.Profile, identity *models.Identity) {
	if identity.Guest || identity.Username == "" || strings.TrimSpace(seat.Name) != "" {
		return
	}
	if seat.Type != "" && !strings.EqualFold(string(seat.Type), string(player.Human)) {
		return
	}
	seat.Name = identity.Username
}

// ListGames lists the games in memory and in storage.
func (gc *GameController) ListGames(c *gin.Context) {
	response.SuccessResponseList(c, gc.gameService.ListGames(c.Request.Context()))
}

// GetGame returns the state of one game.
func (gc *GameController) GetGame(c *gin.Context) {
	state, err := gc.gameService.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// DeleteGame deletes a game.
func (gc *GameController) DeleteGame(c *gin.Context) {
	id := c.Param("id")
	if err := gc.gameService.DeleteGame(c.Request.Context(), id); err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"game_id": id, "message": "Game deleted"})
}

// MakeMove applies a human move.
func (gc *GameController) MakeMove(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := gc.gameService.MakeMove(c.Request.Context(), c.Param("id"), *req.Row, *req.Col)
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, res)
}

// MakeComputerMove lets the computer to move play.
func (gc *GameController) MakeComputerMove(c *gin.Context) {
	res, err := gc.gameService.MakeComputerMove(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, res)
}

// Board returns the board of a game in raw, symbol and text form.
func (gc *GameController) Board(c *gin.Context) {
	view, err := gc.gameService.Board(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, view)
}

// SaveGame writes a game to a file in the save directory.
func (gc *GameController) SaveGame(c *gin.Context) {
	var req models.SaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := gc.gameService.Save(c.Request.Context(), c.Param("id"), req.Filename)
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, res)
}

// LoadGame restores a saved game as a new game.
func (gc *GameController) LoadGame(c *gin.Context) {
	var req models.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := gc.gameService.Load(c.Request.Context(), req.Filename)
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.CreatedResponse(c, state)
}

// GameStats returns the timing statistics of a game.
func (gc *GameController) GameStats(c *gin.Context) {
	stats, err := gc.gameService.GameStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponse(c, stats)
}

// GlobalStats returns statistics over all games in memory.
func (gc *GameController) GlobalStats(c *gin.Context) {
	response.SuccessResponse(c, gc.gameService.GlobalStats(c.Request.Context()))
}

// Leaderboard returns the players with the most wins. The limit query
// parameter defaults to 10.
func (gc *GameController) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			response.ErrorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := gc.gameService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		gc.fail(c, err)
		return
	}
	response.SuccessResponseList(c, entries)
}
