package game

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/flipcard-backend/internal/fairness"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/middleware"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/utils"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/ws"
	"gorm.io/gorm"
)

type gameHandler struct {
	gameService gameService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, engine *Engine, rounds *fairness.RoundLog) {
	handler := gameHandler{
		gameService: gameService{
			db:              db,
			engine:          engine,
			rounds:          rounds,
			notificationHub: ws.NewNotificationHub(),
		},
	}

	routes := rg.Group("/game")
	routes.POST("", middleware.VerifyAuthToken, middleware.RequireOperator, handler.createGame)
	routes.POST("/:id/join", middleware.VerifyAuthToken, handler.joinGame)
	routes.POST("/:id/stop", middleware.VerifyAuthToken, middleware.RequireOperator, handler.stopGame)
	routes.POST("/:id/flip", middleware.VerifyAuthToken, handler.flipCard)
	routes.GET("/:id", handler.getGame)
	routes.GET("/:id/players", handler.getGamePlayers)
	routes.GET("/:id/players/:address", handler.playerInGame)
	routes.GET("/:id/rounds", handler.getGameRounds)

	// Current-round surface: state of the active cycle plus stop and
	// payout without an explicit id.
	round := rg.Group("/round")
	round.GET("/state", handler.roundState)
	round.POST("/stop", middleware.VerifyAuthToken, middleware.RequireOperator, handler.stopCurrentGame)
	round.POST("/prize", middleware.VerifyAuthToken, handler.distributePrize)
}

func (gh *gameHandler) createGame(c *gin.Context) {
	body := CreateGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	created, err := gh.gameService.createGame(body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (gh *gameHandler) joinGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := JoinGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	started, err := gh.gameService.joinGame(gameId, utils.GetUserEmail(c), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gameId": gameId, "started": started})
}

func (gh *gameHandler) stopGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}
	gh.stop(c, gameId)
}

func (gh *gameHandler) stopCurrentGame(c *gin.Context) {
	gh.stop(c, 0)
}

func (gh *gameHandler) stop(c *gin.Context, gameId uint64) {
	stoppedId, err := gh.gameService.stopGame(gameId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gameId": stoppedId, "stopped": true})
}

func (gh *gameHandler) flipCard(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	outcome, err := gh.gameService.flipCard(gameId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (gh *gameHandler) distributePrize(c *gin.Context) {
	payout, err := gh.gameService.distributePrize()
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId": payout.GameId,
		"winner": payout.Winner,
		"amount": payout.Pot,
	})
}

func (gh *gameHandler) getGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	entryFee := gh.gameService.engine.EntryFee(gameId)
	if entryFee == 0 {
		c.JSON(http.StatusNotFound, reject.NotFoundProblem())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":   gameId,
		"entryFee": entryFee,
		"stopped":  gh.gameService.engine.IsStopped(gameId),
	})
}

func (gh *gameHandler) getGamePlayers(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	players := gh.gameService.engine.Players(gameId)
	if players == nil {
		players = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"gameId": gameId, "players": players})
}

func (gh *gameHandler) getGameRounds(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	page, pageErr := utils.NewPageRequest(c)
	if pageErr != nil {
		c.JSON(pageErr.Problem.Status, pageErr.Problem)
		return
	}

	rounds, err := gh.gameService.gameRounds(gameId, page)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, rounds)
}

func (gh *gameHandler) playerInGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	inGame := gh.gameService.engine.PlayerInGame(gameId, c.Param("address"))
	c.JSON(http.StatusOK, gin.H{"gameId": gameId, "inGame": inGame})
}

func (gh *gameHandler) roundState(c *gin.Context) {
	engine := gh.gameService.engine
	c.JSON(http.StatusOK, gin.H{
		"currentGameId":     engine.CurrentGameId(),
		"gameStarted":       engine.Started(),
		"winner":            engine.Winner(),
		"loser":             engine.Loser(),
		"requestInProgress": engine.RequestInProgress(),
	})
}
