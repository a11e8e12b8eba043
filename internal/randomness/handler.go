package randomness

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/middleware"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
	"gorm.io/gorm"
)

type randomnessHandler struct {
	coordinator *coordinator
}

func RegisterRoutesAndSubscriptions(rg *gin.RouterGroup, db *gorm.DB, engine Lifecycle) {
	c := &coordinator{
		db:      db,
		engine:  engine,
		publish: pubsub.Publish,
	}
	c.bridge = &vrfContractBridge{coordinator: c}
	handler := randomnessHandler{coordinator: c}

	routes := rg.Group("/randomness")
	routes.POST("/request", middleware.VerifyAuthToken, middleware.RequireOperator, handler.requestRandomWords)
	routes.GET("/in-progress", handler.requestInProgress)

	go pubsub.Subscribe(pubsub.SubscriptionHandler{
		SubscriptionId: "blockchain.flow.events.random-words-sub",
		Handler:        c.bridge.handleRandomWordsFulfilled,
	})
}

func (h randomnessHandler) requestRandomWords(c *gin.Context) {
	requestId, err := h.coordinator.request()
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"requestId": requestId})
}

func (h randomnessHandler) requestInProgress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"inProgress": h.coordinator.engine.RequestInProgress()})
}
