package profile

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/middleware"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"gorm.io/gorm"
)

type profileHandler struct {
	profile *ProfileService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := profileHandler{
		profile: &ProfileService{Db: db},
	}

	routes := rg.Group("/profile")
	routes.GET("/:id", middleware.VerifyAuthToken, handler.getProfileById)
	routes.GET("/:id/balance", middleware.VerifyAuthToken, handler.getBalance)
}

func (h profileHandler) getProfileById(c *gin.Context) {
	id, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	profile, err := h.profile.FindById(id)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h profileHandler) getBalance(c *gin.Context) {
	id, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	balance, err := h.profile.Balance(id)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
