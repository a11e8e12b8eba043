package fairness

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
)

type fairnessHandler struct {
	rounds *RoundLog
}

func RegisterRoutes(rg *gin.RouterGroup, rounds *RoundLog) {
	handler := fairnessHandler{rounds: rounds}

	routes := rg.Group("/fairness")
	routes.GET("/rounds", handler.getRounds)
	routes.GET("/rounds/:index/proof", handler.getProof)
}

func (h fairnessHandler) getRounds(c *gin.Context) {
	root, err := h.rounds.Root()
	if err != nil {
		c.JSON(http.StatusInternalServerError, reject.UnexpectedProblem(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"root":   hex.EncodeToString(root),
		"rounds": h.rounds.Rounds(),
	})
}

func (h fairnessHandler) getProof(c *gin.Context) {
	index, parseErr := strconv.Atoi(c.Param("index"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	leaf, proof, root, err := h.rounds.Proof(index)
	if err == ErrRoundNotFound {
		c.JSON(http.StatusNotFound, reject.NotFoundProblem())
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, reject.UnexpectedProblem(err))
		return
	}

	hashes := make([]string, len(proof.Hashes))
	for i, hash := range proof.Hashes {
		hashes[i] = hex.EncodeToString(hash)
	}

	c.JSON(http.StatusOK, gin.H{
		"index":      index,
		"leaf":       string(leaf),
		"proofIndex": proof.Index,
		"hashes":     hashes,
		"root":       hex.EncodeToString(root),
	})
}
