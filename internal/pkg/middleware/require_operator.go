package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const operatorRequired string = "error.game.unauthorized"

// RequireOperator guards the administrative surface (game creation, stop,
// randomness requests). The operator roster comes from the OPERATOR_EMAILS
// env var as a comma separated list of verified emails.
func RequireOperator(c *gin.Context) {
	email := utils.GetUserEmail(c)
	if IsOperator(email) {
		return
	}

	log.Warn().Msg("Caller " + email + " is not an operator: 403")
	c.AbortWithStatusJSON(
		http.StatusForbidden,
		reject.NewProblem().
			WithTitle("Caller lacks operator capability").
			WithStatus(http.StatusForbidden).
			WithCode(operatorRequired).
			Build())
}

func IsOperator(email string) bool {
	raw, _ := viper.Get("OPERATOR_EMAILS").(string)
	for _, operator := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(operator), email) && email != "" {
			return true
		}
	}
	return false
}
