package randomness

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kollektive-hackathon/flipcard-backend/internal/game"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Lifecycle is the slice of the game engine the coordinator drives: claim
// the single-flight slot on the way out, deliver words on the way back.
type Lifecycle interface {
	BeginRandomnessRequest(requestId string) (uint64, error)
	FulfillRandomWords(requestId string, words [2]uint64) (uint64, bool)
	RequestInProgress() bool
}

type coordinator struct {
	db      *gorm.DB
	engine  Lifecycle
	bridge  *vrfContractBridge
	publish func(message pubsub.Publishable, options ...map[string]any)
}

type RandomWordsRequestedEvent struct {
	RequestId string `json:"requestId"`
	GameId    uint64 `json:"gameId"`
}

func (RandomWordsRequestedEvent) GetEventTopicName() string {
	return "flipcard.game.events"
}

type RandomWordsFulfilledEvent struct {
	RequestId string `json:"requestId"`
	GameId    uint64 `json:"gameId"`
}

func (RandomWordsFulfilledEvent) GetEventTopicName() string {
	return "flipcard.game.events"
}

// request claims the single-flight slot, records the request and hands it to
// the oracle worker. The claim and the command belong to the same operation:
// there is never a window where two requests both believe they are alone.
func (c *coordinator) request() (string, *reject.ProblemWithTrace) {
	requestId := uuid.New().String()

	gameId, err := c.engine.BeginRandomnessRequest(requestId)
	if err != nil {
		return "", requestProblem(err)
	}

	row := model.RandomnessRequest{
		Id:          requestId,
		GameId:      gameId,
		RequestedAt: time.Now().UTC(),
	}
	result := c.db.Create(&row)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error persisting randomness request")
	}

	c.bridge.sendRandomWordsRequest(requestId)
	c.publish(RandomWordsRequestedEvent{RequestId: requestId, GameId: gameId})

	return requestId, nil
}

func requestProblem(err error) *reject.ProblemWithTrace {
	problem := reject.UnexpectedProblem(err)
	if errors.Is(err, game.ErrRequestInProgress) {
		problem = reject.NewProblem().
			WithTitle("A randomness request is already in progress").
			WithStatus(http.StatusConflict).
			WithCode("error.game.request-in-progress").
			Build()
	}
	return &reject.ProblemWithTrace{Problem: problem, Cause: err}
}

// applyFulfillment feeds one oracle delivery into the engine. Malformed
// payloads and request ids that do not match the outstanding request are
// dropped: the callback has no caller to report to, so the only safe
// behavior is to log and leave state alone.
func (c *coordinator) applyFulfillment(payload *RandomWordsFulfilled) bool {
	if payload == nil || len(payload.RandomWords) != 2 {
		log.Warn().Msg("Dropping malformed randomness fulfillment")
		return false
	}

	words := [2]uint64{payload.RandomWords[0], payload.RandomWords[1]}
	gameId, ok := c.engine.FulfillRandomWords(payload.RequestId, words)
	if !ok {
		log.Warn().
			Str("requestId", payload.RequestId).
			Msg("Dropping randomness fulfillment for unknown or replayed request")
		return false
	}

	now := time.Now().UTC()
	result := c.db.
		Model(&model.RandomnessRequest{}).
		Where("id = ?", payload.RequestId).
		Updates(map[string]any{
			"fulfilled_at": now,
			"word_one":     words[0],
			"word_two":     words[1],
		})
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error mirroring randomness fulfillment to database")
	}

	c.publish(RandomWordsFulfilledEvent{RequestId: payload.RequestId, GameId: gameId})

	log.Info().
		Uint64("gameId", gameId).
		Str("requestId", payload.RequestId).
		Msg("Random words fulfilled")

	return true
}
