package randomness

import (
	"context"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// RandomWordsFulfilled is the oracle worker's callback payload, keyed by the
// request id the coordinator issued.
type RandomWordsFulfilled struct {
	RequestId   string   `json:"requestId"`
	RandomWords []uint64 `json:"randomWords"`
}

const numWords = 2

type vrfContractBridge struct {
	coordinator *coordinator
}

func (b *vrfContractBridge) sendRandomWordsRequest(requestId string) {
	commandType := "VRF_REQUEST"
	payload := []any{
		requestId,
		viper.Get("VRF_KEY_HASH"),
		numWords,
	}
	authorizers := []blockchain.Authorizer{blockchain.GetAdminAuthorizer()}
	cmd := blockchain.NewBlockchainCommand(commandType, payload, authorizers)
	pubsub.Publish(cmd)
}

func (b *vrfContractBridge) handleRandomWordsFulfilled(_ context.Context, message *gcppubsub.Message) {
	log.Info().Msg("Received message payload " + string(message.Data))
	messagePayload, err := utils.JsonDecodeByteStream[RandomWordsFulfilled](message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Error while parsing RandomWordsFulfilled message")
		return
	}

	b.coordinator.applyFulfillment(messagePayload)
	message.Ack()
}
