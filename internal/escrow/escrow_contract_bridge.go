package escrow

import (
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
)

type escrowContractBridge struct{}

func (b *escrowContractBridge) stakeDepositCommand(gameId uint64, player string, amount uint64) blockchain.Command {
	commandType := "ESCROW_DEPOSIT"
	payload := []any{
		gameId,
		player,
		amount,
	}
	authorizers := []blockchain.Authorizer{blockchain.GetAdminAuthorizer()}
	return blockchain.NewBlockchainCommand(commandType, payload, authorizers)
}

func (b *escrowContractBridge) prizePayoutCommand(gameId uint64, to string, amount uint64) blockchain.Command {
	commandType := "PRIZE_PAYOUT"
	payload := []any{
		gameId,
		to,
		amount,
	}
	authorizers := []blockchain.Authorizer{blockchain.GetAdminAuthorizer()}
	return blockchain.NewBlockchainCommand(commandType, payload, authorizers)
}

func (b *escrowContractBridge) send(cmd blockchain.Command) {
	pubsub.Publish(cmd)
}
