package escrow

import (
	"time"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type settlementBridge interface {
	stakeDepositCommand(gameId uint64, player string, amount uint64) blockchain.Command
	prizePayoutCommand(gameId uint64, to string, amount uint64) blockchain.Command
	send(cmd blockchain.Command)
}

// Ledger is the funds custody between staking and payout. Every movement is
// an escrow_entry row plus a settlement command to the custodial chain
// worker; the row is written first so a failed write never emits a command.
type Ledger struct {
	db     *gorm.DB
	bridge settlementBridge
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		db:     db,
		bridge: &escrowContractBridge{},
	}
}

func (l *Ledger) Deposit(gameId uint64, player string, amount uint64) error {
	cmd := l.bridge.stakeDepositCommand(gameId, player, amount)

	entry := model.EscrowEntry{
		GameId:        gameId,
		PlayerAddress: player,
		Amount:        amount,
		Direction:     model.EscrowDeposit,
		CommandId:     cmd.Id,
		TimeCreated:   time.Now().UTC(),
	}
	result := l.db.Create(&entry)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error recording escrow deposit")
		return result.Error
	}

	l.bridge.send(cmd)
	return nil
}

func (l *Ledger) Payout(gameId uint64, to string, amount uint64) error {
	cmd := l.bridge.prizePayoutCommand(gameId, to, amount)

	entry := model.EscrowEntry{
		GameId:        gameId,
		PlayerAddress: to,
		Amount:        amount,
		Direction:     model.EscrowPayout,
		CommandId:     cmd.Id,
		TimeCreated:   time.Now().UTC(),
	}
	result := l.db.Create(&entry)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error recording escrow payout")
		return result.Error
	}

	l.bridge.send(cmd)
	return nil
}

func (l *Ledger) Balance(gameId uint64) uint64 {
	var balance int64
	result := l.db.Raw(`
		SELECT COALESCE(SUM(CASE direction WHEN 'DEPOSIT' THEN amount ELSE -amount END), 0)
		FROM escrow_entry
		WHERE game_id = ?`, gameId).
		Scan(&balance)

	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error reading escrow balance")
		return 0
	}
	if balance < 0 {
		return 0
	}
	return uint64(balance)
}
