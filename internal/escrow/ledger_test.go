package escrow

import (
	"fmt"
	"testing"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingBridge struct {
	sent []blockchain.Command
}

func (b *recordingBridge) stakeDepositCommand(gameId uint64, player string, amount uint64) blockchain.Command {
	return blockchain.Command{Id: "deposit-cmd", Type: "ESCROW_DEPOSIT", Payload: []any{gameId, player, amount}}
}

func (b *recordingBridge) prizePayoutCommand(gameId uint64, to string, amount uint64) blockchain.Command {
	return blockchain.Command{Id: "payout-cmd", Type: "PRIZE_PAYOUT", Payload: []any{gameId, to, amount}}
}

func (b *recordingBridge) send(cmd blockchain.Command) {
	b.sent = append(b.sent, cmd)
}

func newTestLedger(t *testing.T) (*Ledger, *recordingBridge, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.EscrowEntry{}))

	bridge := &recordingBridge{}
	return &Ledger{db: db, bridge: bridge}, bridge, db
}

func TestDepositWritesRowThenSendsCommand(t *testing.T) {
	ledger, bridge, db := newTestLedger(t)

	require.NoError(t, ledger.Deposit(1, "0xA", 10))

	var entries []model.EscrowEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(1), entries[0].GameId)
	assert.Equal(t, "0xA", entries[0].PlayerAddress)
	assert.Equal(t, uint64(10), entries[0].Amount)
	assert.Equal(t, model.EscrowDeposit, entries[0].Direction)
	assert.Equal(t, "deposit-cmd", entries[0].CommandId)

	require.Len(t, bridge.sent, 1)
	assert.Equal(t, "ESCROW_DEPOSIT", bridge.sent[0].Type)
}

func TestDepositRowFailureSuppressesCommand(t *testing.T) {
	ledger, bridge, db := newTestLedger(t)
	require.NoError(t, db.Migrator().DropTable(&model.EscrowEntry{}))

	err := ledger.Deposit(1, "0xA", 10)

	require.Error(t, err)
	assert.Empty(t, bridge.sent)
}

func TestPayoutWritesRowThenSendsCommand(t *testing.T) {
	ledger, bridge, db := newTestLedger(t)

	require.NoError(t, ledger.Payout(1, "0xB", 20))

	var entries []model.EscrowEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, model.EscrowPayout, entries[0].Direction)
	assert.Equal(t, "payout-cmd", entries[0].CommandId)

	require.Len(t, bridge.sent, 1)
	assert.Equal(t, "PRIZE_PAYOUT", bridge.sent[0].Type)
}

func TestPayoutRowFailureSuppressesCommand(t *testing.T) {
	ledger, bridge, db := newTestLedger(t)
	require.NoError(t, db.Migrator().DropTable(&model.EscrowEntry{}))

	err := ledger.Payout(1, "0xB", 20)

	require.Error(t, err)
	assert.Empty(t, bridge.sent)
}

func TestBalanceNetsDepositsAgainstPayouts(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	assert.Equal(t, uint64(0), ledger.Balance(1))

	require.NoError(t, ledger.Deposit(1, "0xA", 10))
	require.NoError(t, ledger.Deposit(1, "0xB", 10))
	assert.Equal(t, uint64(20), ledger.Balance(1))

	require.NoError(t, ledger.Payout(1, "0xA", 20))
	assert.Equal(t, uint64(0), ledger.Balance(1))
}

func TestBalanceIsScopedPerGame(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	require.NoError(t, ledger.Deposit(1, "0xA", 10))
	require.NoError(t, ledger.Deposit(2, "0xB", 30))

	assert.Equal(t, uint64(10), ledger.Balance(1))
	assert.Equal(t, uint64(30), ledger.Balance(2))
}

func TestBalanceClampsBelowZero(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	require.NoError(t, ledger.Payout(1, "0xA", 5))

	assert.Equal(t, uint64(0), ledger.Balance(1))
}
