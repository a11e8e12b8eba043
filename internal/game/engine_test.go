package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movement struct {
	gameId uint64
	player string
	amount uint64
}

type fakeLedger struct {
	deposits    []movement
	payouts     []movement
	failDeposit bool
	failPayout  bool
}

func (f *fakeLedger) Deposit(gameId uint64, player string, amount uint64) error {
	if f.failDeposit {
		return errors.New("deposit rejected")
	}
	f.deposits = append(f.deposits, movement{gameId, player, amount})
	return nil
}

func (f *fakeLedger) Payout(gameId uint64, to string, amount uint64) error {
	if f.failPayout {
		return errors.New("payout rejected")
	}
	f.payouts = append(f.payouts, movement{gameId, to, amount})
	return nil
}

func (f *fakeLedger) Balance(gameId uint64) uint64 {
	var balance int64
	for _, d := range f.deposits {
		if d.gameId == gameId {
			balance += int64(d.amount)
		}
	}
	for _, p := range f.payouts {
		if p.gameId == gameId {
			balance -= int64(p.amount)
		}
	}
	if balance < 0 {
		return 0
	}
	return uint64(balance)
}

func newTestEngine() (*Engine, *fakeLedger) {
	ledger := &fakeLedger{}
	return NewEngine(ledger), ledger
}

func fillRoster(t *testing.T, e *Engine, gameId uint64, fee uint64, players ...string) {
	t.Helper()
	for i, p := range players {
		started, err := e.Join(gameId, p, fee)
		require.NoError(t, err)
		require.Equal(t, i == len(players)-1 && len(players) == rosterCapacity, started)
	}
}

func TestCreateGameAssignsIncrementingIds(t *testing.T) {
	e, _ := newTestEngine()

	first, err := e.CreateGame(10)
	require.NoError(t, err)
	second, err := e.CreateGame(20)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, second, e.CurrentGameId())
	assert.Equal(t, uint64(10), e.EntryFee(first))
	assert.Equal(t, uint64(20), e.EntryFee(second))
}

func TestCreateGameRejectsZeroEntryFee(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.CreateGame(0)
	assert.ErrorIs(t, err, ErrInvalidEntryFee)

	err = e.CreateGameWithId(7, 0)
	assert.ErrorIs(t, err, ErrInvalidEntryFee)
}

func TestCreateGameWithIdRejectsDuplicate(t *testing.T) {
	e, _ := newTestEngine()

	require.NoError(t, e.CreateGameWithId(5, 10))
	assert.ErrorIs(t, e.CreateGameWithId(5, 10), ErrDuplicateGameId)
}

func TestGameIdReusableAfterResolution(t *testing.T) {
	e, _ := newTestEngine()

	require.NoError(t, e.CreateGameWithId(5, 10))
	fillRoster(t, e, 5, 10, "0xA", "0xB")
	_, err := e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{8, 3})
	require.True(t, ok)
	_, err = e.Flip(5)
	require.NoError(t, err)

	assert.NoError(t, e.CreateGameWithId(5, 25))
	assert.Equal(t, uint64(25), e.EntryFee(5))
}

func TestJoinStakesIntoEscrowAndStartsAtCapacity(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	started, err := e.Join(id, "0xA", 10)
	require.NoError(t, err)
	assert.False(t, started)
	assert.False(t, e.Started())

	started, err = e.Join(id, "0xB", 10)
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, e.Started())

	assert.Equal(t, []string{"0xA", "0xB"}, e.Players(id))
	assert.True(t, e.PlayerInGame(id, "0xA"))
	assert.Equal(t, uint64(20), ledger.Balance(id))
}

func TestJoinDefaultsToCurrentGame(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	_, err = e.Join(0, "0xA", 10)
	require.NoError(t, err)
	assert.True(t, e.PlayerInGame(id, "0xA"))
}

func TestJoinRejections(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	_, err = e.Join(id+100, "0xA", 10)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = e.Join(id, "0xA", 9)
	assert.ErrorIs(t, err, ErrEntryFeeMismatch)
	_, err = e.Join(id, "0xA", 11)
	assert.ErrorIs(t, err, ErrEntryFeeMismatch)
	assert.Empty(t, ledger.deposits)

	_, err = e.Join(id, "0xA", 10)
	require.NoError(t, err)
	_, err = e.Join(id, "0xA", 10)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = e.Join(id, "0xB", 10)
	require.NoError(t, err)
	_, err = e.Join(id, "0xC", 10)
	assert.ErrorIs(t, err, ErrGameAlreadyStarted)

	assert.Len(t, ledger.deposits, 2)
}

func TestJoinKeepsRosterOnDepositFailure(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	ledger.failDeposit = true
	_, err = e.Join(id, "0xA", 10)
	require.Error(t, err)

	assert.Empty(t, e.Players(id))
	assert.False(t, e.PlayerInGame(id, "0xA"))

	ledger.failDeposit = false
	_, err = e.Join(id, "0xA", 10)
	assert.NoError(t, err)
}

func TestStopClearsRegistrationKeepsRoster(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	require.NoError(t, e.Stop(id))

	assert.True(t, e.IsStopped(id))
	assert.False(t, e.Started())
	assert.False(t, e.PlayerInGame(id, "0xA"))
	assert.Equal(t, []string{"0xA", "0xB"}, e.Players(id))

	_, err = e.Join(id, "0xC", 10)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestStopLeavesRandomnessRequestOutstanding(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	require.NoError(t, e.Stop(id))

	assert.True(t, e.RequestInProgress())
}

func TestRandomnessRequestSingleFlight(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	gameId, err := e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	assert.Equal(t, id, gameId)
	assert.True(t, e.RequestInProgress())

	_, err = e.BeginRandomnessRequest("req-2")
	assert.ErrorIs(t, err, ErrRequestInProgress)

	_, ok := e.FulfillRandomWords("req-1", [2]uint64{1, 2})
	require.True(t, ok)
	assert.False(t, e.RequestInProgress())

	_, err = e.BeginRandomnessRequest("req-3")
	assert.NoError(t, err)
}

func TestFulfillRandomWordsIgnoresUnknownAndReplayedRequests(t *testing.T) {
	e, _ := newTestEngine()
	_, err := e.CreateGame(10)
	require.NoError(t, err)

	_, ok := e.FulfillRandomWords("never-issued", [2]uint64{1, 2})
	assert.False(t, ok)

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)

	_, ok = e.FulfillRandomWords("some-other-id", [2]uint64{1, 2})
	assert.False(t, ok)
	assert.True(t, e.RequestInProgress())

	gameId, ok := e.FulfillRandomWords("req-1", [2]uint64{1, 2})
	require.True(t, ok)
	assert.Equal(t, e.CurrentGameId(), gameId)

	_, ok = e.FulfillRandomWords("req-1", [2]uint64{9, 9})
	assert.False(t, ok)
}

func TestFlipRequiresStartedGameAndWords(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)

	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrWordsNotReady)

	fillRoster(t, e, id, 10, "0xA", "0xB")
	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrWordsNotReady)
}

func TestFlipResolvesWinnerAndResetsGame(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{3, 9})
	require.True(t, ok)

	outcome, err := e.Flip(id)
	require.NoError(t, err)

	assert.Equal(t, id, outcome.GameId)
	assert.Equal(t, "0xB", outcome.Winner)
	assert.Equal(t, "0xA", outcome.Loser)
	assert.Equal(t, [2]string{"0xA", "0xB"}, outcome.Players)
	assert.Equal(t, [2]uint64{3, 9}, outcome.Words)
	assert.Equal(t, uint64(20), outcome.Pot)

	assert.Equal(t, "0xB", e.Winner())
	assert.Equal(t, "0xA", e.Loser())
	assert.False(t, e.Started())
	assert.Empty(t, e.Players(id))
	assert.False(t, e.PlayerInGame(id, "0xA"))

	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrWordsNotReady)
}

func TestFlipTieClearsWordsAndKeepsGameStarted(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{7, 7})
	require.True(t, ok)

	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrTieReroll)
	assert.True(t, e.Started())
	assert.Equal(t, "", e.Winner())

	// words were consumed, a fresh request is needed before the next flip
	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrWordsNotReady)

	_, err = e.BeginRandomnessRequest("req-2")
	require.NoError(t, err)
	_, ok = e.FulfillRandomWords("req-2", [2]uint64{8, 2})
	require.True(t, ok)

	outcome, err := e.Flip(id)
	require.NoError(t, err)
	assert.Equal(t, "0xA", outcome.Winner)
}

func TestFlipBlockedWhilePrizeUnclaimed(t *testing.T) {
	e, _ := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{9, 1})
	require.True(t, ok)
	_, err = e.Flip(id)
	require.NoError(t, err)

	fillRoster(t, e, id, 10, "0xA", "0xB")
	_, err = e.BeginRandomnessRequest("req-2")
	require.NoError(t, err)
	_, ok = e.FulfillRandomWords("req-2", [2]uint64{4, 6})
	require.True(t, ok)

	_, err = e.Flip(id)
	assert.ErrorIs(t, err, ErrPrizeUnclaimed)

	_, err = e.DistributePrize()
	require.NoError(t, err)

	outcome, err := e.Flip(id)
	require.NoError(t, err)
	assert.Equal(t, "0xB", outcome.Winner)
}

func TestDistributePrizeRequiresResolvedWinner(t *testing.T) {
	e, ledger := newTestEngine()

	_, err := e.DistributePrize()
	assert.ErrorIs(t, err, ErrNoWinner)
	assert.Empty(t, ledger.payouts)
}

func TestDistributePrizePaysPotExactlyOnce(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{9, 1})
	require.True(t, ok)
	_, err = e.Flip(id)
	require.NoError(t, err)

	payout, err := e.DistributePrize()
	require.NoError(t, err)
	assert.Equal(t, "0xA", payout.Winner)
	assert.Equal(t, uint64(20), payout.Pot)
	assert.Equal(t, []movement{{id, "0xA", 20}}, ledger.payouts)
	assert.Equal(t, "", e.Winner())

	_, err = e.DistributePrize()
	assert.ErrorIs(t, err, ErrNoWinner)
	assert.Len(t, ledger.payouts, 1)
}

func TestDistributePrizeKeepsWinnerOnTransferFailure(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(10)
	require.NoError(t, err)
	fillRoster(t, e, id, 10, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{9, 1})
	require.True(t, ok)
	_, err = e.Flip(id)
	require.NoError(t, err)

	ledger.failPayout = true
	_, err = e.DistributePrize()
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.Equal(t, "0xA", e.Winner())
	assert.Equal(t, uint64(20), ledger.Balance(id))

	ledger.failPayout = false
	payout, err := e.DistributePrize()
	require.NoError(t, err)
	assert.Equal(t, "0xA", payout.Winner)
	assert.Equal(t, uint64(0), ledger.Balance(id))
}

func TestFullCycleLeavesEscrowEmpty(t *testing.T) {
	e, ledger := newTestEngine()
	id, err := e.CreateGame(2)
	require.NoError(t, err)
	fillRoster(t, e, id, 2, "0xA", "0xB")

	_, err = e.BeginRandomnessRequest("req-1")
	require.NoError(t, err)
	_, ok := e.FulfillRandomWords("req-1", [2]uint64{9, 3})
	require.True(t, ok)

	outcome, err := e.Flip(id)
	require.NoError(t, err)
	assert.Equal(t, "0xA", outcome.Winner)
	assert.Equal(t, uint64(4), outcome.Pot)

	payout, err := e.DistributePrize()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), payout.Pot)
	assert.Equal(t, uint64(0), ledger.Balance(id))
}
