package game

import (
	"sync"
)

// Ledger is the escrow collaborator holding staked funds between join and
// payout. Implementations must be atomic per call: a returned error means
// nothing was recorded.
type Ledger interface {
	Deposit(gameId uint64, player string, amount uint64) error
	Payout(gameId uint64, to string, amount uint64) error
	Balance(gameId uint64) uint64
}

const rosterCapacity = 2

type gameState struct {
	id         uint64
	entryFee   uint64
	players    []string
	registered map[string]bool
	started    bool
	stopped    bool
	words      [2]uint64
	wordsReady bool
	resolved   bool
}

// Engine is the lifecycle core: game registry, state machine, randomness
// single-flight and payout bookkeeping. A single mutex makes every public
// operation an indivisible unit, which is the only serialization the
// protocol needs; the hard constraint is cross-call ordering, not intra-call
// concurrency.
type Engine struct {
	mu     sync.Mutex
	ledger Ledger

	games     map[uint64]*gameState
	currentId uint64
	nextId    uint64

	requestId     string
	requestGameId uint64
	inProgress    bool

	winner      string
	loser       string
	prizeGameId uint64
	prizePot    uint64
}

func NewEngine(ledger Ledger) *Engine {
	return &Engine{
		ledger: ledger,
		games:  map[uint64]*gameState{},
		nextId: 1,
	}
}

// CreateGame registers a fresh game under an auto incremented id and makes
// it the current game.
func (e *Engine) CreateGame(entryFee uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for e.games[e.nextId] != nil {
		e.nextId++
	}
	id := e.nextId
	if err := e.createGame(id, entryFee); err != nil {
		return 0, err
	}
	e.nextId++
	return id, nil
}

// CreateGameWithId registers a game under an explicit id. An id is reusable
// only once its previous cycle has been resolved and reset.
func (e *Engine) CreateGameWithId(id uint64, entryFee uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createGame(id, entryFee)
}

func (e *Engine) createGame(id uint64, entryFee uint64) error {
	if entryFee == 0 {
		return ErrInvalidEntryFee
	}
	if existing := e.games[id]; existing != nil && !existing.resolved {
		return ErrDuplicateGameId
	}
	e.games[id] = &gameState{
		id:         id,
		entryFee:   entryFee,
		registered: map[string]bool{},
	}
	e.currentId = id
	return nil
}

// Join appends the caller to the roster, staking value into escrow. The
// staked value must equal the entry fee exactly. When the roster reaches
// capacity the game flips to started and the returned flag is true.
func (e *Engine) Join(gameId uint64, player string, value uint64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.lookup(gameId)
	if err != nil {
		return false, err
	}
	if g.stopped {
		return false, ErrGameNotFound
	}
	if g.started || len(g.players) >= rosterCapacity {
		return false, ErrGameAlreadyStarted
	}
	if g.registered[player] {
		return false, ErrAlreadyRegistered
	}
	if value != g.entryFee {
		return false, ErrEntryFeeMismatch
	}

	// Escrow first: a rejected deposit must leave the roster untouched.
	if err := e.ledger.Deposit(g.id, player, value); err != nil {
		return false, err
	}

	g.players = append(g.players, player)
	g.registered[player] = true
	g.resolved = false

	if len(g.players) == rosterCapacity {
		g.started = true
	}
	return g.started, nil
}

// Stop cancels a game administratively. Registration flags are cleared so
// the players can stake into a future cycle, the historical roster stays
// readable. The randomness single-flight flag is deliberately left alone.
func (e *Engine) Stop(gameId uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.lookup(gameId)
	if err != nil {
		return err
	}
	g.started = false
	g.stopped = true
	g.registered = map[string]bool{}
	return nil
}

// BeginRandomnessRequest claims the global single-flight slot for the given
// request id and attaches it to the current game. At most one request may be
// outstanding across the whole system.
func (e *Engine) BeginRandomnessRequest(requestId string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inProgress {
		return 0, ErrRequestInProgress
	}
	e.inProgress = true
	e.requestId = requestId
	e.requestGameId = e.currentId
	return e.currentId, nil
}

// FulfillRandomWords records the oracle callback. A delivery whose request
// id does not match the outstanding one, including a replay of an already
// fulfilled request, is a no-op and reports false.
func (e *Engine) FulfillRandomWords(requestId string, words [2]uint64) (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inProgress || requestId != e.requestId {
		return 0, false
	}

	gameId := e.requestGameId
	if g := e.games[gameId]; g != nil {
		g.words = words
		g.wordsReady = true
	}
	e.inProgress = false
	e.requestId = ""
	return gameId, true
}

// Flip resolves the game from the delivered words and resets the cycle for
// reuse. On a tie the stored words are cleared and the game stays started so
// the operator can request fresh randomness.
func (e *Engine) Flip(gameId uint64) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.lookup(gameId)
	if err != nil {
		return Outcome{}, err
	}
	if g.stopped {
		return Outcome{}, ErrGameNotFound
	}
	if !g.started || !g.wordsReady {
		return Outcome{}, ErrWordsNotReady
	}
	if e.winner != "" {
		return Outcome{}, ErrPrizeUnclaimed
	}

	winner, loser, err := resolveWinner([2]string{g.players[0], g.players[1]}, g.words)
	if err != nil {
		g.words = [2]uint64{}
		g.wordsReady = false
		return Outcome{}, err
	}

	outcome := Outcome{
		GameId:  g.id,
		Players: [2]string{g.players[0], g.players[1]},
		Winner:  winner,
		Loser:   loser,
		Words:   g.words,
		Pot:     g.entryFee * rosterCapacity,
	}

	e.winner = winner
	e.loser = loser
	e.prizeGameId = g.id
	e.prizePot = outcome.Pot

	g.started = false
	g.words = [2]uint64{}
	g.wordsReady = false
	g.players = nil
	g.registered = map[string]bool{}
	g.resolved = true

	return outcome, nil
}

// DistributePrize pays the pooled stake to the resolved winner. The escrow
// transfer is the last effect: if it fails the game stays resolved but
// unpaid and the pooled funds remain in escrow. A successful payout clears
// the winner, so a second call fails with ErrNoWinner.
func (e *Engine) DistributePrize() (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.winner == "" {
		return Outcome{}, ErrNoWinner
	}

	payout := Outcome{
		GameId: e.prizeGameId,
		Winner: e.winner,
		Loser:  e.loser,
		Pot:    e.prizePot,
	}

	if err := e.ledger.Payout(e.prizeGameId, e.winner, e.prizePot); err != nil {
		return Outcome{}, ErrTransferFailed
	}

	e.winner = ""
	e.loser = ""
	e.prizeGameId = 0
	e.prizePot = 0

	return payout, nil
}

func (e *Engine) lookup(gameId uint64) (*gameState, error) {
	if gameId == 0 {
		gameId = e.currentId
	}
	g := e.games[gameId]
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Read surface. All queries are side effect free.

func (e *Engine) CurrentGameId() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentId
}

func (e *Engine) EntryFee(gameId uint64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g := e.games[gameId]; g != nil {
		return g.entryFee
	}
	return 0
}

func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g := e.games[e.currentId]; g != nil {
		return g.started
	}
	return false
}

func (e *Engine) IsStopped(gameId uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g := e.games[gameId]; g != nil {
		return g.stopped
	}
	return false
}

func (e *Engine) PlayerInGame(gameId uint64, player string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g := e.games[gameId]; g != nil {
		return g.registered[player]
	}
	return false
}

func (e *Engine) Players(gameId uint64) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.games[gameId]
	if g == nil {
		return nil
	}
	players := make([]string, len(g.players))
	copy(players, g.players)
	return players
}

func (e *Engine) Winner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner
}

func (e *Engine) Loser() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loser
}

func (e *Engine) RequestInProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inProgress
}
