package game

// Events are the externally observable audit trail. They go out on the game
// events topic and to the websocket hub so indexers and spectators can
// reconstruct history from the exact arguments.

const gameEventsTopic = "flipcard.game.events"

type GameCreatedEvent struct {
	GameId   uint64 `json:"gameId"`
	EntryFee uint64 `json:"entryFee"`
}

func (GameCreatedEvent) GetEventTopicName() string {
	return gameEventsTopic
}

type GameInitiatedEvent struct {
	GameId   uint64 `json:"gameId"`
	EntryFee uint64 `json:"entryFee"`
}

func (GameInitiatedEvent) GetEventTopicName() string {
	return gameEventsTopic
}

type GameStoppedEvent struct {
	GameId uint64 `json:"gameId"`
}

func (GameStoppedEvent) GetEventTopicName() string {
	return gameEventsTopic
}

type CardFlippedEvent struct {
	GameId uint64    `json:"gameId"`
	Winner string    `json:"winner"`
	Loser  string    `json:"loser"`
	Words  [2]uint64 `json:"words"`
}

func (CardFlippedEvent) GetEventTopicName() string {
	return gameEventsTopic
}

type PrizeDistributedEvent struct {
	GameId uint64 `json:"gameId"`
	Winner string `json:"winner"`
	Amount uint64 `json:"amount"`
}

func (PrizeDistributedEvent) GetEventTopicName() string {
	return gameEventsTopic
}
