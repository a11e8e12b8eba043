package game

type CreateGameRequest struct {
	EntryFee uint64  `json:"entryFee"`
	GameId   *uint64 `json:"gameId,omitempty"`
}

type JoinGameRequest struct {
	Value uint64 `json:"value"`
}
