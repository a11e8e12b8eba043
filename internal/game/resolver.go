package game

// Outcome is the result of resolving one game cycle. It is transient:
// the engine keeps winner and loser only until the prize is distributed,
// the durable record is the game_round row written by the service.
type Outcome struct {
	GameId  uint64    `json:"gameId"`
	Players [2]string `json:"players"`
	Winner  string    `json:"winner"`
	Loser   string    `json:"loser"`
	Words   [2]uint64 `json:"words"`
	Pot     uint64    `json:"pot"`
}

// resolveWinner applies the flip rule: word index maps to join order and the
// strictly greater word wins. Equal words void the draw instead of guessing
// a winner; the caller clears the words and requests fresh randomness.
func resolveWinner(players [2]string, words [2]uint64) (winner string, loser string, err error) {
	if words[0] == words[1] {
		return "", "", ErrTieReroll
	}
	if words[0] > words[1] {
		return players[0], players[1], nil
	}
	return players[1], players[0], nil
}
