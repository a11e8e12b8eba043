package model

import "time"

// GameRound is the persisted audit record of a resolved cycle. The live
// engine forgets the roster and words as part of the reset; this row and the
// fairness tree built over it are the durable history.
type GameRound struct {
	Id         uint64 `gorm:"primaryKey"`
	GameId     uint64
	PlayerOne  string
	PlayerTwo  string
	WordOne    uint64
	WordTwo    uint64
	Winner     string
	Loser      string
	Pot        uint64
	ResolvedAt time.Time
	PaidAt     *time.Time
}

func (GameRound) TableName() string {
	return "game_round"
}
