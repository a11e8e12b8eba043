package model

import (
	"time"
)

type Game struct {
	Id          uint64 `gorm:"primaryKey"`
	EntryFee    uint64
	GameStatus  GameStatus
	TimeCreated time.Time
	TimeStarted *time.Time
	TimeStopped *time.Time
}

func (Game) TableName() string {
	return "game"
}
