package model

import "time"

type RandomnessRequest struct {
	Id          string `gorm:"primaryKey"`
	GameId      uint64
	RequestedAt time.Time
	FulfilledAt *time.Time
	WordOne     *uint64
	WordTwo     *uint64
}

func (RandomnessRequest) TableName() string {
	return "randomness_request"
}
