package model

import "time"

type EscrowDirection string

const (
	EscrowDeposit EscrowDirection = "DEPOSIT"
	EscrowPayout  EscrowDirection = "PAYOUT"
)

type EscrowEntry struct {
	Id            uint64 `gorm:"primaryKey"`
	GameId        uint64
	PlayerAddress string
	Amount        uint64
	Direction     EscrowDirection
	CommandId     string
	TimeCreated   time.Time
}

func (EscrowEntry) TableName() string {
	return "escrow_entry"
}
