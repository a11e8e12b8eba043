package model

type GameStatus string

const (
	GameOpen     GameStatus = "OPEN"
	GameStarted  GameStatus = "STARTED"
	GameResolved GameStatus = "RESOLVED"
	GameStopped  GameStatus = "STOPPED"
)
