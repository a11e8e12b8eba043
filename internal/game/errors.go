package game

import (
	"errors"
	"net/http"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
)

var (
	ErrInvalidEntryFee    = errors.New("entry fee must be greater than zero")
	ErrDuplicateGameId    = errors.New("game id is already in use")
	ErrGameNotFound       = errors.New("game not found")
	ErrEntryFeeMismatch   = errors.New("staked value must equal the entry fee exactly")
	ErrAlreadyRegistered  = errors.New("player is already registered for this game")
	ErrGameAlreadyStarted = errors.New("game roster is already full")
	ErrRequestInProgress  = errors.New("a randomness request is already in progress")
	ErrWordsNotReady      = errors.New("random words have not been delivered yet")
	ErrTieReroll          = errors.New("random words tied, fresh randomness is required")
	ErrPrizeUnclaimed     = errors.New("previous prize has not been distributed yet")
	ErrNoWinner           = errors.New("no winner has been resolved")
	ErrTransferFailed     = errors.New("prize transfer failed")
)

func problemOf(err error) *reject.ProblemWithTrace {
	var problem reject.Problem

	switch {
	case errors.Is(err, ErrInvalidEntryFee):
		problem = buildProblem("Entry fee must be greater than zero", http.StatusBadRequest, "error.game.invalid-entry-fee")
	case errors.Is(err, ErrDuplicateGameId):
		problem = buildProblem("Game id is already in use", http.StatusConflict, "error.game.duplicate-id")
	case errors.Is(err, ErrGameNotFound):
		problem = buildProblem("Game not found", http.StatusNotFound, "error.game.not-found")
	case errors.Is(err, ErrEntryFeeMismatch):
		problem = buildProblem("Staked value must equal the entry fee exactly", http.StatusBadRequest, "error.game.entry-fee-mismatch")
	case errors.Is(err, ErrAlreadyRegistered):
		problem = buildProblem("Player is already registered for this game", http.StatusConflict, "error.game.already-registered")
	case errors.Is(err, ErrGameAlreadyStarted):
		problem = buildProblem("Game roster is already full", http.StatusConflict, "error.game.already-started")
	case errors.Is(err, ErrRequestInProgress):
		problem = buildProblem("A randomness request is already in progress", http.StatusConflict, "error.game.request-in-progress")
	case errors.Is(err, ErrWordsNotReady):
		problem = buildProblem("Random words have not been delivered yet", http.StatusConflict, "error.game.words-not-ready")
	case errors.Is(err, ErrTieReroll):
		problem = buildProblem("Random words tied, fresh randomness is required", http.StatusConflict, "error.game.tie-reroll")
	case errors.Is(err, ErrPrizeUnclaimed):
		problem = buildProblem("Previous prize has not been distributed yet", http.StatusConflict, "error.game.prize-unclaimed")
	case errors.Is(err, ErrNoWinner):
		problem = buildProblem("No winner has been resolved", http.StatusConflict, "error.game.no-winner")
	case errors.Is(err, ErrTransferFailed):
		problem = buildProblem("Prize transfer failed, funds remain in escrow", http.StatusBadGateway, "error.game.transfer-failed")
	default:
		problem = reject.UnexpectedProblem(err)
	}

	return &reject.ProblemWithTrace{
		Problem: problem,
		Cause:   err,
	}
}

func buildProblem(title string, status int, code string) reject.Problem {
	return reject.NewProblem().
		WithTitle(title).
		WithStatus(status).
		WithCode(code).
		Build()
}
