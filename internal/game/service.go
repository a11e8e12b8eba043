package game

import (
	"strconv"
	"time"

	"github.com/kollektive-hackathon/flipcard-backend/internal/fairness"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/utils"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/ws"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gameService struct {
	db              *gorm.DB
	engine          *Engine
	rounds          *fairness.RoundLog
	notificationHub *ws.WebSocketNotificationHub
}

// The engine is the authority on lifecycle state; the service mirrors it
// into postgres for audit, publishes the event trail and resolves caller
// identity to a custodial wallet address.

func (gs *gameService) createGame(request CreateGameRequest) (*model.Game, *reject.ProblemWithTrace) {
	var gameId uint64
	var err error

	if request.GameId != nil {
		gameId = *request.GameId
		err = gs.engine.CreateGameWithId(gameId, request.EntryFee)
	} else {
		gameId, err = gs.engine.CreateGame(request.EntryFee)
	}
	if err != nil {
		return nil, problemOf(err)
	}

	created := &model.Game{
		Id:          gameId,
		EntryFee:    request.EntryFee,
		GameStatus:  model.GameOpen,
		TimeCreated: time.Now().UTC(),
	}
	gs.persistGame(created)

	event := GameCreatedEvent{GameId: gameId, EntryFee: request.EntryFee}
	pubsub.Publish(event)
	gs.notifyGame(gameId, event)

	return created, nil
}

func (gs *gameService) joinGame(gameId uint64, userEmail string, request JoinGameRequest) (bool, *reject.ProblemWithTrace) {
	address, problem := gs.walletAddress(userEmail)
	if problem != nil {
		return false, problem
	}

	started, err := gs.engine.Join(gameId, address, request.Value)
	if err != nil {
		return false, problemOf(err)
	}

	if started {
		now := time.Now().UTC()
		result := gs.db.
			Model(&model.Game{}).
			Where("id = ?", gameId).
			Updates(map[string]any{"game_status": model.GameStarted, "time_started": now})
		if result.Error != nil {
			log.Warn().Err(result.Error).Msg("Error mirroring game start to database")
		}

		event := GameInitiatedEvent{GameId: gameId, EntryFee: gs.engine.EntryFee(gameId)}
		pubsub.Publish(event)
		gs.notifyGame(gameId, event)
	}

	return started, nil
}

func (gs *gameService) stopGame(gameId uint64) (uint64, *reject.ProblemWithTrace) {
	if gameId == 0 {
		gameId = gs.engine.CurrentGameId()
	}
	if err := gs.engine.Stop(gameId); err != nil {
		return 0, problemOf(err)
	}

	now := time.Now().UTC()
	result := gs.db.
		Model(&model.Game{}).
		Where("id = ?", gameId).
		Updates(map[string]any{"game_status": model.GameStopped, "time_stopped": now})
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error mirroring game stop to database")
	}

	event := GameStoppedEvent{GameId: gameId}
	pubsub.Publish(event)
	gs.notifyGame(gameId, event)

	return gameId, nil
}

func (gs *gameService) flipCard(gameId uint64) (*Outcome, *reject.ProblemWithTrace) {
	outcome, err := gs.engine.Flip(gameId)
	if err != nil {
		return nil, problemOf(err)
	}

	round := model.GameRound{
		GameId:     outcome.GameId,
		PlayerOne:  outcome.Players[0],
		PlayerTwo:  outcome.Players[1],
		WordOne:    outcome.Words[0],
		WordTwo:    outcome.Words[1],
		Winner:     outcome.Winner,
		Loser:      outcome.Loser,
		Pot:        outcome.Pot,
		ResolvedAt: time.Now().UTC(),
	}

	result := gs.db.Create(&round)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error persisting resolved round")
	}
	gs.rounds.Append(round)

	statusUpdate := gs.db.
		Model(&model.Game{}).
		Where("id = ?", outcome.GameId).
		Update("game_status", model.GameResolved)
	if statusUpdate.Error != nil {
		log.Warn().Err(statusUpdate.Error).Msg("Error mirroring game resolution to database")
	}

	event := CardFlippedEvent{
		GameId: outcome.GameId,
		Winner: outcome.Winner,
		Loser:  outcome.Loser,
		Words:  outcome.Words,
	}
	pubsub.Publish(event)
	gs.notifyGame(outcome.GameId, event)

	return &outcome, nil
}

func (gs *gameService) distributePrize() (*Outcome, *reject.ProblemWithTrace) {
	payout, err := gs.engine.DistributePrize()
	if err != nil {
		return nil, problemOf(err)
	}

	now := time.Now().UTC()
	result := gs.db.
		Model(&model.GameRound{}).
		Where("game_id = ? AND paid_at IS NULL", payout.GameId).
		Update("paid_at", now)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error mirroring prize payout to database")
	}

	event := PrizeDistributedEvent{
		GameId: payout.GameId,
		Winner: payout.Winner,
		Amount: payout.Pot,
	}
	pubsub.Publish(event)
	gs.notifyGame(payout.GameId, event)

	return &payout, nil
}

func (gs *gameService) gameRounds(gameId uint64, page utils.PageRequest) (*utils.PageResponse[model.GameRound], *reject.ProblemWithTrace) {
	var rounds []model.GameRound
	result := gs.db.
		Where("game_id = ?", gameId).
		Order("id").
		Limit(page.Size).
		Offset(page.Offset).
		Find(&rounds)
	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	var count int64
	countResult := gs.db.
		Model(&model.GameRound{}).
		Where("game_id = ?", gameId).
		Count(&count)
	if countResult.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(countResult.Error),
			Cause:   countResult.Error,
		}
	}

	return utils.NewPageResponse[model.GameRound]().
		WithItems(rounds).
		WithItemCount(count).
		WithNextPageToken(int64(page.Token + 1)).
		Build(), nil
}

func (gs *gameService) persistGame(game *model.Game) {
	// An id slot is reusable after resolution, so create-or-update.
	var existing model.Game
	found := gs.db.Where("id = ?", game.Id).First(&existing)
	if found.Error == nil {
		result := gs.db.
			Model(&model.Game{}).
			Where("id = ?", game.Id).
			Updates(map[string]any{
				"entry_fee":    game.EntryFee,
				"game_status":  game.GameStatus,
				"time_created": game.TimeCreated,
				"time_started": nil,
				"time_stopped": nil,
			})
		if result.Error != nil {
			log.Warn().Err(result.Error).Msg("Error mirroring game to database")
		}
		return
	}

	result := gs.db.Create(game)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error persisting game to database")
	}
}

func (gs *gameService) walletAddress(userEmail string) (string, *reject.ProblemWithTrace) {
	var address string
	result := gs.db.Raw(`
		SELECT cw.address FROM flipcard_user u
		INNER JOIN custodial_wallet cw ON u.custodial_wallet_id = cw.id
		WHERE u.email = ?`, userEmail).
		Scan(&address)

	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error fetching custodial wallet of caller")
		return "", &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem(),
			Cause:   result.Error,
		}
	}
	if address == "" {
		return "", &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem(),
			Cause:   gorm.ErrRecordNotFound,
		}
	}

	return address, nil
}

func (gs *gameService) notifyGame(gameId uint64, event any) {
	gs.notificationHub.Publish(strconv.FormatUint(gameId, 10), event)
}
