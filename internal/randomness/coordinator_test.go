package randomness

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kollektive-hackathon/flipcard-backend/internal/game"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeLifecycle struct {
	fulfilled  map[string][2]uint64
	acceptId   string
	gameId     uint64
	inProgress bool
}

func (f *fakeLifecycle) BeginRandomnessRequest(requestId string) (uint64, error) {
	if f.inProgress {
		return 0, game.ErrRequestInProgress
	}
	f.inProgress = true
	f.acceptId = requestId
	return f.gameId, nil
}

func (f *fakeLifecycle) FulfillRandomWords(requestId string, words [2]uint64) (uint64, bool) {
	if !f.inProgress || requestId != f.acceptId {
		return 0, false
	}
	if f.fulfilled == nil {
		f.fulfilled = map[string][2]uint64{}
	}
	f.fulfilled[requestId] = words
	f.inProgress = false
	return f.gameId, true
}

func (f *fakeLifecycle) RequestInProgress() bool {
	return f.inProgress
}

type eventRecorder struct {
	published []pubsub.Publishable
}

func (r *eventRecorder) publish(message pubsub.Publishable, _ ...map[string]any) {
	r.published = append(r.published, message)
}

func TestApplyFulfillmentDropsMalformedPayloads(t *testing.T) {
	engine := &fakeLifecycle{gameId: 1}
	recorder := &eventRecorder{}
	c := &coordinator{engine: engine, publish: recorder.publish}

	assert.False(t, c.applyFulfillment(nil))
	assert.False(t, c.applyFulfillment(&RandomWordsFulfilled{RequestId: "req-1"}))
	assert.False(t, c.applyFulfillment(&RandomWordsFulfilled{
		RequestId:   "req-1",
		RandomWords: []uint64{1},
	}))
	assert.False(t, c.applyFulfillment(&RandomWordsFulfilled{
		RequestId:   "req-1",
		RandomWords: []uint64{1, 2, 3},
	}))
	assert.Empty(t, engine.fulfilled)
	assert.Empty(t, recorder.published)
}

func TestApplyFulfillmentDropsUnknownRequestId(t *testing.T) {
	engine := &fakeLifecycle{gameId: 1}
	engine.BeginRandomnessRequest("req-1")
	recorder := &eventRecorder{}
	c := &coordinator{engine: engine, publish: recorder.publish}

	dropped := c.applyFulfillment(&RandomWordsFulfilled{
		RequestId:   "never-issued",
		RandomWords: []uint64{1, 2},
	})

	assert.False(t, dropped)
	assert.True(t, engine.RequestInProgress())
	assert.Empty(t, engine.fulfilled)
	assert.Empty(t, recorder.published)
}

func TestApplyFulfillmentPublishesEventAndMirrorsRow(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.RandomnessRequest{}))
	require.NoError(t, db.Create(&model.RandomnessRequest{
		Id:          "req-1",
		GameId:      7,
		RequestedAt: time.Now().UTC(),
	}).Error)

	engine := &fakeLifecycle{gameId: 7}
	engine.BeginRandomnessRequest("req-1")
	recorder := &eventRecorder{}
	c := &coordinator{db: db, engine: engine, publish: recorder.publish}

	applied := c.applyFulfillment(&RandomWordsFulfilled{
		RequestId:   "req-1",
		RandomWords: []uint64{9, 3},
	})
	require.True(t, applied)

	require.Len(t, recorder.published, 1)
	event, ok := recorder.published[0].(RandomWordsFulfilledEvent)
	require.True(t, ok)
	assert.Equal(t, "req-1", event.RequestId)
	assert.Equal(t, uint64(7), event.GameId)
	assert.Equal(t, "flipcard.game.events", event.GetEventTopicName())

	var row model.RandomnessRequest
	require.NoError(t, db.First(&row, "id = ?", "req-1").Error)
	require.NotNil(t, row.FulfilledAt)
	require.NotNil(t, row.WordOne)
	require.NotNil(t, row.WordTwo)
	assert.Equal(t, uint64(9), *row.WordOne)
	assert.Equal(t, uint64(3), *row.WordTwo)
}

func TestRequestProblemMapsSingleFlightConflict(t *testing.T) {
	pwt := requestProblem(game.ErrRequestInProgress)
	assert.Equal(t, http.StatusConflict, pwt.Problem.Status)
	assert.Equal(t, "error.game.request-in-progress", pwt.Problem.Code)

	pwt = requestProblem(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, pwt.Problem.Status)
	assert.ErrorIs(t, pwt.Cause, assert.AnError)
}
