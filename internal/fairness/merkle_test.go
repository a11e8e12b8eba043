package fairness

import (
	"testing"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRound(gameId uint64, wordOne, wordTwo uint64, winner string) model.GameRound {
	return model.GameRound{
		GameId:    gameId,
		PlayerOne: "0xA",
		PlayerTwo: "0xB",
		WordOne:   wordOne,
		WordTwo:   wordTwo,
		Winner:    winner,
		Loser:     "0xB",
		Pot:       20,
	}
}

func TestEmptyLogHasNoRoot(t *testing.T) {
	log := NewRoundLog()

	root, err := log.Root()
	require.NoError(t, err)
	assert.Nil(t, root)
	assert.Equal(t, 0, log.Size())

	_, _, _, err = log.Proof(0)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestAppendChangesRoot(t *testing.T) {
	log := NewRoundLog()

	log.Append(sampleRound(1, 9, 3, "0xA"))
	first, err := log.Root()
	require.NoError(t, err)
	require.NotNil(t, first)

	log.Append(sampleRound(2, 4, 8, "0xB"))
	second, err := log.Root()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, log.Size())
	assert.Len(t, log.Rounds(), 2)
}

func TestProofVerifiesAgainstRoot(t *testing.T) {
	log := NewRoundLog()
	log.Append(sampleRound(1, 9, 3, "0xA"))
	log.Append(sampleRound(2, 4, 8, "0xB"))
	log.Append(sampleRound(3, 1, 2, "0xB"))

	for index := 0; index < log.Size(); index++ {
		leaf, proof, root, err := log.Proof(index)
		require.NoError(t, err)

		verified, err := Verify(leaf, proof, root)
		require.NoError(t, err)
		assert.True(t, verified)
	}
}

func TestTamperedLeafFailsVerification(t *testing.T) {
	log := NewRoundLog()
	log.Append(sampleRound(1, 9, 3, "0xA"))
	log.Append(sampleRound(2, 4, 8, "0xB"))

	_, proof, root, err := log.Proof(0)
	require.NoError(t, err)

	forged := RoundLeaf(sampleRound(1, 9, 3, "0xB"))
	verified, err := Verify(forged, proof, root)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestProofIndexOutOfRange(t *testing.T) {
	log := NewRoundLog()
	log.Append(sampleRound(1, 9, 3, "0xA"))

	_, _, _, err := log.Proof(-1)
	assert.ErrorIs(t, err, ErrRoundNotFound)
	_, _, _, err = log.Proof(1)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}
