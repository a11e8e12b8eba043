package fairness

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kollektive-hackathon/flipcard-backend/internal/pkg/model"
	"github.com/wealdtech/go-merkletree"
	keccak "github.com/wealdtech/go-merkletree/keccak256"
)

var ErrRoundNotFound = errors.New("round not in audit log")

// RoundLog is the provably-fair audit trail: every resolved round becomes a
// keccak256 merkle leaf, and any player can fetch an inclusion proof for a
// past round against the published root.
type RoundLog struct {
	mu     sync.Mutex
	rounds []model.GameRound
	leaves [][]byte
}

func NewRoundLog() *RoundLog {
	return &RoundLog{}
}

// RoundLeaf fixes the leaf layout. Roster order, both words and the winner
// go in, so a tampered history changes the root.
func RoundLeaf(round model.GameRound) []byte {
	return []byte(fmt.Sprintf("%d|%s|%s|%d|%d|%s",
		round.GameId,
		round.PlayerOne,
		round.PlayerTwo,
		round.WordOne,
		round.WordTwo,
		round.Winner))
}

func (l *RoundLog) Append(round model.GameRound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rounds = append(l.rounds, round)
	l.leaves = append(l.leaves, RoundLeaf(round))
}

func (l *RoundLog) Rounds() []model.GameRound {
	l.mu.Lock()
	defer l.mu.Unlock()
	rounds := make([]model.GameRound, len(l.rounds))
	copy(rounds, l.rounds)
	return rounds
}

func (l *RoundLog) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rounds)
}

// Root returns the current merkle root, nil while the log is empty.
func (l *RoundLog) Root() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.root()
}

// Proof returns the leaf and inclusion proof for the round at the given
// index together with the root it verifies against.
func (l *RoundLog) Proof(index int) ([]byte, *merkletree.Proof, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.leaves) {
		return nil, nil, nil, ErrRoundNotFound
	}

	tree, err := merkletree.NewUsing(l.leaves, keccak.New(), nil)
	if err != nil {
		return nil, nil, nil, err
	}

	leaf := l.leaves[index]
	proof, err := tree.GenerateProof(leaf)
	if err != nil {
		return nil, nil, nil, err
	}

	return leaf, proof, tree.Root(), nil
}

func (l *RoundLog) root() ([]byte, error) {
	if len(l.leaves) == 0 {
		return nil, nil
	}
	tree, err := merkletree.NewUsing(l.leaves, keccak.New(), nil)
	if err != nil {
		return nil, err
	}
	return tree.Root(), nil
}

// Verify checks a leaf and proof against a root, the same way an external
// auditor would.
func Verify(leaf []byte, proof *merkletree.Proof, root []byte) (bool, error) {
	return merkletree.VerifyProofUsing(leaf, proof, root, keccak.New(), nil)
}
