package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckWin_ExactlyTwentyOneWins(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[1].Score = 21

	s.CheckWin()

	assert.True(s.GameOver)
	assert.Equal("Player 2 closes the rift! Player 2 wins!", s.Message)
}

func TestCheckWin_BelowTwentyOneContinues(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[0].Score = 20
	s.Players[1].Score = 19

	s.CheckWin()

	assert.False(s.GameOver)
}

func TestCheckWin_DoubleTwentyOneGoesToPlayerOne(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[0].Score = 21
	s.Players[1].Score = 21

	s.CheckWin()

	assert.True(s.GameOver)
	assert.Equal("Player 1 closes the rift! Player 1 wins!", s.Message)
}

func TestCheckWin_AlreadyOverKeepsMessage(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[0].Score = 21
	s.CheckWin()
	won := s.Message

	s.Players[1].Score = 21
	s.CheckWin()

	assert.Equal(won, s.Message)
}

func TestCheckWin_NoActionsAfterGameOver(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[0].Score = 21
	s.Players[0].Hand = []Card{actionCard(ActionShield)}
	s.Players[0].HasDrawn = true
	s.Deck = []Card{shard(2)}

	s.CheckWin()

	assert.False(s.Draw(hostConn))
	assert.False(s.PlayCard(hostConn, 0))
	assert.False(s.EndTurn(hostConn))
}

func TestDrawThenWin_ShardLandsExactly(t *testing.T) {
	assert := assert.New(t)
	s := newTestState(t, ModeClassic)
	s.Players[0].Score = 16
	s.Deck = []Card{shard(5)}

	s.Draw(hostConn)
	s.CheckWin()

	assert.True(s.GameOver)
	assert.Equal(21, s.Players[0].Score)
}
