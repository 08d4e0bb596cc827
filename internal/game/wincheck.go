package game

import "fmt"

// CheckWin runs after every applied action: a score of exactly 21 closes the
// rift and ends the game. Player 1 is inspected first, so a simultaneous
// double-21 (reachable through symmetric effects like Equilibrium) is awarded
// to player 1. The tie-break is deterministic by player number.
func (s *State) CheckWin() {
	if s.GameOver {
		return
	}
	for _, p := range s.Players {
		if p.Score == 21 {
			s.GameOver = true
			s.Message = fmt.Sprintf("Player %d closes the rift! Player %d wins!", p.Number, p.Number)
			return
		}
	}
}
