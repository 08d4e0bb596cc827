package game

import (
	"fmt"
	"math/rand"
)

/*
 * Draw Phase
 */

// Draw executes the active player's draw. Returns false when the action was
// ignored (wrong turn, game over, or already drawn this turn).
func (s *State) Draw(connID string) bool {
	p := s.PlayerByConn(connID)
	if !s.canAct(p) || p.HasDrawn {
		return false
	}

	p.HasDrawn = true
	draws := 1
	if p.hasStatus(StatusDoubleDraw) {
		draws = 2
		p.consumeStatus(StatusDoubleDraw)
	}

	reshuffled := s.drawCards(p, draws)

	drew := "a card"
	if draws > 1 {
		drew = "2 cards"
	}
	s.Message = fmt.Sprintf("Player %d drew %s.", p.Number, drew)
	if reshuffled {
		s.Message = "Deck reshuffled! " + s.Message
	}
	return true
}

// drawCards pops n cards for p, rebuilding the deck whenever it runs dry.
// Shards score immediately (with eager overflow normalization); other cards
// join the hand only below the limit. Overflow draws simply vanish, there
// is no discard pile. Also used by Aether Overload to force opponent draws.
func (s *State) drawCards(p *Player, n int) (reshuffled bool) {
	for i := 0; i < n; i++ {
		if len(s.Deck) == 0 {
			deck, err := BuildDeck(s.Mode)
			if err != nil {
				// Mode was validated when the room was created.
				return reshuffled
			}
			s.Deck = deck
			reshuffled = true
		}

		card := s.Deck[len(s.Deck)-1]
		s.Deck = s.Deck[:len(s.Deck)-1]

		if card.Category == AetherShard {
			p.Score += card.Value
			s.normalizeOverflow(p)
		} else if len(p.Hand) < s.HandSizeLimit {
			p.Hand = append(p.Hand, card)
		}
	}
	return reshuffled
}

/*
 * Play Phase
 */

// PlayCard plays the card at idx from the active player's hand. One action
// card per turn; bad indices and repeat plays are silent no-ops.
func (s *State) PlayCard(connID string, idx int) bool {
	p := s.PlayerByConn(connID)
	if !s.canAct(p) || p.PlayedActionCard || idx < 0 || idx >= len(p.Hand) {
		return false
	}

	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.PlayedActionCard = true

	opponent := s.opponentOf(p)
	s.Message = fmt.Sprintf("Player %d played %s!", p.Number, card.Name)
	s.resolveAction(card, p, opponent)

	// Either side's score may have moved.
	s.normalizeOverflow(p)
	s.normalizeOverflow(opponent)
	return true
}

// resolveAction dispatches a played card's effect. The switch is exhaustive
// over every action identifier in the catalog; an unknown identifier here
// means the catalog and this dispatch have drifted apart.
func (s *State) resolveAction(card Card, p, opponent *Player) {
	switch card.Action {
	case ActionAttack:
		s.resolveAttack(p, opponent, card.Value)

	case ActionShield:
		p.Status[StatusShield] = 1

	case ActionDoubleDraw:
		p.Status[StatusDoubleDraw] = 1

	case ActionOverload:
		if s.drawCards(opponent, 2) {
			s.Message = "Deck reshuffled! " + s.Message
		}

	case ActionShatter:
		if opponent.hasStatus(StatusShield) {
			opponent.consumeStatus(StatusShield)
			s.Message += " The Shield shattered!"
		} else {
			s.reduceScore(opponent, 7)
		}

	case ActionLeach:
		stolen := min(card.Value, opponent.Score)
		if opponent.hasStatus(StatusSanctuary) || opponent.hasStatus(StatusEventHorizon) {
			s.Message += " But nothing was stolen!"
			break
		}
		opponent.Score -= stolen
		p.Score += stolen

	case ActionStabilize:
		p.Status[StatusStabilized] = 1

	case ActionSanctuary:
		p.Status[StatusSanctuary] = 2

	case ActionSurge:
		p.Score = 11

	case ActionSiphon:
		if len(opponent.Hand) == 0 {
			s.reduceScore(opponent, 5)
			break
		}
		i := rand.Intn(len(opponent.Hand))
		stolen := opponent.Hand[i]
		opponent.Hand = append(opponent.Hand[:i], opponent.Hand[i+1:]...)
		if len(p.Hand) < s.HandSizeLimit {
			p.Hand = append(p.Hand, stolen)
		}

	case ActionRiftLeak:
		opponent.Status[StatusRiftLeak] = 3

	case ActionPhaseShift:
		p.Status[StatusPhaseShift] = 1

	case ActionDarkMatter:
		p.Status[StatusDarkMatter] = 2

	case ActionSupernova:
		p.Score /= 2
		opponent.Score /= 2

	case ActionParadox, ActionSwap:
		// With two players, "swap with the lower/higher" is always a swap.
		p.Score, opponent.Score = opponent.Score, p.Score

	case ActionEventHorizon:
		p.Status[StatusEventHorizon] = 3
		opponent.Status[StatusEventHorizon] = 3

	case ActionTimeWarp:
		p.Status[StatusTimeWarp] = 1

	case ActionCounterspell:
		p.Status[StatusCounterspell] = 1

	case ActionGambit:
		gained := 5 * len(p.Hand)
		p.Hand = []Card{}
		p.Score += gained

	case ActionEquilibrium:
		average := (p.Score + opponent.Score) / 2
		p.Score = average
		opponent.Score = average

	case ActionSingularity:
		p.Score = 0
		opponent.Score = 0

	case ActionNone:
		// Shards are never in a hand; nothing to resolve.
	}
}

// resolveAttack applies a direct attack: Shield blocks it outright (and is
// consumed), Counterspell negates it and reflects 3 damage at the attacker.
func (s *State) resolveAttack(attacker, defender *Player, value int) {
	if defender.hasStatus(StatusShield) {
		defender.consumeStatus(StatusShield)
		s.Message += " But it was blocked!"
		return
	}
	if defender.hasStatus(StatusCounterspell) {
		defender.consumeStatus(StatusCounterspell)
		s.reduceScore(attacker, 3)
		s.Message += " But it was reflected!"
		return
	}
	s.reduceScore(defender, value)
}

// reduceScore routes every score reduction through the defensive statuses:
// Sanctuary blocks it, Event Horizon reverses it into a gain. Floored at 0.
func (s *State) reduceScore(target *Player, amount int) {
	if target.hasStatus(StatusSanctuary) {
		return
	}
	if target.hasStatus(StatusEventHorizon) {
		target.Score += amount
		s.normalizeOverflow(target)
		return
	}
	target.Score = max(0, target.Score-amount)
}

// normalizeOverflow clamps a score that shot past 21: Stabilize converts the
// bust into 15 (consuming the status), otherwise the score collapses to 0.
func (s *State) normalizeOverflow(p *Player) {
	if p.Score <= 21 {
		return
	}
	if p.hasStatus(StatusStabilized) {
		p.Score = 15
		p.consumeStatus(StatusStabilized)
		return
	}
	p.Score = 0
}

/*
 * End Phase
 */

// EndTurn closes the active player's turn. Ending before drawing is a
// no-op unless Phase Shift converts the skipped draw into +3 score.
// Time Warp grants the departing player an immediate extra turn.
func (s *State) EndTurn(connID string) bool {
	p := s.PlayerByConn(connID)
	if !s.canAct(p) {
		return false
	}
	if !p.HasDrawn {
		if !p.hasStatus(StatusPhaseShift) {
			return false
		}
		p.consumeStatus(StatusPhaseShift)
		p.Score += 3
		s.normalizeOverflow(p)
	}

	p.HasDrawn = false
	p.PlayedActionCard = false

	if p.hasStatus(StatusTimeWarp) {
		p.consumeStatus(StatusTimeWarp)
		s.Message = fmt.Sprintf("Player %d warps time for an extra turn. Draw a card.", p.Number)
	} else {
		if s.ActivePlayer == 1 {
			s.ActivePlayer = 2
		} else {
			s.ActivePlayer = 1
		}
		s.Message = turnMessage(s.ActivePlayer)
	}

	s.beginTurn(s.player(s.ActivePlayer))
	return true
}

// beginTurn runs turn-start upkeep for the player about to act: Rift Leak
// ticks for 2 damage, and every timed status owned by that player counts
// down one turn. This is the single decrement point for all durations.
func (s *State) beginTurn(p *Player) {
	if n := p.Status[StatusRiftLeak]; n > 0 {
		s.reduceScore(p, 2)
		s.decrementStatus(p, StatusRiftLeak)
	}
	s.decrementStatus(p, StatusSanctuary)
	s.decrementStatus(p, StatusDarkMatter)
	s.decrementStatus(p, StatusEventHorizon)
}

func (s *State) decrementStatus(p *Player, effect StatusEffect) {
	n, ok := p.Status[effect]
	if !ok {
		return
	}
	if n <= 1 {
		delete(p.Status, effect)
		return
	}
	p.Status[effect] = n - 1
}
