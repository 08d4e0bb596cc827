package game

import (
	"fmt"
	"math/rand"
)

type Category string

const (
	AetherShard Category = "aether-shard"
	Attack      Category = "attack"
	Defense     Category = "defense"
	Special     Category = "special"
)

// Action identifies the effect an action card dispatches when played.
// Shard cards carry ActionNone and are never played as actions.
type Action string

const (
	ActionNone         Action = ""
	ActionAttack       Action = "attack"
	ActionShield       Action = "shield"
	ActionDoubleDraw   Action = "doubledraw"
	ActionOverload     Action = "overload"
	ActionShatter      Action = "shatter"
	ActionLeach        Action = "leach"
	ActionStabilize    Action = "stabilize"
	ActionSanctuary    Action = "sanctuary"
	ActionSurge        Action = "surge"
	ActionSiphon       Action = "siphon"
	ActionRiftLeak     Action = "riftleak"
	ActionPhaseShift   Action = "phaseshift"
	ActionDarkMatter   Action = "darkmatter"
	ActionSupernova    Action = "supernova"
	ActionParadox      Action = "paradox"
	ActionEventHorizon Action = "eventhorizon"
	ActionTimeWarp     Action = "timewarp"
	ActionCounterspell Action = "counterspell"
	ActionGambit       Action = "gambit"
	ActionEquilibrium  Action = "equilibrium"
	ActionSingularity  Action = "singularity"
	ActionSwap         Action = "swap"
)

type Card struct {
	Name     string   `json:"name"`
	Category Category `json:"type"`
	Value    int      `json:"value,omitempty"`
	Action   Action   `json:"action,omitempty"`
	Effect   string   `json:"effect,omitempty"`
}

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDuelist Mode = "duelist"
	ModeGambit  Mode = "gambit"
	ModeChaos   Mode = "chaos"
)

// HandSizeLimits maps each game mode to its maximum hand size.
// Chaos is effectively unbounded.
var HandSizeLimits = map[Mode]int{
	ModeClassic: 3,
	ModeDuelist: 2,
	ModeGambit:  4,
	ModeChaos:   99,
}

func ValidateMode(mode Mode) error {
	if _, ok := HandSizeLimits[mode]; !ok {
		return fmt.Errorf("INVALID_MODE: Unknown game mode '%s'", mode)
	}
	return nil
}

// aetherShards is the fixed 20-card base pool: weighted counts over values 2-9.
var aetherShards = buildShardPool()

func buildShardPool() []Card {
	counts := []struct {
		value int
		count int
	}{
		{2, 4}, {3, 4}, {4, 3}, {5, 3}, {6, 2}, {7, 2}, {8, 1}, {9, 1},
	}

	pool := make([]Card, 0, 20)
	for _, c := range counts {
		for i := 0; i < c.count; i++ {
			pool = append(pool, Card{Name: "Aether Shard", Category: AetherShard, Value: c.value})
		}
	}
	return pool
}

var classicTier = []Card{
	{Name: "Blast", Category: Attack, Value: 5, Action: ActionAttack, Effect: "Reduce opponent score by 5."},
	{Name: "Shield", Category: Defense, Action: ActionShield, Effect: "Block the next attack."},
	{Name: "Double Draw", Category: Special, Action: ActionDoubleDraw, Effect: "Draw 2 cards next turn."},
}

var strategicTier = []Card{
	{Name: "Aether Overload", Category: Attack, Action: ActionOverload, Effect: "Opponent immediately draws 2 cards."},
	{Name: "Shatter", Category: Attack, Action: ActionShatter, Effect: "Destroy opponent's Shield. If they have none, they lose 7 score."},
	{Name: "Aether Leach", Category: Special, Value: 4, Action: ActionLeach, Effect: "Steal 4 score from opponent."},
	{Name: "Stabilize", Category: Defense, Action: ActionStabilize, Effect: "Next time you > 21, score becomes 15, not 0."},
	{Name: "Sanctuary", Category: Defense, Action: ActionSanctuary, Effect: "Your score cannot be reduced for 2 turns."},
	{Name: "Rift Surge", Category: Special, Action: ActionSurge, Effect: "Set your score to 11."},
}

var advancedTier = []Card{
	{Name: "Aether Siphon", Category: Attack, Action: ActionSiphon, Effect: "Steal a random card from opponent's hand. If they have none, they lose 5 score."},
	{Name: "Rift Leak", Category: Attack, Action: ActionRiftLeak, Effect: "Opponent loses 2 score at the start of their next 3 turns."},
	{Name: "Phase Shift", Category: Defense, Action: ActionPhaseShift, Effect: "On your next turn, you may skip your draw phase to gain 3 score."},
	{Name: "Dark Matter", Category: Defense, Action: ActionDarkMatter, Effect: "Your score is hidden from your opponent for your next 2 turns."},
	{Name: "Supernova", Category: Attack, Action: ActionSupernova, Effect: "Both players' scores are halved (rounded down)."},
	{Name: "Paradox", Category: Special, Action: ActionParadox, Effect: "If winning, swap score with lower player. If losing, swap with higher."},
	{Name: "Event Horizon", Category: Special, Action: ActionEventHorizon, Effect: "For 3 turns, all score-reducing effects are reversed for both players."},
	{Name: "Time Warp", Category: Special, Action: ActionTimeWarp, Effect: "Take an extra turn after this one."},
	{Name: "Counterspell", Category: Defense, Action: ActionCounterspell, Effect: "On opponent's next turn, if they attack, its effect is reflected back for 3 damage."},
	{Name: "Gambit", Category: Special, Action: ActionGambit, Effect: "Discard your hand. Gain 5 score per card."},
	{Name: "Equilibrium", Category: Special, Action: ActionEquilibrium, Effect: "Both scores become the average of the two."},
	{Name: "Singularity", Category: Special, Action: ActionSingularity, Effect: "Reset both players' scores to 0."},
	{Name: "Void Swap", Category: Special, Action: ActionSwap, Effect: "Swap scores with your opponent."},
}

// ActionPool returns the action-card pool for a mode. Tiers are cumulative:
// classic < duelist < gambit < chaos, where gambit only adds Gambit and
// Aether Siphon from the advanced tier.
func ActionPool(mode Mode) ([]Card, error) {
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}

	pool := make([]Card, 0, len(classicTier)+len(strategicTier)+len(advancedTier))
	pool = append(pool, classicTier...)

	switch mode {
	case ModeClassic:
	case ModeDuelist:
		pool = append(pool, strategicTier...)
	case ModeGambit:
		pool = append(pool, strategicTier...)
		for _, card := range advancedTier {
			if card.Name == "Gambit" || card.Name == "Aether Siphon" {
				pool = append(pool, card)
			}
		}
	case ModeChaos:
		pool = append(pool, strategicTier...)
		pool = append(pool, advancedTier...)
	}

	return pool, nil
}

// BuildDeck assembles the full deck for a mode and shuffles it.
// Action cards appear twice each, except the two foundational cards
// (Blast, Shield) which appear three times. The top of the deck is the
// last element; drawing pops from the end.
func BuildDeck(mode Mode) ([]Card, error) {
	pool, err := ActionPool(mode)
	if err != nil {
		return nil, err
	}

	deck := make([]Card, 0, len(aetherShards)+3*len(pool))
	deck = append(deck, aetherShards...)
	for _, card := range pool {
		copies := 2
		if card.Name == "Blast" || card.Name == "Shield" {
			copies = 3
		}
		for i := 0; i < copies; i++ {
			deck = append(deck, card)
		}
	}

	// Fisher-Yates
	for i := len(deck) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	return deck, nil
}
