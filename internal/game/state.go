package game

import "fmt"

// StatusEffect names a modifier attached to a player. The map value is the
// remaining duration in the owner's turns; one-shot effects are stored with
// duration 1 and removed when they trigger.
type StatusEffect string

const (
	StatusShield       StatusEffect = "shield"
	StatusStabilized   StatusEffect = "stabilized"
	StatusDoubleDraw   StatusEffect = "doubledraw"
	StatusSanctuary    StatusEffect = "sanctuary"
	StatusRiftLeak     StatusEffect = "riftleak"
	StatusPhaseShift   StatusEffect = "phaseshift"
	StatusDarkMatter   StatusEffect = "darkmatter"
	StatusEventHorizon StatusEffect = "eventhorizon"
	StatusTimeWarp     StatusEffect = "timewarp"
	StatusCounterspell StatusEffect = "counterspell"
)

type Player struct {
	ConnID           string               `json:"-"`
	Number           int                  `json:"playerNum"`
	Score            int                  `json:"score"`
	Hand             []Card               `json:"hand"`
	Status           map[StatusEffect]int `json:"status"`
	HasDrawn         bool                 `json:"hasDrawn"`
	PlayedActionCard bool                 `json:"actionCardPlayedThisTurn"`
}

// State is the authoritative game state for one room. It is not safe for
// concurrent use; the owning room serializes access.
type State struct {
	Players       [2]*Player
	Deck          []Card
	Mode          Mode
	HandSizeLimit int
	ActivePlayer  int
	GameOver      bool
	Message       string
}

// NewState creates the state for a freshly paired room. The host is always
// player 1 and acts first.
func NewState(mode Mode, hostConn, guestConn string) (*State, error) {
	deck, err := BuildDeck(mode)
	if err != nil {
		return nil, err
	}

	s := &State{
		Deck:          deck,
		Mode:          mode,
		HandSizeLimit: HandSizeLimits[mode],
		ActivePlayer:  1,
		Message:       "Player 1's turn. Draw a card.",
	}
	s.Players[0] = newPlayer(hostConn, 1)
	s.Players[1] = newPlayer(guestConn, 2)
	return s, nil
}

func newPlayer(connID string, number int) *Player {
	return &Player{
		ConnID: connID,
		Number: number,
		Hand:   []Card{},
		Status: make(map[StatusEffect]int),
	}
}

func (s *State) player(number int) *Player {
	return s.Players[number-1]
}

// PlayerByConn resolves the player owning a connection, or nil.
func (s *State) PlayerByConn(connID string) *Player {
	for _, p := range s.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (s *State) opponentOf(p *Player) *Player {
	if p.Number == 1 {
		return s.Players[1]
	}
	return s.Players[0]
}

// canAct gates every mutating action: the game must be live and the actor
// must hold the turn. Out-of-turn input from stale clients is swallowed
// without a reply.
func (s *State) canAct(p *Player) bool {
	return !s.GameOver && p != nil && p.Number == s.ActivePlayer
}

func (p *Player) hasStatus(effect StatusEffect) bool {
	return p.Status[effect] > 0
}

func (p *Player) consumeStatus(effect StatusEffect) {
	delete(p.Status, effect)
}

func turnMessage(playerNum int) string {
	return fmt.Sprintf("Player %d's turn. Draw a card.", playerNum)
}
