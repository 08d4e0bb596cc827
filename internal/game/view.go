package game

// ClientView is the per-connection snapshot sent after any state change.
// Each player receives their own view: their full hand, but only the card
// count for the opponent, and the opponent's score masked while Dark Matter
// is active on them.
type ClientView struct {
	You           SelfView     `json:"you"`
	Opponent      OpponentView `json:"opponent"`
	DeckCount     int          `json:"deckCount"`
	HandSizeLimit int          `json:"handSizeLimit"`
	ActivePlayer  int          `json:"activePlayer"`
	GameIsOver    bool         `json:"gameIsOver"`
	Message       string       `json:"message"`
}

type SelfView struct {
	PlayerNum        int                  `json:"playerNum"`
	Score            int                  `json:"score"`
	Hand             []Card               `json:"hand"`
	Status           map[StatusEffect]int `json:"status"`
	HasDrawn         bool                 `json:"hasDrawn"`
	PlayedActionCard bool                 `json:"actionCardPlayedThisTurn"`
}

type OpponentView struct {
	PlayerNum   int                  `json:"playerNum"`
	Score       int                  `json:"score"`
	ScoreHidden bool                 `json:"scoreHidden"`
	HandLength  int                  `json:"handLength"`
	Status      map[StatusEffect]int `json:"status"`
}

// GetClientView builds the redacted snapshot for one connection. Returns nil
// for connections that are not part of this game.
func (s *State) GetClientView(connID string) *ClientView {
	p := s.PlayerByConn(connID)
	if p == nil {
		return nil
	}
	opponent := s.opponentOf(p)

	opponentView := OpponentView{
		PlayerNum:  opponent.Number,
		Score:      opponent.Score,
		HandLength: len(opponent.Hand),
		Status:     opponent.Status,
	}
	if opponent.hasStatus(StatusDarkMatter) {
		opponentView.Score = 0
		opponentView.ScoreHidden = true
	}

	return &ClientView{
		You: SelfView{
			PlayerNum:        p.Number,
			Score:            p.Score,
			Hand:             p.Hand,
			Status:           p.Status,
			HasDrawn:         p.HasDrawn,
			PlayedActionCard: p.PlayedActionCard,
		},
		Opponent:      opponentView,
		DeckCount:     len(s.Deck),
		HandSizeLimit: s.HandSizeLimit,
		ActivePlayer:  s.ActivePlayer,
		GameIsOver:    s.GameOver,
		Message:       s.Message,
	}
}
