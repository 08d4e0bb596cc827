package server

// ============================================================================
// ERROR RESPONSES
// ============================================================================
// tygo:generate
type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ============================================================================
// HOST GAME (hostGame)
// ============================================================================
// tygo:generate
type HostGameRequest struct {
	GameMode string `json:"gameMode"`
}

// tygo:generate
type GameCreatedResponse struct {
	RoomID   string `json:"roomId"`
	GameMode string `json:"gameMode"`
}

// ============================================================================
// JOIN GAME (joinGame)
// ============================================================================
// tygo:generate
type JoinGameRequest struct {
	RoomID string `json:"roomId"`
}

// ============================================================================
// PLAYER ACTION (playerAction)
// ============================================================================
// tygo:generate
type PlayerActionRequest struct {
	Action    string `json:"action"`
	CardIndex *int   `json:"cardIndex,omitempty"`
}

// ============================================================================
// GAME START (gameStart broadcast)
// ============================================================================
// tygo:generate
type GameStartNotification struct {
	RoomID   string `json:"roomId"`
	GameMode string `json:"gameMode"`
	// PlayerNum tells each client which seat is theirs
	PlayerNum int `json:"playerNum"`
}

// ============================================================================
// PLAYER LEFT (playerLeft broadcast)
// ============================================================================
// tygo:generate
type PlayerLeftNotification struct {
	Message string `json:"message"`
}

// ============================================================================
// ROOM CLOSED (roomClosed broadcast)
// ============================================================================
// tygo:generate
type RoomClosedNotification struct {
	Message string `json:"message"`
}
