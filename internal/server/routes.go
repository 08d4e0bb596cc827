package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"aetherwars-server/internal/game"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.Handle("/", http.FileServer(http.Dir("./public")))

	mux.HandleFunc("/health", s.healthHandler)

	mux.HandleFunc("/websocket", s.websocketHandler)

	// Wrap the mux with CORS middleware
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace "*" with specific origins if needed
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := json.Marshal(map[string]interface{}{
		"status":      "up",
		"rooms":       s.roomManager.RoomCount(),
		"connections": s.connectionManager.ConnectionCount(),
	})
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		s.log.WithError(err).Error("Failed to write health response")
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: make environment-specific
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()

	connectionID := uuid.New().String()
	s.log.WithField("connection", connectionID).Info("New connection")
	s.connectionManager.AddConnection(connectionID, socket)
	defer s.handleDisconnect(connectionID)

	for {
		// Read from client
		msgType, data, err := socket.Read(ctx)

		if err != nil {
			s.log.WithField("connection", connectionID).WithError(err).Info("Connection closed")
			return
		}

		if msgType != websocket.MessageText {
			s.log.WithField("connection", connectionID).Warn("Non-text input")
			continue
		}

		if !s.rateLimiter.Allow(connectionID) {
			s.sendError(socket, ctx, "RATE_LIMITED: Too many messages, slow down")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.WithField("connection", connectionID).WithError(err).Warn("Invalid JSON")
			s.sendError(socket, ctx, "INVALID_PAYLOAD: Invalid JSON")
			continue
		}

		s.log.WithFields(logrus.Fields{
			"connection": connectionID,
			"type":       msg.Type,
		}).Debug("Message received")

		if err := ValidateMessageType(msg.Type); err != nil {
			s.log.WithFields(logrus.Fields{
				"connection": connectionID,
				"type":       msg.Type,
			}).Warn("Unknown message type")
			s.sendError(socket, ctx, err.Error())
			continue
		}

		// Route the message
		switch msg.Type {
		case "ping":
			s.handlePing(socket, ctx, connectionID)

		case "hostGame":
			s.handleHostGame(socket, ctx, connectionID, msg.Payload)

		case "joinGame":
			s.handleJoinGame(socket, ctx, connectionID, msg.Payload)

		case "playerAction":
			s.handlePlayerAction(socket, ctx, connectionID, msg.Payload)
		}
	}
}

// handleDisconnect tears down everything attached to a closing connection.
// If the connection was seated in a room, the opponent is notified and the
// room is destroyed; an abandoned game cannot be resumed.
func (s *Server) handleDisconnect(connectionID string) {
	s.connectionManager.RemoveConnection(connectionID)
	s.rateLimiter.RemoveConnection(connectionID)

	room := s.roomManager.GetRoomByConnection(connectionID)
	if room == nil {
		return
	}

	room.Lock()
	playerNum := room.PlayerNumber(connectionID)
	opponentConn := room.OpponentConn(connectionID)
	room.Unlock()

	s.log.WithFields(logrus.Fields{
		"connection": connectionID,
		"room":       room.Code,
		"player":     playerNum,
	}).Info("Player disconnected, closing room")

	if opponentConn != "" {
		s.sendToConnection(opponentConn, ServerMessage{
			Type: "playerLeft",
			Payload: PlayerLeftNotification{
				Message: fmt.Sprintf("Player %d has left the game.", playerNum),
			},
		})
	}

	s.roomManager.DestroyRoom(room.Code)
}

func (s *Server) handlePing(socket *websocket.Conn, ctx context.Context, connectionID string) {
	response := ServerMessage{
		Type:    "pong",
		Payload: struct{}{},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		s.log.WithField("connection", connectionID).WithError(err).Warn("Failed to send pong")
	}
}

func (s *Server) handleHostGame(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req HostGameRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "INVALID_PAYLOAD: Invalid hostGame payload")
		return
	}

	mode := game.Mode(req.GameMode)
	if req.GameMode == "" {
		mode = game.ModeClassic
	}

	room, err := s.roomManager.CreateRoom(connectionID, mode)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.log.WithFields(logrus.Fields{
		"connection": connectionID,
		"room":       room.Code,
		"mode":       string(room.Mode),
	}).Info("Room created")

	response := ServerMessage{
		Type: "gameCreated",
		Payload: GameCreatedResponse{
			RoomID:   room.Code,
			GameMode: string(room.Mode),
		},
	}
	if err := s.sendMessage(socket, ctx, response); err != nil {
		s.log.WithError(err).Warn("Failed to send gameCreated")
	}
}

func (s *Server) handleJoinGame(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req JoinGameRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "INVALID_PAYLOAD: Invalid joinGame payload")
		return
	}

	room, err := s.roomManager.JoinRoom(req.RoomID, connectionID)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.log.WithFields(logrus.Fields{
		"connection": connectionID,
		"room":       room.Code,
	}).Info("Player joined, game starting")

	// Announce the match to both seats, then deal out the first snapshot.
	room.Lock()
	defer room.Unlock()

	for _, connID := range room.ConnIDs() {
		s.sendToConnection(connID, ServerMessage{
			Type: "gameStart",
			Payload: GameStartNotification{
				RoomID:    room.Code,
				GameMode:  string(room.Mode),
				PlayerNum: room.PlayerNumber(connID),
			},
		})
	}

	s.broadcastGameUpdate(room)
}

func (s *Server) handlePlayerAction(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req PlayerActionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "INVALID_PAYLOAD: Invalid playerAction payload")
		return
	}

	if err := ValidatePlayerAction(req.Action); err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	room := s.roomManager.GetRoomByConnection(connectionID)
	if room == nil {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room.Lock()
	defer room.Unlock()

	if room.Game == nil {
		s.sendError(socket, ctx, "GAME_NOT_STARTED: Waiting for a second player")
		return
	}

	// quit bypasses turn checks: either player can abandon at any time
	if req.Action == "quit" {
		s.handleQuit(room, connectionID)
		return
	}

	applied := false
	switch req.Action {
	case "drawCard":
		applied = room.Game.Draw(connectionID)

	case "playCard":
		if req.CardIndex == nil {
			s.sendError(socket, ctx, "INVALID_PAYLOAD: playCard requires cardIndex")
			return
		}
		applied = room.Game.PlayCard(connectionID, *req.CardIndex)

	case "endTurn":
		applied = room.Game.EndTurn(connectionID)
	}

	// Out-of-turn and repeated actions are dropped without a reply
	if !applied {
		s.log.WithFields(logrus.Fields{
			"connection": connectionID,
			"room":       room.Code,
			"action":     req.Action,
		}).Debug("Action ignored")
		return
	}

	room.Game.CheckWin()
	room.Touch()
	s.broadcastGameUpdate(room)
}

// handleQuit announces the departure to the whole room, quitter included,
// and destroys the room. The caller holds the room lock.
func (s *Server) handleQuit(room *Room, connectionID string) {
	playerNum := room.PlayerNumber(connectionID)

	s.log.WithFields(logrus.Fields{
		"connection": connectionID,
		"room":       room.Code,
		"player":     playerNum,
	}).Info("Player quit")

	notice := ServerMessage{
		Type: "playerLeft",
		Payload: PlayerLeftNotification{
			Message: fmt.Sprintf("Player %d has quit the game.", playerNum),
		},
	}
	for _, connID := range room.ConnIDs() {
		s.sendToConnection(connID, notice)
	}

	s.roomManager.DestroyRoom(room.Code)
}

// broadcastGameUpdate sends each seat its own view of the game. Each player
// sees their full hand but only a card count for the opponent.
func (s *Server) broadcastGameUpdate(room *Room) {
	for _, connID := range room.ConnIDs() {
		view := room.Game.GetClientView(connID)
		if view == nil {
			continue
		}

		s.sendToConnection(connID, ServerMessage{
			Type:    "gameUpdate",
			Payload: view,
		})
	}
}

// sendToConnection delivers a message to a connection by ID, using a
// background context so broadcasts are not tied to any request.
func (s *Server) sendToConnection(connID string, msg ServerMessage) {
	conn := s.connectionManager.GetConnection(connID)
	if conn == nil {
		return
	}

	if err := s.sendMessage(conn, context.Background(), msg); err != nil {
		s.log.WithField("connection", connID).WithError(err).Warn("Failed to send message")
	}
}

func (s *Server) sendMessage(socket *websocket.Conn, ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	return socket.Write(ctx, websocket.MessageText, data)
}

func (s *Server) sendError(socket *websocket.Conn, ctx context.Context, msg string) {
	response := ServerMessage{
		Type: "error",
		Payload: ErrorMessage{
			Message: msg,
		},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		s.log.WithError(err).Warn("Failed to send error message")
	}
}
