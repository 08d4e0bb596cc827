package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/coder/websocket"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort            = 3000
	defaultIdleTimeout     = 30 * time.Minute
	defaultRateLimitPerSec = 20
	reaperInterval         = time.Minute
)

type Server struct {
	port              int
	log               *logrus.Logger
	connectionManager *ConnectionManager
	roomManager       *RoomManager
	rateLimiter       *RateLimiter
	idleTimeout       time.Duration
	done              chan struct{}
}

func NewServer() (*Server, *http.Server) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	newServer := &Server{
		port:              envInt("PORT", defaultPort),
		log:               log,
		connectionManager: NewConnectionManager(),
		roomManager:       NewRoomManager(),
		rateLimiter:       NewRateLimiter(envInt("RATE_LIMIT_PER_SECOND", defaultRateLimitPerSec), time.Second),
		idleTimeout:       time.Duration(envInt("ROOM_IDLE_TIMEOUT_MINUTES", int(defaultIdleTimeout/time.Minute))) * time.Minute,
		done:              make(chan struct{}),
	}

	// Start background tasks
	go newServer.reaperTask()

	// Declare Server config
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", newServer.port),
		Handler:      newServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return newServer, httpServer
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// reaperTask periodically destroys rooms that have seen no activity within
// the idle timeout, notifying any players still seated in them. It also
// trims stale rate limiter entries.
func (s *Server) reaperTask() {
	ticker := time.NewTicker(reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		s.rateLimiter.Cleanup()

		for _, room := range s.roomManager.IdleRooms(s.idleTimeout) {
			s.log.WithField("room", room.Code).Info("Reaping idle room")

			for _, connID := range room.ConnIDs() {
				s.sendToConnection(connID, ServerMessage{
					Type: "roomClosed",
					Payload: RoomClosedNotification{
						Message: "Room closed due to inactivity.",
					},
				})
			}

			s.roomManager.DestroyRoom(room.Code)
		}
	}
}

// Shutdown stops background tasks and tells every live client the server
// is going away. The HTTP listener is shut down separately by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)

	for _, room := range s.roomManager.Rooms() {
		for _, connID := range room.ConnIDs() {
			s.sendToConnection(connID, ServerMessage{
				Type: "roomClosed",
				Payload: RoomClosedNotification{
					Message: "Server is shutting down.",
				},
			})
		}
		s.roomManager.DestroyRoom(room.Code)
	}

	for id, conn := range s.connectionManager.All() {
		conn.Close(websocket.StatusGoingAway, "Server shutting down")
		s.connectionManager.RemoveConnection(id)
	}

	s.log.Info("Server state cleaned up")
	return nil
}
