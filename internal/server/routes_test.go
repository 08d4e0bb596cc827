package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"aetherwars-server/internal/game"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Server{
		port:              0,
		log:               log,
		connectionManager: NewConnectionManager(),
		roomManager:       NewRoomManager(),
		rateLimiter:       NewRateLimiter(20, time.Second),
		idleTimeout:       30 * time.Minute,
		done:              make(chan struct{}),
	}
}

func TestHealthHandler(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer()
	s.roomManager.CreateRoom("conn-1", game.ModeClassic)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.healthHandler(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal("up", body["status"])
	assert.Equal(float64(1), body["rooms"])
	assert.Equal(float64(0), body["connections"])
}

func TestCorsMiddlewareSetsHeaders(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer()

	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddlewarePreflight(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer()

	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the next handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/websocket", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusNoContent, rec.Code)
}

func dialTestSocket(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, serverURL+"/websocket", nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write envelope: %v", err)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return msg.Type, msg.Payload
}

func TestWebsocket_QuitNotifiesBothPlayers(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer()
	srv := httptest.NewServer(s.RegisterRoutes())
	defer srv.Close()

	host := dialTestSocket(t, srv.URL)
	defer host.Close(websocket.StatusNormalClosure, "")

	sendEnvelope(t, host, "hostGame", HostGameRequest{GameMode: "classic"})

	msgType, payload := readEnvelope(t, host)
	assert.Equal("gameCreated", msgType)
	var created GameCreatedResponse
	assert.NoError(json.Unmarshal(payload, &created))
	assert.Equal(6, len(created.RoomID))

	guest := dialTestSocket(t, srv.URL)
	defer guest.Close(websocket.StatusNormalClosure, "")

	sendEnvelope(t, guest, "joinGame", JoinGameRequest{RoomID: created.RoomID})

	// Both seats get the start announcement and the first snapshot
	msgType, _ = readEnvelope(t, host)
	assert.Equal("gameStart", msgType)
	msgType, _ = readEnvelope(t, host)
	assert.Equal("gameUpdate", msgType)
	msgType, _ = readEnvelope(t, guest)
	assert.Equal("gameStart", msgType)
	msgType, _ = readEnvelope(t, guest)
	assert.Equal("gameUpdate", msgType)

	sendEnvelope(t, host, "playerAction", PlayerActionRequest{Action: "quit"})

	// The departure notice reaches the quitter as well as the opponent
	var left PlayerLeftNotification

	msgType, payload = readEnvelope(t, host)
	assert.Equal("playerLeft", msgType)
	assert.NoError(json.Unmarshal(payload, &left))
	assert.Equal("Player 1 has quit the game.", left.Message)

	msgType, payload = readEnvelope(t, guest)
	assert.Equal("playerLeft", msgType)
	assert.NoError(json.Unmarshal(payload, &left))
	assert.Equal("Player 1 has quit the game.", left.Message)

	assert.Eventually(func() bool {
		return s.roomManager.RoomCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestWebsocket_UnknownMessageTypeRejected(t *testing.T) {
	assert := assert.New(t)
	s := newTestServer()
	srv := httptest.NewServer(s.RegisterRoutes())
	defer srv.Close()

	conn := dialTestSocket(t, srv.URL)
	defer conn.Close(websocket.StatusNormalClosure, "")

	sendEnvelope(t, conn, "teleport", struct{}{})

	msgType, payload := readEnvelope(t, conn)
	assert.Equal("error", msgType)

	var errMsg ErrorMessage
	assert.NoError(json.Unmarshal(payload, &errMsg))
	assert.Contains(errMsg.Message, "INVALID_MESSAGE_TYPE")
	assert.Contains(errMsg.Message, "teleport")
}

func TestEnvIntFallbacks(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("TEST_ENV_INT", "")
	assert.Equal(42, envInt("TEST_ENV_INT", 42))

	t.Setenv("TEST_ENV_INT", "7")
	assert.Equal(7, envInt("TEST_ENV_INT", 42))

	t.Setenv("TEST_ENV_INT", "not-a-number")
	assert.Equal(42, envInt("TEST_ENV_INT", 42))

	t.Setenv("TEST_ENV_INT", "-3")
	assert.Equal(42, envInt("TEST_ENV_INT", 42))
}
