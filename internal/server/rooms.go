package server

import (
	"errors"
	"sync"
	"time"

	"aetherwars-server/internal/game"
)

// Room is one hosted match: a code, up to two connections, and the game
// state once both seats are filled. Game stays nil while waiting for the
// second player.
type Room struct {
	Code         string
	Mode         game.Mode
	HostConn     string
	GuestConn    string
	Game         *game.State
	CreatedAt    time.Time
	LastActivity time.Time

	// mu serializes all game actions within this room
	mu sync.Mutex
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

// ConnIDs returns the occupied seats, host first.
func (r *Room) ConnIDs() []string {
	ids := []string{r.HostConn}
	if r.GuestConn != "" {
		ids = append(ids, r.GuestConn)
	}
	return ids
}

// PlayerNumber returns 1 for the host seat, 2 for the guest, 0 for strangers.
func (r *Room) PlayerNumber(connID string) int {
	switch connID {
	case r.HostConn:
		return 1
	case r.GuestConn:
		return 2
	default:
		return 0
	}
}

// OpponentConn returns the other seat's connection, or "" if there is none.
func (r *Room) OpponentConn(connID string) string {
	switch connID {
	case r.HostConn:
		return r.GuestConn
	case r.GuestConn:
		return r.HostConn
	default:
		return ""
	}
}

func (r *Room) Touch() {
	r.LastActivity = time.Now()
}

type RoomManager struct {
	rooms     map[string]*Room   // room code -> room
	byConn    map[string]string  // connectionID -> room code
	usedCodes map[string]bool
	mu        sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:     make(map[string]*Room),
		byConn:    make(map[string]string),
		usedCodes: make(map[string]bool),
	}
}

// CreateRoom opens a new room hosted by hostConn. The mode is validated
// here so a bad hostGame request fails before any state exists.
func (rm *RoomManager) CreateRoom(hostConn string, mode game.Mode) (*Room, error) {
	if err := game.ValidateMode(mode); err != nil {
		return nil, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, inRoom := rm.byConn[hostConn]; inRoom {
		return nil, errors.New("ALREADY_IN_ROOM: Connection is already in a room")
	}

	roomCode := GenerateRoomCode(rm.usedCodes)
	rm.usedCodes[roomCode] = true

	now := time.Now()
	room := &Room{
		Code:         roomCode,
		Mode:         mode,
		HostConn:     hostConn,
		CreatedAt:    now,
		LastActivity: now,
	}

	rm.rooms[roomCode] = room
	rm.byConn[hostConn] = roomCode

	return room, nil
}

// JoinRoom seats guestConn in the room and deals the game. The returned
// room has a live Game; the caller is responsible for announcing it.
func (rm *RoomManager) JoinRoom(code, guestConn string) (*Room, error) {
	code = NormalizeRoomCode(code)
	if err := ValidateRoomCode(code); err != nil {
		return nil, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return nil, errors.New("ROOM_NOT_FOUND: Room not found")
	}

	if room.GuestConn != "" {
		return nil, errors.New("ROOM_FULL: Room already has two players")
	}

	if guestConn == room.HostConn {
		return nil, errors.New("ALREADY_IN_ROOM: Cannot join your own room twice")
	}

	if _, inRoom := rm.byConn[guestConn]; inRoom {
		return nil, errors.New("ALREADY_IN_ROOM: Connection is already in a room")
	}

	state, err := game.NewState(room.Mode, room.HostConn, guestConn)
	if err != nil {
		// Mode was validated at creation, so this means a manager bug.
		return nil, err
	}

	room.GuestConn = guestConn
	room.Game = state
	room.Touch()
	rm.byConn[guestConn] = code

	return room, nil
}

// GetRoomByConnection returns the room a connection sits in, or nil.
func (rm *RoomManager) GetRoomByConnection(connID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	code, exists := rm.byConn[connID]
	if !exists {
		return nil
	}
	return rm.rooms[code]
}

// DestroyRoom tears a room down and frees its code. Idempotent.
func (rm *RoomManager) DestroyRoom(code string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return
	}

	delete(rm.byConn, room.HostConn)
	if room.GuestConn != "" {
		delete(rm.byConn, room.GuestConn)
	}
	delete(rm.rooms, code)
	delete(rm.usedCodes, code)
}

// IdleRooms returns rooms with no activity for longer than timeout.
func (rm *RoomManager) IdleRooms(timeout time.Duration) []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	cutoff := time.Now().Add(-timeout)
	idle := make([]*Room, 0)
	for _, room := range rm.rooms {
		if room.LastActivity.Before(cutoff) {
			idle = append(idle, room)
		}
	}
	return idle
}

// Rooms returns a snapshot of every live room.
func (rm *RoomManager) Rooms() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]*Room, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
