package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionManager_AddAndGet(t *testing.T) {
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)

	// nil socket is fine for bookkeeping tests; presence is what matters
	assert.Equal(t, 1, cm.ConnectionCount())
	assert.Nil(t, cm.GetConnection("conn-1"))
	assert.Nil(t, cm.GetConnection("conn-missing"))
}

func TestConnectionManager_RemoveConnection(t *testing.T) {
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)
	cm.AddConnection("conn-2", nil)
	assert.Equal(t, 2, cm.ConnectionCount())

	cm.RemoveConnection("conn-1")
	assert.Equal(t, 1, cm.ConnectionCount())

	// Removing twice is harmless
	cm.RemoveConnection("conn-1")
	assert.Equal(t, 1, cm.ConnectionCount())
}

func TestConnectionManager_AllReturnsSnapshot(t *testing.T) {
	assert := assert.New(t)
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)
	cm.AddConnection("conn-2", nil)

	snapshot := cm.All()
	assert.Equal(2, len(snapshot))
	assert.Contains(snapshot, "conn-1")
	assert.Contains(snapshot, "conn-2")

	// Mutating the snapshot must not affect the manager
	delete(snapshot, "conn-1")
	assert.Equal(2, cm.ConnectionCount())
}
