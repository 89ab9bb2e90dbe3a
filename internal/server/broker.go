package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload pushed to live subscribers whenever a committed write
// changes game state. The scoreboard UI refetches on receipt rather than
// patching locally, so events carry identifiers, not full documents.
type Event struct {
	Type       string `json:"type"`
	ClueID     int    `json:"clueId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Correct    bool   `json:"correct,omitempty"`
}

const (
	eventGuess        = "guess"
	eventClueSolved   = "clue_solved"
	eventHintUnlocked = "hint_unlocked"
	eventGameReset    = "game_reset"
)

// Broker is an in-process pub/sub fanning out game events to the SSE and
// WebSocket watchers. There is one shared game, so subscriptions are not
// keyed.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers.
func (b *Broker) Publish(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
