package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Event{Type: eventClueSolved, ClueID: 7, PlayerName: "alice"})

	for _, ch := range []chan []byte{a, c} {
		select {
		case data := <-ch:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if ev.Type != eventClueSolved || ev.ClueID != 7 || ev.PlayerName != "alice" {
				t.Fatalf("event = %+v", ev)
			}
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	b.Publish(Event{Type: eventGuess})

	select {
	case <-ch:
		t.Fatal("unsubscribed channel received an event")
	default:
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	// Fill past the buffer; Publish must never block.
	for i := 0; i < 40; i++ {
		b.Publish(Event{Type: eventGuess, ClueID: i})
	}

	if got := len(ch); got != cap(ch) {
		t.Fatalf("buffered %d events, want the channel capacity %d", got, cap(ch))
	}
}
