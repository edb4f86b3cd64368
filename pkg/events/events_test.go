package events_test

import (
	"testing"

	"github.com/arcanumforge/layoutforge/pkg/events"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	p := events.NewPublisher()
	sub := p.Subscribe()

	p.Publish(events.Snapshot{Kind: events.OnPerturbed, ChainIndex: 1})

	select {
	case got := <-sub:
		if got.Kind != events.OnPerturbed || got.ChainIndex != 1 {
			t.Fatalf("received %+v, want Kind=OnPerturbed ChainIndex=1", got)
		}
	default:
		t.Fatal("Publish() did not deliver to a subscriber with free buffer capacity")
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	p := events.NewPublisher()
	sub := p.Subscribe()

	// Fill the subscriber's buffer well past capacity; Publish must never
	// block even though nothing is draining the channel.
	for i := 0; i < 1000; i++ {
		p.Publish(events.Snapshot{Kind: events.OnPerturbed, ChainIndex: i})
	}

	// Channel should hold at most its buffered capacity worth of items;
	// draining it must terminate (no goroutine leak / no deadlock).
	count := 0
	for range sub {
		count++
		if count > 64 {
			t.Fatal("subscriber channel holds more than its buffer capacity")
		}
		if count == 64 {
			break
		}
	}
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	p := events.NewPublisher()
	sub := p.Subscribe()
	p.Close()

	_, ok := <-sub
	if ok {
		t.Fatal("subscriber channel received a value after Close(), want closed with no value")
	}
}

func TestKindString(t *testing.T) {
	cases := map[events.Kind]string{
		events.OnPerturbed:    "perturbed",
		events.OnPartialValid: "partial_valid",
		events.OnValid:        "valid",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
