package events

import (
	"github.com/arcanumforge/layoutforge/pkg/genplan"
	"github.com/arcanumforge/layoutforge/pkg/layout"
)

// Kind distinguishes the three moments a generation publishes a snapshot.
type Kind int

const (
	// OnPerturbed fires after every accepted perturbation.
	OnPerturbed Kind = iota
	// OnPartialValid fires after a chain reaches a valid placement.
	OnPartialValid
	// OnValid fires once, for the final resolved layout.
	OnValid
)

func (k Kind) String() string {
	switch k {
	case OnPerturbed:
		return "perturbed"
	case OnPartialValid:
		return "partial_valid"
	case OnValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Snapshot is a value-typed layout snapshot published to subscribers.
// Layout is the internal, integer-indexed partial (or full) layout;
// Converted is populated only for OnValid, after corridor resolution.
type Snapshot struct {
	Kind       Kind
	ChainIndex int
	Layout     *layout.Layout
	Converted  *genplan.MapLayout
}

const subscriberBuffer = 64

// Publisher fans a stream of Snapshots out to zero or more subscribers.
// A single generation owns one Publisher for its whole run.
type Publisher struct {
	subs []chan Snapshot
}

// NewPublisher returns an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Subscribe registers a new observer and returns its receive channel.
// The channel is closed when the publisher is closed.
func (p *Publisher) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)
	p.subs = append(p.subs, ch)
	return ch
}

// Publish sends s to every subscriber without blocking; a subscriber
// whose buffer is full simply misses this snapshot rather than stalling
// the generation.
func (p *Publisher) Publish(s Snapshot) {
	for _, ch := range p.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Close closes every subscriber channel, signaling the end of the
// generation's event stream.
func (p *Publisher) Close() {
	for _, ch := range p.subs {
		close(ch)
	}
}
