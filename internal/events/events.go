// Package events publishes game lifecycle notifications.
//
// Subjects are "memory.game.<kind>" with a JSON body. Publishing is best
// effort: shells log failures and keep playing.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Kind names a lifecycle event.
type Kind string

const (
	KindStarted   Kind = "started"
	KindAttempt   Kind = "attempt"
	KindCompleted Kind = "completed"
	KindQuit      Kind = "quit"
)

// SubjectPrefix is prepended to the event kind.
const SubjectPrefix = "memory.game."

// Event is a single notification.
type Event struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	GameID       string    `json:"gameId"`
	Theme        string    `json:"theme,omitempty"`
	Daily        string    `json:"daily,omitempty"`
	Attempts     int       `json:"attempts"`
	MatchedPairs int       `json:"matchedPairs"`
	ElapsedMs    int64     `json:"elapsedMs"`
	At           time.Time `json:"at"`
}

// Subject returns the NATS subject for e.
func (e Event) Subject() string { return SubjectPrefix + string(e.Kind) }

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// stamp fills ID and At when the caller left them empty.
func stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return e
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, e Event) error { return nil }
func (Nop) Close()                                      {}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATS publishes events to a NATS server.
type NATS struct {
	nc conn
}

// Connect dials url and returns a publisher.
func Connect(url, name string) (*NATS, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATS{nc: nc}, nil
}

// Publish marshals e and sends it on its subject.
func (n *NATS) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e = stamp(e)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.nc.Publish(e.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject(), err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() {
	if err := n.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("nats drain")
	}
}

// New returns a NATS publisher when url is set, otherwise Nop.
// A failed connection is logged and downgraded to Nop.
func New(url, name string) Publisher {
	if url == "" {
		return Nop{}
	}
	p, err := Connect(url, name)
	if err != nil {
		log.Warn().Err(err).Msg("events disabled")
		return Nop{}
	}
	log.Info().Str("url", url).Msg("publishing game events")
	return p
}
