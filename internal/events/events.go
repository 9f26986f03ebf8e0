// Package events publishes build lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// BuildCompleted is published once per finished build.
type BuildCompleted struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Pages      int       `json:"pages"`
	Redirects  int       `json:"redirects"`
	Nodes      int       `json:"nodes"`
	DurationMS int64     `json:"duration_ms"`
	OutputDir  string    `json:"output_dir"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher sends build events.
type Publisher interface {
	PublishBuildCompleted(ctx context.Context, ev BuildCompleted) error
	Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuildCompleted(context.Context, BuildCompleted) error { return nil }
func (NoopPublisher) Close()                                                      {}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("sitebuilder"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS publisher connected", logfields.URL(url), logfields.Subject(subject))
	return newPublisher(nc, subject), nil
}

func newPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject}
}

// PublishBuildCompleted publishes ev and waits for the server to acknowledge
// the flush.
func (p *NATSPublisher) PublishBuildCompleted(ctx context.Context, ev BuildCompleted) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to publish build event").
			WithContext("subject", p.subject).
			Build()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to flush build event").
			WithContext("subject", p.subject).
			Build()
	}
	slog.Debug("Published build event", logfields.Subject(p.subject), logfields.BuildID(ev.BuildID))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() { p.conn.Close() }
