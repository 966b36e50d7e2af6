// Package report carries recovered configuration problems from the
// highlighting core to the UI. The core publishes and moves on; it never
// waits for a warning to be acknowledged. Deduplication of repeated
// warnings is the subscriber's concern.
package report

import (
	"context"
	"fmt"

	"github.com/Wraith29/harmony/internal/log"
	"github.com/Wraith29/harmony/internal/pubsub"
)

// Kind classifies a recovered configuration problem.
type Kind int

const (
	// ConfigurationNotFound means a grammar or theme file is missing.
	ConfigurationNotFound Kind = iota
	// ConfigurationInvalid means a grammar or theme file names something
	// outside the recognized set, such as an unknown category.
	ConfigurationInvalid
	// PatternCompileFailure means a single rule pattern failed to compile.
	PatternCompileFailure
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case ConfigurationNotFound:
		return "ConfigurationNotFound"
	case ConfigurationInvalid:
		return "ConfigurationInvalid"
	case PatternCompileFailure:
		return "PatternCompileFailure"
	default:
		return "Unknown"
	}
}

// Report is a single recovered problem with a human-readable message.
type Report struct {
	Kind    Kind
	Message string
}

// Reporter accepts recovered problems. Implementations must not block.
type Reporter interface {
	Report(kind Kind, format string, args ...any)
}

// Channel is a broker-backed Reporter the UI can subscribe to.
type Channel struct {
	broker *pubsub.Broker[Report]
}

// NewChannel creates a reporting channel.
func NewChannel() *Channel {
	return &Channel{broker: pubsub.NewBroker[Report]()}
}

// Report publishes a recovered problem to all subscribers and the log.
func (c *Channel) Report(kind Kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(log.CatSyntax, "recovered configuration problem", "kind", kind, "msg", msg)
	c.broker.Publish(pubsub.WarningEvent, Report{Kind: kind, Message: msg})
}

// Subscribe returns a channel of reports, closed when ctx is cancelled.
func (c *Channel) Subscribe(ctx context.Context) <-chan pubsub.Event[Report] {
	return c.broker.Subscribe(ctx)
}

// Close shuts the channel down.
func (c *Channel) Close() {
	c.broker.Close()
}

// Discard is a Reporter that ignores everything. Useful in tests and for
// headless runs that only care about the rendered output.
type Discard struct{}

// Report implements Reporter.
func (Discard) Report(Kind, string, ...any) {}

// Recorder is a Reporter that remembers every report it receives, in order.
// It is intended for tests.
type Recorder struct {
	Reports []Report
}

// Report implements Reporter.
func (r *Recorder) Report(kind Kind, format string, args ...any) {
	r.Reports = append(r.Reports, Report{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Count returns how many reports of the given kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, rep := range r.Reports {
		if rep.Kind == kind {
			n++
		}
	}
	return n
}
