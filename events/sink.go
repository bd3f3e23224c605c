package events

import (
	"github.com/earthmind-network/earthmind-go/common"
)

// Sink receives every emitted event. Implementations should return quickly;
// delivery is best-effort from the emitter's point of view.
type Sink interface {
	Publish(event *EventLog) error
}

// NoopSink drops events.
type NoopSink struct{}

func (NoopSink) Publish(*EventLog) error { return nil }

// LoggerSink writes the wire form of each event as a log line.
type LoggerSink struct {
	logger common.Logger
}

func NewLoggerSink(logger common.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Publish(event *EventLog) error {
	s.logger.Log("%s", event.String())
	return nil
}

// MultiSink fans an event out to several sinks, returning the first error
// after all sinks have been offered the event.
type MultiSink []Sink

func (m MultiSink) Publish(event *EventLog) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Publish(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
