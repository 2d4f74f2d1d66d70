package main

import (
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/event"
)

// serverSink fans each decoded record out to the configured printer,
// the last-known-position store and the Prometheus counters. Sessions
// on every connection share one instance; all three destinations are
// concurrency-safe.
type serverSink struct {
	printer printer
	store   *positionStore
}

func newServerSink(p printer, store *positionStore) *serverSink {
	return &serverSink{printer: p, store: store}
}

// Location implements event.Sink
func (s *serverSink) Location(ev *event.Location) error {
	framesDecoded.WithLabelValues(string(ev.Source)).Inc()

	row := locationRow{
		Terminal:  ev.Terminal,
		Source:    string(ev.Source),
		Time:      ev.Time,
		Latitude:  ev.Latitude,
		Longitude: ev.Longitude,
		Altitude:  ev.Altitude,
		SpeedKmh:  ev.SpeedKmh,
		Heading:   ev.Heading,
		Alarm:     ev.Alarm,
		Status:    ev.RawStatus,
		Valid:     ev.Valid,
		AlarmType: ev.AlarmType,
		Extras:    ev.Extras,
	}

	s.store.update(row)
	s.printer.location(row)
	return nil
}

// ParseError implements event.Sink
func (s *serverSink) ParseError(ev *event.ParseError) error {
	parseErrors.WithLabelValues(ev.Kind).Inc()
	s.printer.parseError(ev.Terminal, ev.Remote, ev.Kind, ev.Detail, ev.FrameHex)
	return nil
}

// Unhandled implements event.Sink
func (s *serverSink) Unhandled(ev *event.Unhandled) error {
	unhandledMessages.Inc()
	s.printer.unhandled(ev.Terminal, ev.MsgID, ev.BodyHex)
	return nil
}
