package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"text/tabwriter"
	"time"
)

// Printers render decoded events in the configured output format.
// All three implement event.Sink through serverSink's delegation and
// must tolerate concurrent calls from many connection tasks.

func newPrinter(mode string, out io.Writer) (printer, error) {
	switch mode {
	case "line":
		return &linePrinter{}, nil
	case "json":
		return &jsonPrinter{enc: json.NewEncoder(out)}, nil
	case "table":
		return newTablePrinter(out), nil
	default:
		return nil, fmt.Errorf("unknown mode %q (want line, json or table)", mode)
	}
}

type printer interface {
	location(r locationRow)
	parseError(terminal, remote, kind, detail, frameHex string)
	unhandled(terminal string, msgID uint16, bodyHex string)
}

// locationRow is the flattened form every printer renders
type locationRow struct {
	Terminal  string            `json:"terminal"`
	Source    string            `json:"source"`
	Time      time.Time         `json:"time"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Altitude  uint16            `json:"altitude_m"`
	SpeedKmh  float64           `json:"speed_kmh"`
	Heading   string            `json:"heading"`
	Alarm     uint32            `json:"alarm,omitempty"`
	Status    uint32            `json:"status,omitempty"`
	Valid     bool              `json:"valid"`
	AlarmType string            `json:"alarm_type,omitempty"`
	Extras    map[string]string `json:"extras,omitempty"`
}

// linePrinter writes one log line per event
type linePrinter struct{}

func (p *linePrinter) location(r locationRow) {
	line := fmt.Sprintf("[%s] LOCATION %s (%.6f, %.6f) alt=%dm speed=%.1fkm/h heading=%s",
		r.Terminal, r.Time.Format(time.RFC3339), r.Latitude, r.Longitude,
		r.Altitude, r.SpeedKmh, r.Heading)
	if r.AlarmType != "" {
		line += " alarm=" + r.AlarmType
	} else if r.Alarm != 0 {
		line += fmt.Sprintf(" alarm=0x%08X", r.Alarm)
	}
	if len(r.Extras) > 0 {
		keys := make([]string, 0, len(r.Extras))
		for k := range r.Extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%s", k, r.Extras[k])
		}
	}
	log.Println(line)
}

func (p *linePrinter) parseError(terminal, remote, kind, detail, frameHex string) {
	label := terminal
	if label == "" {
		label = remote
	}
	line := fmt.Sprintf("[%s] PARSE ERROR (%s): %s", label, kind, detail)
	if frameHex != "" {
		line += " frame: " + frameHex
	}
	log.Println(line)
}

func (p *linePrinter) unhandled(terminal string, msgID uint16, bodyHex string) {
	log.Printf("[%s] UNHANDLED 0x%04X body=%s", terminal, msgID, bodyHex)
}

// jsonPrinter writes one JSON object per event to stdout
type jsonPrinter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

type jsonEnvelope struct {
	Event string `json:"event"`

	Location *locationRow `json:"location,omitempty"`

	Terminal string `json:"terminal,omitempty"`
	Remote   string `json:"remote,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Detail   string `json:"detail,omitempty"`
	FrameHex string `json:"frame_hex,omitempty"`
	MsgID    string `json:"msg_id,omitempty"`
	BodyHex  string `json:"body_hex,omitempty"`
}

func (p *jsonPrinter) location(r locationRow) {
	p.emit(jsonEnvelope{Event: "location", Location: &r})
}

func (p *jsonPrinter) parseError(terminal, remote, kind, detail, frameHex string) {
	p.emit(jsonEnvelope{
		Event:    "parse_error",
		Terminal: terminal,
		Remote:   remote,
		Kind:     kind,
		Detail:   detail,
		FrameHex: frameHex,
	})
}

func (p *jsonPrinter) unhandled(terminal string, msgID uint16, bodyHex string) {
	p.emit(jsonEnvelope{
		Event:    "unhandled",
		Terminal: terminal,
		MsgID:    fmt.Sprintf("0x%04X", msgID),
		BodyHex:  bodyHex,
	})
}

func (p *jsonPrinter) emit(env jsonEnvelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(env); err != nil {
		log.Printf("json output: %v", err)
	}
}

// tablePrinter writes aligned rows; the header repeats every screenful
type tablePrinter struct {
	mu   sync.Mutex
	tw   *tabwriter.Writer
	rows int
}

const tableHeaderEvery = 20

func newTablePrinter(out io.Writer) *tablePrinter {
	return &tablePrinter{tw: tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)}
}

func (p *tablePrinter) location(r locationRow) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rows%tableHeaderEvery == 0 {
		fmt.Fprintln(p.tw, "TERMINAL\tTIME\tLAT\tLON\tALT\tSPEED\tHEADING\tALARM")
	}
	p.rows++

	alarm := r.AlarmType
	if alarm == "" && r.Alarm != 0 {
		alarm = fmt.Sprintf("0x%08X", r.Alarm)
	}
	if alarm == "" {
		alarm = "-"
	}

	fmt.Fprintf(p.tw, "%s\t%s\t%.6f\t%.6f\t%dm\t%.1f\t%s\t%s\n",
		r.Terminal, r.Time.Format("15:04:05"), r.Latitude, r.Longitude,
		r.Altitude, r.SpeedKmh, r.Heading, alarm)
	p.tw.Flush()
}

func (p *tablePrinter) parseError(terminal, remote, kind, detail, frameHex string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	label := terminal
	if label == "" {
		label = remote
	}
	fmt.Fprintf(p.tw, "%s\t!%s\t%s\n", label, kind, detail)
	p.tw.Flush()
}

func (p *tablePrinter) unhandled(terminal string, msgID uint16, bodyHex string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.tw, "%s\t?0x%04X\t%s\n", terminal, msgID, bodyHex)
	p.tw.Flush()
}
