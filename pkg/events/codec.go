package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Decoder reads a JSONL event stream, one event object per line.
// Blank lines are skipped so hand-edited streams stay readable.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder wraps r in a line-oriented event decoder.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{scanner: sc}
}

// Next returns the next event in the stream. io.EOF signals a clean end.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		d.line++
		text := strings.TrimSpace(d.scanner.Text())
		if text == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return Event{}, fmt.Errorf("decode event at line %d: %w", d.line, err)
		}
		if ev.Type == "" {
			return Event{}, fmt.Errorf("event at line %d has no \"event\" field", d.line)
		}
		return ev, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("read event stream: %w", err)
	}
	return Event{}, io.EOF
}

// Encoder writes events as JSONL. Used by hosts that record a run for
// later replay through the renderer.
type Encoder struct {
	writer *bufio.Writer
	enc    *json.Encoder
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	bw := bufio.NewWriter(w)
	return &Encoder{
		writer: bw,
		enc:    json.NewEncoder(bw),
	}
}

// Write appends one event and flushes at the event boundary.
func (e *Encoder) Write(ev Event) error {
	if err := e.enc.Encode(ev); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := e.writer.Flush(); err != nil {
		return fmt.Errorf("flush event stream: %w", err)
	}
	return nil
}
