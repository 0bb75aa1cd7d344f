package exchange

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Replay feeds recorded frames, one JSON object per line, through the same
// decoder a live Session uses. Request ids are allocated exactly as
// Session.Subscribe would for the same pairs, so recorded replies match.
type Replay struct {
	scanner *bufio.Scanner
	closer  io.Closer
	dec     *Decoder
	line    int
}

func NewReplay(r io.Reader, pairs []string, log *zap.Logger) *Replay {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)
	dec := NewDecoder(log)
	subscribeRequests(dec, pairs)
	return &Replay{scanner: scanner, dec: dec}
}

func OpenReplay(path string, pairs []string, log *zap.Logger) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReplay(f, pairs, log)
	r.closer = f
	return r, nil
}

func (r *Replay) Next(ctx context.Context) (Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return Event{}, fmt.Errorf("replay line %d: %w", r.line+1, err)
			}
			return Event{}, io.EOF
		}
		r.line++
		frame := bytes.TrimSpace(r.scanner.Bytes())
		if len(frame) == 0 {
			continue
		}
		ev, err := r.dec.Decode(frame)
		if err != nil {
			return Event{}, fmt.Errorf("replay line %d: %w", r.line, err)
		}
		if ev.Kind != EventIgnored {
			return ev, nil
		}
	}
}

func (r *Replay) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
