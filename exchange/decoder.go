package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"booktrack/orderbook"
)

var (
	ErrSubscriptionRejected = errors.New("subscription rejected")
	ErrProtocol             = errors.New("protocol error")
)

// Decoder turns inbound frames into events. Replies carry no method, so the
// decoder remembers the method of every request it issued and looks replies
// up by id. Request may be called concurrently with Decode.
type Decoder struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]Request

	now func() time.Time
	log *zap.Logger
}

func NewDecoder(log *zap.Logger) *Decoder {
	return &Decoder{
		nextID:  1,
		pending: make(map[uint64]Request),
		now:     time.Now,
		log:     log,
	}
}

// Request allocates an id for a new request and records it as pending.
func (d *Decoder) Request(method, symbol string) Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	req := Request{Method: method, Params: SymbolParams{Symbol: symbol}, ID: d.nextID}
	d.nextID++
	d.pending[req.ID] = req
	return req
}

func (d *Decoder) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Decode classifies a frame by its members: an error member is a server
// error, a method member is a notification and an id alone is a reply.
// Frames that are not JSON objects are logged and ignored.
func (d *Decoder) Decode(frame []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		d.log.Warn("got unknown message", zap.ByteString("frame", frame), zap.Error(err))
		return Event{Kind: EventIgnored}, nil
	}
	switch {
	case env.Error != nil:
		if env.ID != nil {
			env.Error.RequestID = *env.ID
			d.take(*env.ID)
		}
		return Event{}, env.Error
	case env.Method != "":
		return d.notification(env)
	case env.ID != nil:
		return d.reply(*env.ID, env.Result)
	default:
		d.log.Debug("ignoring frame", zap.ByteString("frame", frame))
		return Event{Kind: EventIgnored}, nil
	}
}

func (d *Decoder) notification(env Envelope) (Event, error) {
	switch env.Method {
	case MethodSnapshotOrderbook, MethodUpdateOrderbook:
	default:
		d.log.Debug("ignoring notification", zap.String("method", env.Method))
		return Event{Kind: EventIgnored}, nil
	}
	var p OrderbookParams
	if err := json.Unmarshal(env.Params, &p); err != nil {
		return Event{}, fmt.Errorf("%w: %s params: %v", ErrProtocol, env.Method, err)
	}
	if env.Method == MethodSnapshotOrderbook {
		return Event{
			Kind:   EventSnapshot,
			Symbol: p.Symbol,
			Snapshot: orderbook.Snapshot{
				Symbol:    p.Symbol,
				Sequence:  p.Sequence,
				Timestamp: d.now(),
				Bids:      p.Bid,
				Asks:      p.Ask,
			},
		}, nil
	}
	return Event{
		Kind:   EventUpdate,
		Symbol: p.Symbol,
		Update: orderbook.QuoteStream{
			Symbol:    p.Symbol,
			Sequence:  p.Sequence,
			Timestamp: d.now(),
			Bids:      p.Bid,
			Asks:      p.Ask,
		},
	}, nil
}

func (d *Decoder) reply(id uint64, result json.RawMessage) (Event, error) {
	req, ok := d.take(id)
	if !ok {
		d.log.Warn("reply to unknown request", zap.Uint64("id", id))
		return Event{Kind: EventIgnored}, nil
	}

	switch req.Method {
	case MethodGetSymbol:
		var info SymbolInfo
		if err := json.Unmarshal(result, &info); err != nil {
			return Event{}, fmt.Errorf("%w: %s reply: %v", ErrProtocol, req.Method, err)
		}
		if info.ID == "" {
			info.ID = req.Params.Symbol
		}
		d.log.Debug("symbol info", zap.Any("info", info))
		return Event{Kind: EventSymbol, Symbol: info.ID, SymbolInfo: info}, nil
	case MethodSubscribeOrderbook:
		var ok bool
		if err := json.Unmarshal(result, &ok); err != nil {
			return Event{}, fmt.Errorf("%w: %s reply: %v", ErrProtocol, req.Method, err)
		}
		if !ok {
			return Event{}, fmt.Errorf("%s: %w", req.Params.Symbol, ErrSubscriptionRejected)
		}
		return Event{Kind: EventSubscribed, Symbol: req.Params.Symbol}, nil
	default:
		d.log.Info("got reply", zap.String("method", req.Method), zap.ByteString("result", result))
		return Event{Kind: EventIgnored}, nil
	}
}

// take removes and returns the pending request with id.
func (d *Decoder) take(id uint64) (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.pending[id]
	delete(d.pending, id)
	return req, ok
}
