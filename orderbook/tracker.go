package orderbook

import (
	"fmt"

	"go.uber.org/zap"
)

type State int

const (
	Uninitialized State = iota
	AwaitingSnapshot
	Tracking
)

func (s State) String() string {
	return []string{"uninitialized", "awaiting snapshot", "tracking"}[s]
}

// Repo is a per-pair book driven by the message loop.
type Repo interface {
	SetPrecision(p Precision) error
	Precision() (Precision, bool)
	OnSnapshot(s Snapshot) (Top, error)
	Baseline() *Decision
	OnUpdate(u QuoteStream) (*Decision, error)
}

var _ Repo = (*Tracker)(nil)

// Tracker owns the mirrored book of one subscribed pair and turns snapshot
// and update messages into render decisions. It is not safe for concurrent
// use; messages must be fed in arrival order.
type Tracker struct {
	Symbol   string
	ByVolume bool

	book      *Book
	precision Precision
	state     State
	log       *zap.Logger
}

func NewTracker(symbol string, byVolume bool, log *zap.Logger) *Tracker {
	return &Tracker{
		Symbol:   symbol,
		ByVolume: byVolume,
		book:     NewBook(),
		log:      log.With(zap.String("symbol", symbol)),
	}
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) Book() *Book {
	return t.book
}

func (t *Tracker) Precision() (Precision, bool) {
	return t.precision, t.state != Uninitialized
}

// SetPrecision fixes the exponents used to parse every later message.
func (t *Tracker) SetPrecision(p Precision) error {
	if t.state != Uninitialized {
		if p != t.precision {
			return fmt.Errorf("%s: %w: %+v -> %+v", t.Symbol, ErrPrecisionChanged, t.precision, p)
		}
		return nil
	}
	t.precision = p
	t.state = AwaitingSnapshot
	t.log.Debug("precision set", zap.Int32("price_exp", p.Price), zap.Int32("size_exp", p.Size))
	return nil
}

// OnSnapshot replaces the book. On error the book is left as it was.
func (t *Tracker) OnSnapshot(s Snapshot) (Top, error) {
	if t.state == Uninitialized {
		return Top{}, fmt.Errorf("%s: snapshot: %w", t.Symbol, ErrMissingPrecision)
	}
	bids, asks, err := t.parse(s.Bids, s.Asks)
	if err != nil {
		return Top{}, fmt.Errorf("%s: snapshot: %w", t.Symbol, err)
	}
	if dropped := t.book.ApplySnapshot(bids, asks); dropped > 0 {
		t.log.Warn("zero-size levels dropped from snapshot", zap.Int("count", dropped))
	}
	t.state = Tracking
	t.log.Debug("snapshot applied",
		zap.Int64("sequence", s.Sequence),
		zap.Int("bids", t.book.Len(Bid)),
		zap.Int("asks", t.book.Len(Ask)),
	)
	return t.book.Top(), nil
}

// Baseline is the decision for the line printed right after a snapshot.
func (t *Tracker) Baseline() *Decision {
	return Baseline(t.book.Top(), t.ByVolume)
}

// OnUpdate applies deltas and reports whether and how the top of book
// changed. A nil decision means nothing is to be printed.
func (t *Tracker) OnUpdate(u QuoteStream) (*Decision, error) {
	switch t.state {
	case Uninitialized:
		return nil, fmt.Errorf("%s: update: %w", t.Symbol, ErrMissingPrecision)
	case AwaitingSnapshot:
		return nil, fmt.Errorf("%s: %w", t.Symbol, ErrUpdateBeforeSnapshot)
	}
	bids, asks, err := t.parse(u.Bids, u.Asks)
	if err != nil {
		return nil, fmt.Errorf("%s: update: %w", t.Symbol, err)
	}
	before := t.book.Top()
	t.book.ApplyUpdate(Bid, bids)
	t.book.ApplyUpdate(Ask, asks)
	after := t.book.Top()
	t.log.Debug("update applied", zap.Int64("sequence", u.Sequence), zap.Int("bids", len(bids)), zap.Int("asks", len(asks)))
	return Decide(before, after, t.ByVolume), nil
}

func (t *Tracker) parse(bidQuotes, askQuotes []Quote) ([]Level, []Level, error) {
	bids, err := t.precision.Levels(Bid, bidQuotes)
	if err != nil {
		return nil, nil, err
	}
	asks, err := t.precision.Levels(Ask, askQuotes)
	if err != nil {
		return nil, nil, err
	}
	return bids, asks, nil
}
