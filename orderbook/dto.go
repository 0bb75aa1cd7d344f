package orderbook

import (
	"time"
)

// Quote is a price level as it arrives on the wire.
type Quote struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

type Snapshot struct {
	Symbol    string
	Sequence  int64
	Timestamp time.Time
	Bids      []Quote
	Asks      []Quote
}

// QuoteStream is an incremental update; a zero size removes the level.
type QuoteStream struct {
	Symbol    string
	Sequence  int64
	Timestamp time.Time
	Bids      []Quote
	Asks      []Quote
}

type Side string

const (
	Bid Side = "bid"
	Ask Side = "ask"
)

type Level struct {
	Price Value
	Size  Value
}

// Top is the best bid and best ask of a book; nil means the side is empty.
type Top struct {
	Bid *Level
	Ask *Level
}

func (t Top) TwoSided() bool {
	return t.Bid != nil && t.Ask != nil
}

// Levels parses wire quotes of one side at p.
func (p Precision) Levels(side Side, quotes []Quote) ([]Level, error) {
	levels := make([]Level, 0, len(quotes))
	for i, q := range quotes {
		price, err := ParseValue(q.Price, p.Price)
		if err != nil {
			return nil, &LevelError{Side: side, Index: i, Field: "price", Text: q.Price, Err: err}
		}
		size, err := ParseValue(q.Size, p.Size)
		if err != nil {
			return nil, &LevelError{Side: side, Index: i, Field: "size", Text: q.Size, Err: err}
		}
		levels = append(levels, Level{Price: price, Size: size})
	}
	return levels, nil
}
