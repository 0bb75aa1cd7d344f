package exchange

import (
	"encoding/json"
	"fmt"

	"booktrack/orderbook"
)

const (
	MethodGetSymbol          = "getSymbol"
	MethodSubscribeOrderbook = "subscribeOrderbook"
	MethodSnapshotOrderbook  = "snapshotOrderbook"
	MethodUpdateOrderbook    = "updateOrderbook"
)

type Request struct {
	Method string       `json:"method"`
	Params SymbolParams `json:"params"`
	ID     uint64       `json:"id"`
}

type SymbolParams struct {
	Symbol string `json:"symbol"`
}

// Envelope is any inbound JSON-RPC frame. Which member is set decides what
// the frame is; see Decoder.Decode.
type Envelope struct {
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ServerError    `json:"error,omitempty"`
	ID     *uint64         `json:"id,omitempty"`
}

type ServerError struct {
	Code        int64  `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	RequestID   uint64 `json:"-"`
}

func (e *ServerError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("server error: code=%d message=%s (%s)", e.Code, e.Message, e.Description)
	}
	return fmt.Sprintf("server error: code=%d message=%s", e.Code, e.Message)
}

type SymbolInfo struct {
	ID                   string `json:"id"`
	BaseCurrency         string `json:"baseCurrency"`
	QuoteCurrency        string `json:"quoteCurrency"`
	QuantityIncrement    string `json:"quantityIncrement"`
	TickSize             string `json:"tickSize"`
	TakeLiquidityRate    string `json:"takeLiquidityRate"`
	ProvideLiquidityRate string `json:"provideLiquidityRate"`
	FeeCurrency          string `json:"feeCurrency"`
}

func (s SymbolInfo) Precision() (orderbook.Precision, error) {
	p, err := orderbook.PrecisionFromTicks(s.TickSize, s.QuantityIncrement)
	if err != nil {
		return orderbook.Precision{}, fmt.Errorf("symbol %s: %w", s.ID, err)
	}
	return p, nil
}

type OrderbookParams struct {
	Symbol   string            `json:"symbol"`
	Sequence int64             `json:"sequence"`
	Ask      []orderbook.Quote `json:"ask"`
	Bid      []orderbook.Quote `json:"bid"`
}

type EventKind int

const (
	EventIgnored EventKind = iota
	EventSymbol
	EventSubscribed
	EventSnapshot
	EventUpdate
)

func (k EventKind) String() string {
	return []string{"ignored", "symbol", "subscribed", "snapshot", "update"}[k]
}

// Event is one decoded inbound frame.
type Event struct {
	Kind       EventKind
	Symbol     string
	SymbolInfo SymbolInfo
	Snapshot   orderbook.Snapshot
	Update     orderbook.QuoteStream
}
