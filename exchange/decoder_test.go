package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"booktrack/orderbook"
)

const (
	symbolReply    = `{"jsonrpc":"2.0","result":{"id":"ETHBTC","baseCurrency":"ETH","quoteCurrency":"BTC","quantityIncrement":"0.001","tickSize":"0.000001","takeLiquidityRate":"0.001","provideLiquidityRate":"-0.0001","feeCurrency":"BTC"},"id":1}`
	subscribeReply = `{"jsonrpc":"2.0","result":true,"id":2}`
	snapshotFrame  = `{"jsonrpc":"2.0","method":"snapshotOrderbook","params":{"ask":[{"price":"0.054588","size":"0.245"},{"price":"0.054590","size":"1.000"}],"bid":[{"price":"0.054558","size":"0.500"}],"symbol":"ETHBTC","sequence":8073827}}`
	updateFrame    = `{"jsonrpc":"2.0","method":"updateOrderbook","params":{"ask":[{"price":"0.054588","size":"0.000"}],"bid":[{"price":"0.054559","size":"0.100"}],"symbol":"ETHBTC","sequence":8073830}}`
)

func subscribedDecoder(t *testing.T) *Decoder {
	t.Helper()
	dec := NewDecoder(zaptest.NewLogger(t))
	reqs := subscribeRequests(dec, []string{"ETHBTC"})
	require.Len(t, reqs, 2)
	assert.Equal(t, Request{Method: MethodGetSymbol, Params: SymbolParams{Symbol: "ETHBTC"}, ID: 1}, reqs[0])
	assert.Equal(t, Request{Method: MethodSubscribeOrderbook, Params: SymbolParams{Symbol: "ETHBTC"}, ID: 2}, reqs[1])
	return dec
}

func TestDecodeReplies(t *testing.T) {
	dec := subscribedDecoder(t)

	ev, err := dec.Decode([]byte(symbolReply))
	require.NoError(t, err)
	assert.Equal(t, EventSymbol, ev.Kind)
	assert.Equal(t, "ETHBTC", ev.Symbol)
	p, err := ev.SymbolInfo.Precision()
	require.NoError(t, err)
	assert.Equal(t, orderbook.Precision{Price: -6, Size: -3}, p)

	ev, err = dec.Decode([]byte(subscribeReply))
	require.NoError(t, err)
	assert.Equal(t, EventSubscribed, ev.Kind)
	assert.Equal(t, "ETHBTC", ev.Symbol)
	assert.Zero(t, dec.Pending())

	// a second reply with the same id is no longer expected
	ev, err = dec.Decode([]byte(subscribeReply))
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, ev.Kind)
}

func TestDecodeNotifications(t *testing.T) {
	dec := subscribedDecoder(t)

	ev, err := dec.Decode([]byte(snapshotFrame))
	require.NoError(t, err)
	assert.Equal(t, EventSnapshot, ev.Kind)
	assert.Equal(t, "ETHBTC", ev.Symbol)
	assert.Equal(t, int64(8073827), ev.Snapshot.Sequence)
	assert.Equal(t, []orderbook.Quote{{Price: "0.054558", Size: "0.500"}}, ev.Snapshot.Bids)
	assert.Len(t, ev.Snapshot.Asks, 2)
	assert.False(t, ev.Snapshot.Timestamp.IsZero())

	ev, err = dec.Decode([]byte(updateFrame))
	require.NoError(t, err)
	assert.Equal(t, EventUpdate, ev.Kind)
	assert.Equal(t, []orderbook.Quote{{Price: "0.054588", Size: "0.000"}}, ev.Update.Asks)
	assert.Equal(t, []orderbook.Quote{{Price: "0.054559", Size: "0.100"}}, ev.Update.Bids)

	// a method member wins over an id member
	ev, err = dec.Decode([]byte(`{"method":"updateOrderbook","params":{"symbol":"ETHBTC"},"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, EventUpdate, ev.Kind)
	assert.Equal(t, 2, dec.Pending())
}

func TestDecodeServerError(t *testing.T) {
	dec := subscribedDecoder(t)
	_, err := dec.Decode([]byte(`{"jsonrpc":"2.0","error":{"code":2001,"message":"Symbol not found","description":"Try get /api/2/public/symbol, to get list of all available symbols."},"id":2}`))
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, int64(2001), serverErr.Code)
	assert.Equal(t, "Symbol not found", serverErr.Message)
	assert.Equal(t, uint64(2), serverErr.RequestID)
	assert.Contains(t, err.Error(), "code=2001")
	assert.Equal(t, 1, dec.Pending())
}

func TestDecodeRejectedSubscription(t *testing.T) {
	dec := subscribedDecoder(t)
	_, err := dec.Decode([]byte(`{"jsonrpc":"2.0","result":false,"id":2}`))
	assert.ErrorIs(t, err, ErrSubscriptionRejected)
}

func TestDecodeIgnored(t *testing.T) {
	dec := subscribedDecoder(t)
	for _, frame := range []string{
		`not json`,
		`[1,2,3]`,
		`{"jsonrpc":"2.0"}`,
		`{"jsonrpc":"2.0","method":"ticker","params":{"symbol":"ETHBTC"}}`,
		`{"jsonrpc":"2.0","result":true,"id":99}`,
	} {
		ev, err := dec.Decode([]byte(frame))
		require.NoError(t, err, frame)
		assert.Equal(t, EventIgnored, ev.Kind, frame)
	}
}

func TestDecodeProtocolErrors(t *testing.T) {
	dec := subscribedDecoder(t)
	_, err := dec.Decode([]byte(`{"method":"snapshotOrderbook","params":{"ask":"nope"}}`))
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = dec.Decode([]byte(`{"result":"nope","id":1}`))
	assert.ErrorIs(t, err, ErrProtocol)
}
