package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultURL   = "wss://api.hitbtc.com/api/2/ws"
	maxFrameSize = 1 << 20
	writeWait    = 10 * time.Second
)

type Options struct {
	PingInterval     time.Duration
	HandshakeTimeout time.Duration
}

// Session is a websocket connection to the HitBTC streaming API. Next must
// be called from a single goroutine; Subscribe and Close may be called from
// any, including while Next is blocked.
type Session struct {
	conn *websocket.Conn
	dec  *Decoder
	log  *zap.Logger

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string, opts Options, log *zap.Logger) (*Session, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)

	s := &Session{
		conn: conn,
		dec:  NewDecoder(log),
		log:  log,
		done: make(chan struct{}),
	}
	conn.SetPongHandler(func(data string) error {
		log.Debug("got pong", zap.String("data", data))
		return nil
	})
	if opts.PingInterval > 0 {
		go s.pingLoop(opts.PingInterval)
	}
	log.Info("connected", zap.String("url", url))
	return s, nil
}

// Subscribe requests symbol metadata and then the order book of each pair.
func (s *Session) Subscribe(pairs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range subscribeRequests(s.dec, pairs) {
		if err := s.conn.WriteJSON(req); err != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.Params.Symbol, err)
		}
		s.log.Debug("request sent", zap.String("method", req.Method), zap.String("symbol", req.Params.Symbol), zap.Uint64("id", req.ID))
	}
	return nil
}

func subscribeRequests(dec *Decoder, pairs []string) []Request {
	reqs := make([]Request, 0, 2*len(pairs))
	for _, pair := range pairs {
		reqs = append(reqs,
			dec.Request(MethodGetSymbol, pair),
			dec.Request(MethodSubscribeOrderbook, pair),
		)
	}
	return reqs
}

// Next blocks until the next meaningful event. It returns io.EOF when the
// server closes the connection normally.
func (s *Session) Next(ctx context.Context) (Event, error) {
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("server disconnected")
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("websocket read: %w", err)
		}
		if messageType != websocket.TextMessage {
			s.log.Info("got binary", zap.Int("bytes", len(message)))
			continue
		}
		ev, err := s.dec.Decode(message)
		if err != nil {
			return Event{}, err
		}
		if ev.Kind != EventIgnored {
			return ev, nil
		}
	}
}

func (s *Session) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				select {
				case <-s.done:
				default:
					if !errors.Is(err, websocket.ErrCloseSent) {
						s.log.Warn("ping failed", zap.Error(err))
					}
				}
				return
			}
		}
	}
}

// Close sends a close frame and releases the connection.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if werr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); werr != nil {
			s.log.Debug("could not send close message", zap.Error(werr))
		}
		err = s.conn.Close()
	})
	return err
}
