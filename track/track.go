package track

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"booktrack/exchange"
	"booktrack/orderbook"
)

type Source interface {
	Next(ctx context.Context) (exchange.Event, error)
}

type Sink interface {
	Line(symbol string, d *orderbook.Decision)
}

// Run feeds events from src to the tracker of their symbol until the stream
// ends. A clean end of stream or a cancelled ctx returns nil.
func Run(ctx context.Context, src Source, trackers map[string]orderbook.Repo, sink Sink, log *zap.Logger) error {
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if ev.Kind == exchange.EventIgnored {
			continue
		}
		repo, ok := trackers[ev.Symbol]
		if !ok {
			log.Warn("event for unsubscribed symbol", zap.String("symbol", ev.Symbol), zap.Stringer("kind", ev.Kind))
			continue
		}
		if err := handle(ev, repo, sink, log); err != nil {
			return err
		}
	}
}

func handle(ev exchange.Event, repo orderbook.Repo, sink Sink, log *zap.Logger) error {
	switch ev.Kind {
	case exchange.EventSymbol:
		p, err := ev.SymbolInfo.Precision()
		if err != nil {
			return err
		}
		if err := repo.SetPrecision(p); err != nil {
			return err
		}
		if p, ok := repo.Precision(); ok {
			log.Info("precision", zap.String("symbol", ev.Symbol), zap.Int32("price_exp", p.Price), zap.Int32("size_exp", p.Size))
		}
	case exchange.EventSubscribed:
		log.Info("subscribed", zap.String("symbol", ev.Symbol))
	case exchange.EventSnapshot:
		if _, err := repo.OnSnapshot(ev.Snapshot); err != nil {
			return err
		}
		sink.Line(ev.Symbol, repo.Baseline())
	case exchange.EventUpdate:
		d, err := repo.OnUpdate(ev.Update)
		if err != nil {
			return err
		}
		if d != nil {
			sink.Line(ev.Symbol, d)
		}
	default:
		return fmt.Errorf("unexpected event %s", ev.Kind)
	}
	return nil
}
