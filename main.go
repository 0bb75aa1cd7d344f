package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"booktrack/config"
	"booktrack/display"
	"booktrack/exchange"
	"booktrack/logger"
	"booktrack/orderbook"
	"booktrack/track"
)

func main() {
	os.Exit(run())
}

func run() int {
	byVolume := flag.Bool("v", false, "also print best bid/ask sizes and highlight size-only changes")
	replay := flag.String("replay", "", "read recorded frames from `file` instead of connecting")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] [-replay file] PAIR...\n\nExamples:\n  %[1]s XMRBTC\n  %[1]s -v ETHBTC BTCUSD\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	pairs := lo.Uniq(lo.Map(flag.Args(), func(p string, _ int) string {
		return strings.ToUpper(p)
	}))
	if len(pairs) == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log, err := logger.New(logger.DefaultConfig(cfg.LogLevel, cfg.LogFile), os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trackers := make(map[string]orderbook.Repo, len(pairs))
	for _, pair := range pairs {
		trackers[pair] = orderbook.NewTracker(pair, *byVolume, log)
	}

	var src track.Source
	if *replay != "" {
		r, err := exchange.OpenReplay(*replay, pairs, log)
		if err != nil {
			log.Error("could not open replay", zap.Error(err))
			return 1
		}
		defer r.Close()
		src = r
	} else {
		s, err := exchange.Dial(ctx, cfg.URL, exchange.Options{
			PingInterval:     cfg.PingInterval,
			HandshakeTimeout: cfg.HandshakeTimeout,
		}, log)
		if err != nil {
			log.Error("could not connect", zap.Error(err))
			return 1
		}
		defer s.Close()
		if err := s.Subscribe(pairs...); err != nil {
			log.Error("could not subscribe", zap.Error(err))
			return 1
		}
		src = s
	}

	err = track.Run(ctx, src, trackers, display.New(os.Stdout, len(pairs) > 1), log)
	var serverErr *exchange.ServerError
	switch {
	case err == nil:
		log.Info("disconnected")
		return 0
	case errors.As(err, &serverErr):
		log.Error("server rejected request", zap.Int64("code", serverErr.Code), zap.String("message", serverErr.Message), zap.Uint64("id", serverErr.RequestID))
	case errors.Is(err, orderbook.ErrMalformedDecimal), errors.Is(err, orderbook.ErrMalformedTick):
		log.Error("malformed market data, aborting", zap.Error(err))
	default:
		log.Error("tracking stopped", zap.Error(err))
	}
	return 1
}
