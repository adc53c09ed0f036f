package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matst80/teeproxy/internal/obs"
	"github.com/matst80/teeproxy/internal/relay"
	"github.com/matst80/teeproxy/internal/stats"
	"github.com/matst80/teeproxy/internal/tee"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(1)
	}
	obs.EnableDebug(cfg.Debug)

	store, err := stats.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		obs.Error("stats.init", obs.Fields{"err": err.Error()})
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go startMetricsServer(cfg.MetricsAddr, store)
	}

	l := relay.NewListener(relay.Options{
		ListenAddr:  fmt.Sprintf(":%d", cfg.ListenPort),
		Target:      cfg.Target(),
		Observer:    tee.NewConsole(os.Stdout, cfg.Binary),
		Store:       store,
		MaxConnRate: cfg.MaxConnRate,
	})
	if err := l.Run(ctx); err != nil {
		obs.Error("listener.bind", obs.Fields{"err": err.Error(), "port": cfg.ListenPort})
		os.Exit(1)
	}
}
