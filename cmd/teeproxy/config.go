package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
)

// Config holds all runtime configuration derived from the command line.
// There is no config file and no environment lookup.
type Config struct {
	ListenPort  int
	ConnectHost string
	ConnectPort int
	Binary      bool

	Debug         bool
	MetricsAddr   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MaxConnRate   int
}

const usageText = `usage: teeproxy [-b] [options] listenPort connectHost connectPort

Listens on listenPort and relays every connection to connectHost:connectPort,
copying each observed chunk to stdout as "<direction> <count>" plus payload.

  -b    traffic is binary; render control characters as '.'
  -debug
        enable debug logs
  -max-conn-rate n
        max accepted connections per second (0 = unlimited)
  -metrics addr
        serve prometheus metrics and the dashboard on addr (empty = disabled)
  -redis addr
        publish session stats to redis at addr (empty = in-memory only)
  -redis-db n
        redis database number
  -redis-password secret
        redis password
`

// parseConfig parses the command line (without the program name). Any
// problem is returned as an error; the caller prints usage and exits 1.
func parseConfig(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("teeproxy", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // usage is printed by the caller, once
	fs.BoolVar(&cfg.Binary, "b", false, "")
	fs.BoolVar(&cfg.Debug, "debug", false, "")
	fs.StringVar(&cfg.MetricsAddr, "metrics", "", "")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "")
	fs.IntVar(&cfg.MaxConnRate, "max-conn-rate", 0, "")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return nil, fmt.Errorf("expected listenPort connectHost connectPort, got %d arguments", len(rest))
	}
	var err error
	if cfg.ListenPort, err = parsePort(rest[0]); err != nil {
		return nil, fmt.Errorf("listenPort: %w", err)
	}
	cfg.ConnectHost = rest[1]
	if cfg.ConnectHost == "" {
		return nil, fmt.Errorf("connectHost must not be empty")
	}
	if cfg.ConnectPort, err = parsePort(rest[2]); err != nil {
		return nil, fmt.Errorf("connectPort: %w", err)
	}
	return cfg, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("port out of range: %d", p)
	}
	return p, nil
}

// Target is the upstream address every session connects to.
func (c *Config) Target() string {
	return net.JoinHostPort(c.ConnectHost, strconv.Itoa(c.ConnectPort))
}
