// Package relay implements the connection-relay engine: the accept loop, the
// per-connection session lifecycle and the directional byte shunts that tee
// observed traffic to a display sink while forwarding it unmodified.
package relay

import (
	"context"
	"errors"
	"net"

	"github.com/matst80/teeproxy/internal/obs"
	"github.com/matst80/teeproxy/internal/ratelimit"
	"github.com/matst80/teeproxy/internal/stats"
	"github.com/matst80/teeproxy/internal/tee"
)

// Options configures a Listener. Observer and Store are required; they are
// shared read-only across all sessions.
type Options struct {
	ListenAddr string // address to bind, e.g. ":8080"
	Target     string // upstream host:port every session connects to
	Observer   tee.Observer
	Store      stats.Store
	// MaxConnRate caps accepted connections per second; 0 leaves admission
	// unbounded, which is the designed default.
	MaxConnRate int
}

// Listener accepts client connections and launches one session per
// connection without ever blocking the accept loop on a session.
type Listener struct {
	opts    Options
	limiter *ratelimit.TokenBucket
	nextID  uint64
}

func NewListener(opts Options) *Listener {
	l := &Listener{opts: opts}
	if opts.MaxConnRate > 0 {
		l.limiter = ratelimit.NewTokenBucket(opts.MaxConnRate, opts.MaxConnRate)
	}
	return l
}

// Run binds the configured address and serves until ctx is cancelled. A bind
// failure is returned to the caller; it is the one fatal error this layer
// has.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.opts.ListenAddr)
	if err != nil {
		return err
	}
	return l.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled. Per-accept errors are logged
// and the loop continues; a single failed accept never terminates the
// listener.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	obs.Info("listener.start", obs.Fields{"addr": ln.Addr().String(), "target": l.opts.Target})
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				obs.Info("listener.stop", obs.Fields{"addr": ln.Addr().String()})
				return nil
			}
			obs.Warn("listener.accept", obs.Fields{"err": err.Error()})
			obs.AcceptErrorsTotal.Inc()
			continue
		}
		if l.limiter != nil && !l.limiter.Allow() {
			obs.Warn("listener.ratelimited", obs.Fields{"remote": c.RemoteAddr().String()})
			obs.RateLimitedTotal.Inc()
			_ = c.Close()
			continue
		}
		l.nextID++
		obs.Info("listener.accepted", obs.Fields{"id": l.nextID, "remote": c.RemoteAddr().String()})
		sess := &session{
			id:       l.nextID,
			client:   c,
			target:   l.opts.Target,
			observer: l.opts.Observer,
			store:    l.opts.Store,
		}
		go sess.run()
	}
}
