package relay

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/matst80/teeproxy/internal/obs"
	"github.com/matst80/teeproxy/internal/stats"
	"github.com/matst80/teeproxy/internal/tee"
)

// session owns one accepted client connection and the upstream connection it
// opens. It runs the two directional shunts and guarantees both connections
// end up closed, whatever order the directions finish in.
type session struct {
	id       uint64
	client   net.Conn
	target   string // upstream host:port
	observer tee.Observer
	store    stats.Store
}

// run executes the session to completion. Errors never escape: every
// failure is logged here and ends only this session.
func (s *session) run() {
	upstream, err := net.Dial("tcp", s.target)
	if err != nil {
		obs.Error("session.dial", obs.Fields{"id": s.id, "target": s.target, "err": err.Error()})
		s.store.DialFailed()
		// Without an upstream the accepted connection is useless; close it
		// rather than leak the descriptor.
		_ = s.client.Close()
		return
	}
	obs.Info("session.connected", obs.Fields{"id": s.id, "target": s.target, "local": upstream.LocalAddr().String()})

	s.store.SessionStarted()
	start := time.Now()

	// Server->client runs in its own goroutine; client->server runs here so
	// the session can block on the direction whose completion usually means
	// the peer is done too, then join the spawned one.
	type result struct {
		n   int64
		err error
	}
	serverDone := make(chan result, 1)
	go func() {
		n, err := shunt(DirectionServer, upstream, s.client, s.observer)
		serverDone <- result{n, err}
	}()
	clientBytes, clientErr := shunt(DirectionClient, s.client, upstream, s.observer)
	serverRes := <-serverDone

	// Both shunts already half-closed their streams; these closes make the
	// teardown unconditional and are expected to be redundant.
	_ = upstream.Close()
	_ = s.client.Close()

	s.store.SessionClosed(clientBytes, serverRes.n)
	obs.SessionDurationSeconds.Observe(time.Since(start).Seconds())
	logShuntError(s.id, DirectionClient, clientErr)
	logShuntError(s.id, DirectionServer, serverRes.err)
	obs.Info("session.closed", obs.Fields{
		"id":           s.id,
		"client_bytes": clientBytes,
		"server_bytes": serverRes.n,
	})
}

// logShuntError reports a shunt's terminating I/O error. Closed-connection
// errors are the normal echo of the other direction finishing first and are
// only worth a debug line.
func logShuntError(id uint64, direction string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		obs.Debug("session.shunt.closed", obs.Fields{"id": id, "direction": direction, "err": err.Error()})
		return
	}
	obs.Error("session.shunt", obs.Fields{"id": id, "direction": direction, "err": err.Error()})
}
