package relay

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/matst80/teeproxy/internal/obs"
	"github.com/matst80/teeproxy/internal/tee"
)

// Direction labels tagging which way a chunk flows.
const (
	DirectionClient = "C" // client -> server
	DirectionServer = "S" // server -> client
)

const shuntBufSize = 4 * 1024

// shunt pumps bytes from src to dst until src reaches end-of-stream or an
// I/O error occurs. Every chunk is handed to the observer before it is
// forwarded, so the observer sees exactly the bytes about to be written.
// On exit the source's read side and the destination's write side are
// closed (half-close when the connection supports it) so the opposite
// direction can still drain. Returns the bytes forwarded and, for I/O
// failures, the terminating error; end-of-stream is not an error.
func shunt(direction string, src, dst net.Conn, observer tee.Observer) (int64, error) {
	defer closeEnds(src, dst)
	buf := make([]byte, shuntBufSize)
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			observe(observer, direction, buf[:n])
			obs.RelayedBytes.WithLabelValues(direction).Add(float64(n))
			total += int64(n)
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
	}
}

// observe contains observer failures; a panicking sink must never abort
// traffic forwarding.
func observe(observer tee.Observer, direction string, chunk []byte) {
	defer func() {
		if r := recover(); r != nil {
			obs.Error("observer.panic", obs.Fields{"direction": direction, "panic": fmt.Sprint(r)})
		}
	}()
	observer.Observe(direction, chunk)
}

// closeEnds shuts the finished direction down. The session closes both
// connections again afterwards; every close here discards its error so the
// double close stays silent.
func closeEnds(src, dst net.Conn) {
	if rc, ok := src.(interface{ CloseRead() error }); ok {
		_ = rc.CloseRead()
	} else {
		_ = src.Close()
	}
	if wc, ok := dst.(interface{ CloseWrite() error }); ok {
		_ = wc.CloseWrite()
	} else {
		_ = dst.Close()
	}
}
