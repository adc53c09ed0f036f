package relay

import (
	"bytes"
	"net"
	"sync"
	"testing"
	"time"
)

// recordingObserver captures observed chunks per direction. Chunks are
// copied because the shunt reuses its buffer.
type recordingObserver struct {
	mu     sync.Mutex
	chunks map[string][][]byte
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{chunks: make(map[string][][]byte)}
}

func (r *recordingObserver) Observe(direction string, chunk []byte) {
	c := append([]byte(nil), chunk...)
	r.mu.Lock()
	r.chunks[direction] = append(r.chunks[direction], c)
	r.mu.Unlock()
}

func (r *recordingObserver) joined(direction string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []byte
	for _, c := range r.chunks[direction] {
		out = append(out, c...)
	}
	return out
}

func (r *recordingObserver) counts(direction string) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, c := range r.chunks[direction] {
		out = append(out, len(c))
	}
	return out
}

type panickyObserver struct{}

func (panickyObserver) Observe(string, []byte) { panic("sink failure") }

func TestShuntForwardsAndObserves(t *testing.T) {
	srcNear, srcFar := net.Pipe()
	dstNear, dstFar := net.Pipe()
	rec := newRecordingObserver()

	var n int64
	var err error
	done := make(chan struct{})
	go func() {
		n, err = shunt(DirectionClient, srcFar, dstNear, rec)
		close(done)
	}()

	buf := make([]byte, 16)
	for _, msg := range []string{"hello", "world!"} {
		if _, werr := srcNear.Write([]byte(msg)); werr != nil {
			t.Fatalf("write: %v", werr)
		}
		m, rerr := dstFar.Read(buf)
		if rerr != nil {
			t.Fatalf("read: %v", rerr)
		}
		if string(buf[:m]) != msg {
			t.Errorf("forwarded %q, want %q", buf[:m], msg)
		}
	}
	_ = srcNear.Close()
	<-done

	if err != nil {
		t.Errorf("unexpected shunt error: %v", err)
	}
	if n != 11 {
		t.Errorf("expected 11 bytes forwarded, got %d", n)
	}
	if got := string(rec.joined(DirectionClient)); got != "helloworld!" {
		t.Errorf("observer saw %q", got)
	}
	counts := rec.counts(DirectionClient)
	if len(counts) != 2 || counts[0] != 5 || counts[1] != 6 {
		t.Errorf("observed chunk sizes %v, want [5 6]", counts)
	}

	// Destination write side must be closed once the shunt exits.
	_ = dstFar.SetReadDeadline(time.Now().Add(time.Second))
	if _, rerr := dstFar.Read(buf); rerr == nil {
		t.Error("expected destination to be closed after shunt exit")
	}
}

func TestShuntObserverPanicDoesNotStopForwarding(t *testing.T) {
	srcNear, srcFar := net.Pipe()
	dstNear, dstFar := net.Pipe()

	done := make(chan struct{})
	go func() {
		_, _ = shunt(DirectionServer, srcFar, dstNear, panickyObserver{})
		close(done)
	}()

	if _, err := srcNear.Write([]byte("data")); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 16)
	n, err := dstFar.Read(buf)
	if err != nil {
		t.Fatalf("read after observer panic: %v", err)
	}
	if !bytes.Equal(buf[:n], []byte("data")) {
		t.Errorf("forwarded %q, want %q", buf[:n], "data")
	}
	_ = srcNear.Close()
	<-done
}

func TestShuntWriteErrorTerminates(t *testing.T) {
	srcNear, srcFar := net.Pipe()
	dstNear, dstFar := net.Pipe()
	_ = dstFar.Close() // peer gone, first write must fail

	var err error
	done := make(chan struct{})
	go func() {
		_, err = shunt(DirectionClient, srcFar, dstNear, newRecordingObserver())
		close(done)
	}()

	// The pipe is synchronous: the shunt consumes this write, then fails on
	// its own write to the dead destination.
	_, _ = srcNear.Write([]byte("x"))
	<-done
	if err == nil {
		t.Error("expected write error to terminate the shunt")
	}
}
