// Package tee renders observed traffic for human inspection.
//
// Chunks are decoded as Latin-1 (one byte, one rune) so the reported byte
// count and the control-character masking line up with the wire bytes no
// matter what encoding the relayed protocol actually uses.
package tee

import (
	"fmt"
	"io"
	"unicode"
)

// Observer receives every chunk a relay is about to forward, tagged with its
// direction ("C" for client-origin, "S" for server-origin). Implementations
// must not mutate or retain chunk; the relay reuses the backing buffer.
type Observer interface {
	Observe(direction string, chunk []byte)
}

// Console writes observed chunks as two lines: "<direction> <count>" followed
// by the decoded payload. It holds no mutable state and is safe for
// concurrent use; each call issues a single write so the two lines of a
// chunk stay adjacent even when both directions are active.
type Console struct {
	w      io.Writer
	binary bool
}

func NewConsole(w io.Writer, binary bool) *Console {
	return &Console{w: w, binary: binary}
}

func (c *Console) Observe(direction string, chunk []byte) {
	fmt.Fprintf(c.w, "%s %d\n%s\n", direction, len(chunk), Display(chunk, c.binary))
}

// Display decodes chunk as Latin-1. With binary set, every ISO control
// character is replaced by '.' the way xxd renders non-printables; otherwise
// the decoded text passes through unchanged.
func Display(chunk []byte, binary bool) string {
	runes := make([]rune, len(chunk))
	for i, b := range chunk {
		r := rune(b)
		if binary && unicode.IsControl(r) {
			r = '.'
		}
		runes[i] = r
	}
	return string(runes)
}
