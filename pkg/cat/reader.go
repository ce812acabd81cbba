package cat

import (
	"io"
	"time"
)

// defaultIdleSleep is how long the reader waits when the port has no data.
// The protocol is human speed; a 10 ms poll bounds reply latency well below
// anything a logging program notices.
const defaultIdleSleep = 10 * time.Millisecond

// frameReader accumulates serial bytes into a single reusable frame buffer.
// A frame ends at the terminator byte; input that overruns the buffer is
// discarded. Bytes arriving between frames are skipped until a preamble
// byte shows up, so line noise cannot poison the next well-formed frame.
type frameReader struct {
	port io.Reader
	buf  [MaxFrameLen]byte
	idle time.Duration
}

func newFrameReader(port io.Reader) *frameReader {
	return &frameReader{port: port, idle: defaultIdleSleep}
}

// readFrame blocks until one terminated frame is buffered and returns its
// length including the terminator. It returns 0 when an oversize frame had
// to be discarded; the caller must not dispatch that result. There is no
// deadline on a partially received frame: a peer that stops mid-frame
// stalls the protocol loop until it resumes.
func (r *frameReader) readFrame() int {
	size := 0
	var c [1]byte

	for i := range r.buf {
		r.buf[i] = 0
	}

	for {
		n, err := r.port.Read(c[:])
		if n > 0 {
			if size == 0 && c[0] != FramePre {
				continue
			}

			r.buf[size] = c[0]
			size++

			if c[0] == FrameEnd {
				return size
			}

			if size >= MaxFrameLen {
				return 0
			}
		} else if err != nil || n == 0 {
			time.Sleep(r.idle)
		}
	}
}
