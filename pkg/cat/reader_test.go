package cat

import (
	"bytes"
	"testing"
	"time"
)

// scriptPort feeds the reader one byte per Read call, with an optional
// number of empty reads first to exercise the idle backoff.
type scriptPort struct {
	data       []byte
	pos        int
	emptyReads int
}

func (p *scriptPort) Read(b []byte) (int, error) {
	if p.emptyReads > 0 {
		p.emptyReads--
		return 0, nil
	}
	if p.pos >= len(p.data) {
		return 0, nil
	}
	b[0] = p.data[p.pos]
	p.pos++
	return 1, nil
}

func (p *scriptPort) Write(b []byte) (int, error) { return len(b), nil }

func newTestReader(port *scriptPort) *frameReader {
	r := newFrameReader(port)
	r.idle = time.Millisecond
	return r
}

func TestReadFrameComplete(t *testing.T) {
	frame := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x03, 0xFD}
	r := newTestReader(&scriptPort{data: frame})

	size := r.readFrame()
	if size != len(frame) {
		t.Fatalf("Expected frame length %d, got %d", len(frame), size)
	}
	if !bytes.Equal(r.buf[:size], frame) {
		t.Errorf("Expected frame % X, got % X", frame, r.buf[:size])
	}
}

func TestReadFrameBackToBack(t *testing.T) {
	first := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x03, 0xFD}
	second := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x04, 0xFD}
	r := newTestReader(&scriptPort{data: append(append([]byte{}, first...), second...)})

	if size := r.readFrame(); !bytes.Equal(r.buf[:size], first) {
		t.Errorf("Expected first frame % X, got % X", first, r.buf[:size])
	}
	if size := r.readFrame(); !bytes.Equal(r.buf[:size], second) {
		t.Errorf("Expected second frame % X, got % X", second, r.buf[:size])
	}
}

func TestReadFrameIdleBackoff(t *testing.T) {
	frame := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x03, 0xFD}
	r := newTestReader(&scriptPort{data: frame, emptyReads: 3})

	size := r.readFrame()
	if size != len(frame) {
		t.Fatalf("Expected frame after idle reads, got length %d", size)
	}
}

func TestReadFrameSkipsLeadingNoise(t *testing.T) {
	frame := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x03, 0xFD}
	noise := []byte{0x11, 0x22, 0x33}
	r := newTestReader(&scriptPort{data: append(append([]byte{}, noise...), frame...)})

	size := r.readFrame()
	if !bytes.Equal(r.buf[:size], frame) {
		t.Errorf("Expected clean frame after noise, got % X", r.buf[:size])
	}
}

func TestReadFrameOversizeDiscarded(t *testing.T) {
	// A preamble followed by 300 non-terminator bytes overruns the buffer;
	// the reader must report a discard and still parse the next frame.
	var data []byte
	data = append(data, 0xFE)
	for i := 0; i < 300; i++ {
		data = append(data, 0x42)
	}
	good := []byte{0xFE, 0xFE, 0xA4, 0xE0, 0x03, 0xFD}
	data = append(data, good...)

	r := newTestReader(&scriptPort{data: data})

	if size := r.readFrame(); size != 0 {
		t.Fatalf("Expected oversize discard (0), got %d", size)
	}
	size := r.readFrame()
	if !bytes.Equal(r.buf[:size], good) {
		t.Errorf("Expected good frame after discard, got % X", r.buf[:size])
	}
}
