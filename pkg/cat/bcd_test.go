package cat

import (
	"bytes"
	"testing"
)

func TestEncodeBCDKnownValue(t *testing.T) {
	// 14074000 Hz, the 20m FT8 frequency, in a 10-digit field
	buf := make([]byte, 5)
	encodeBCD(buf, 14074000, 10)

	want := []byte{0x00, 0x40, 0x07, 0x14, 0x00}
	if !bytes.Equal(buf, want) {
		t.Errorf("Expected % X, got % X", want, buf)
	}
}

func TestDecodeBCDKnownValue(t *testing.T) {
	buf := []byte{0x00, 0x40, 0x07, 0x14, 0x00}
	if got := decodeBCD(buf, 10); got != 14074000 {
		t.Errorf("Expected 14074000, got %d", got)
	}
}

func TestBCDRoundTrip(t *testing.T) {
	freqs := []int64{
		0,
		1,
		9,
		137500,
		1836600,
		7074000,
		14074000,
		18100000,
		28074000,
		145500000,
		435000000,
		9999999999, // widest value a 10-digit field can carry
	}

	for _, f := range freqs {
		buf := make([]byte, 5)
		encodeBCD(buf, f, 10)
		if got := decodeBCD(buf, 10); got != f {
			t.Errorf("Round trip failed for %d: got %d (bytes % X)", f, got, buf)
		}
	}
}

func TestEncodeBCDOverwritesStaleBytes(t *testing.T) {
	// Encoding a small value into a dirty buffer must still zero-pad the
	// whole field; replies reuse the frame buffer across frames.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	encodeBCD(buf, 7000, 10)

	want := []byte{0x00, 0x70, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, want) {
		t.Errorf("Expected % X, got % X", want, buf)
	}
}

func TestEncodeBCDNeverEmitsSentinels(t *testing.T) {
	// Valid BCD nibbles are 0-9, so no payload byte can collide with the
	// 0xFE/0xFD frame sentinels.
	for _, f := range []int64{14074000, 9999999999, 123456789} {
		buf := make([]byte, 5)
		encodeBCD(buf, f, 10)
		for _, b := range buf {
			if b == FramePre || b == FrameEnd {
				t.Errorf("Frequency %d encoded sentinel byte %02X", f, b)
			}
		}
	}
}
