package cat

import "github.com/db2zw/x6100-gui/pkg/radio"

// The wire mode byte collapses the LSB/USB data variants into the plain
// codes; converting back needs the companion data-mode flag some commands
// carry. The round trip internal -> wire -> internal is lossy on purpose.

// modeToWire maps an internal mode to its CI-V mode byte.
func modeToWire(m radio.Mode) byte {
	switch m {
	case radio.ModeLSB, radio.ModeLSBDig:
		return ModeCodeLSB
	case radio.ModeUSB, radio.ModeUSBDig:
		return ModeCodeUSB
	case radio.ModeAM:
		return ModeCodeAM
	case radio.ModeCW:
		return ModeCodeCW
	case radio.ModeCWR:
		return ModeCodeCWR
	case radio.ModeNFM:
		return ModeCodeNFM
	default:
		return ModeCodeLSB
	}
}

// modeFromWire maps a CI-V mode byte plus data flag to the internal mode.
// Unknown mode bytes are rejected rather than guessed.
func modeFromWire(code byte, data bool) (radio.Mode, bool) {
	switch code {
	case ModeCodeLSB:
		if data {
			return radio.ModeLSBDig, true
		}
		return radio.ModeLSB, true
	case ModeCodeUSB:
		if data {
			return radio.ModeUSBDig, true
		}
		return radio.ModeUSB, true
	case ModeCodeAM:
		return radio.ModeAM, true
	case ModeCodeCW:
		return radio.ModeCW, true
	case ModeCodeCWR:
		return radio.ModeCWR, true
	case ModeCodeNFM:
		return radio.ModeNFM, true
	default:
		return 0, false
	}
}
