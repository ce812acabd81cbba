package radio

// Mode is the internal operating mode. LSB and USB carry an optional data
// variant that the CI-V mode byte cannot express on its own.
type Mode int

const (
	ModeLSB Mode = iota
	ModeUSB
	ModeLSBDig
	ModeUSBDig
	ModeAM
	ModeCW
	ModeCWR
	ModeNFM
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLSB:
		return "LSB"
	case ModeUSB:
		return "USB"
	case ModeLSBDig:
		return "LSB-D"
	case ModeUSBDig:
		return "USB-D"
	case ModeAM:
		return "AM"
	case ModeCW:
		return "CW"
	case ModeCWR:
		return "CW-R"
	case ModeNFM:
		return "NFM"
	default:
		return "UNKNOWN"
	}
}

// IsData reports whether the mode is a data variant.
func (m Mode) IsData() bool {
	return m == ModeLSBDig || m == ModeUSBDig
}

// ParseMode resolves a display name back to its mode.
func ParseMode(name string) (Mode, bool) {
	for m := ModeLSB; m <= ModeNFM; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return ModeLSB, false
}
