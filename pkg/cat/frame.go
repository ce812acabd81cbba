package cat

// CI-V frame layout: FE FE dst src cmd [sub] [payload...] FD.
// All offsets are relative to the start of the frame so every handler
// indexes the buffer the same way.
const (
	FramePre byte = 0xFE
	FrameEnd byte = 0xFD

	CodeOK byte = 0xFB
	CodeNG byte = 0xFA

	// MaxFrameLen bounds a single frame; longer input is discarded.
	MaxFrameLen = 256
	// MinFrameLen is pre, pre, dst, src, cmd, end.
	MinFrameLen = 6
)

// Fixed field offsets.
const (
	idxDst = 2
	idxSrc = 3
	idxCmd = 4
	idxSub = 5
)

// Command bytes handled by this device.
const (
	CmdReadFreq      byte = 0x03 // read display frequency
	CmdReadMode      byte = 0x04 // read display mode
	CmdSetFreq       byte = 0x05 // set frequency data
	CmdSetMode       byte = 0x06 // set mode data
	CmdSetVFO        byte = 0x07 // set VFO
	CmdSplit         byte = 0x0F // control split
	CmdTuningStep    byte = 0x10 // set tuning step
	CmdTransceiverID byte = 0x19 // read transceiver ID code
	CmdPTT           byte = 0x1C // control transmit on/off
	CmdSelFreq       byte = 0x25 // send/recv selected/unselected VFO frequency
	CmdSelMode       byte = 0x26 // send/recv selected/unselected VFO mode
)

// VFO selector subcommand values for CmdSetVFO. The wire format also
// carries swap/dual-watch selectors; this device rejects them.
const (
	SelVFOA byte = 0x00
	SelVFOB byte = 0x01
)

// Operating mode bytes as they appear on the wire.
const (
	ModeCodeLSB byte = 0x00
	ModeCodeUSB byte = 0x01
	ModeCodeAM  byte = 0x02
	ModeCodeCW  byte = 0x03
	ModeCodeNFM byte = 0x05
	ModeCodeCWR byte = 0x07
)
